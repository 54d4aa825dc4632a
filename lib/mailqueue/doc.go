// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package mailqueue hands finished-reply emails to the delivery
// pipeline. The realtime daemon does not send mail itself; it
// publishes a job per resolved inquiry to a durable message queue and
// a separate mailer consumes them. Queue publication is best-effort
// from the caller's point of view: a resolved inquiry stays resolved
// even if the job cannot be enqueued.
package mailqueue
