// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package push delivers realtime notifications to connected browsers.
//
// A Registry maps subject IDs (the user a connection authenticated as)
// to live Sessions, at most one per subject: a reconnect replaces the
// previous session and the superseded connection is closed. A
// Dispatcher sits in front of the registry and decouples event
// producers from delivery: Notify returns immediately, a bounded pool
// of workers performs the actual writes, and events for a subject with
// no active session are dropped. Delivery is strictly best-effort;
// nothing in this package blocks a caller on a slow or absent browser.
package push
