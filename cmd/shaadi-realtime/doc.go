// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Command shaadi-realtime is the marketplace's realtime daemon. It
// serves the browser-facing WebSocket endpoint for push notifications
// and a Unix control socket through which the web backend and operator
// tooling create, claim, and resolve inquiries.
//
// Browsers authenticate with the ss_session cookie minted by the web
// application; the daemon verifies it against the configured Ed25519
// public key. Inquiry state lives in SQLite; resolved inquiries fan
// out to the customer's live session and to the mail queue.
package main
