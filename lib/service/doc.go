// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the operational control protocol of the
// realtime daemon: a CBOR request-response protocol over a Unix
// socket. Operator tooling and the admin backend connect to the
// socket, send one request, read one response, and disconnect.
//
// Requests are CBOR maps with an "action" field for routing and,
// for authenticated actions, a "token" field carrying a signed
// session token. The server verifies tokens against the marketplace
// signing key and enforces a role requirement per action.
package service
