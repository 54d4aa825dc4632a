// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec centralizes CBOR encoding configuration.
//
// Everything on the wire (push events to customer connections, ops
// socket requests and responses, session credential payloads) goes
// through this package, so encoder and decoder options are set exactly
// once. Encoding uses Core Deterministic Encoding so that signing a
// payload and re-encoding it later produce identical bytes.
package codec
