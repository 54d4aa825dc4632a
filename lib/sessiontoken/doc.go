// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessiontoken implements the Ed25519-signed session
// credential that admits customers and operators to the realtime
// service.
//
// The marketplace web application mints a token at login and sets it
// as the ss_session cookie. The realtime service verifies tokens
// cryptographically: no shared database session table, no web-app
// round-trip on every handshake.
//
// # Wire format
//
// A token is raw bytes: CBOR-encoded payload followed by a 64-byte
// Ed25519 signature over the payload bytes.
//
//	[CBOR payload bytes] [64-byte Ed25519 signature]
//
// The split point is always len(token) - 64. No header, no length
// prefix; the algorithm is fixed and the signature size is constant.
// Inside a cookie the raw bytes are base64url-encoded ([Encode],
// [Decode]).
//
// # Carrier policy
//
// The WebSocket handshake accepts the credential ONLY from the
// ss_session cookie. [FromRequest] refuses Authorization headers,
// query parameters, and any other transport. Narrowing the carrier to
// one named cookie keeps the attack surface at exactly one code path.
package sessiontoken
