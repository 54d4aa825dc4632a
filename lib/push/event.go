// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package push

import "time"

// Event is the envelope written to a session. It is CBOR-encoded on
// the wire; browsers receive it as a binary WebSocket message.
type Event struct {
	// Type names the event, e.g. "inquiry.resolved" or
	// "booking.confirmed".
	Type string `cbor:"type"`
	// Ref identifies the work item or booking the event concerns.
	Ref string `cbor:"ref,omitempty"`
	// Body is a short human-readable description.
	Body string `cbor:"body,omitempty"`
	// Timestamp is when the event was produced, not delivered.
	Timestamp time.Time `cbor:"ts"`
}
