// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

// pushEvent mirrors the shape of a wire event: string-keyed cbor tags
// with omitempty on optional fields.
type pushEvent struct {
	Type string `cbor:"type"`
	Ref  string `cbor:"ref,omitempty"`
	Body string `cbor:"body,omitempty"`
}

func TestRoundTrip(t *testing.T) {
	original := pushEvent{Type: "booking_update", Ref: "bk-204", Body: "confirmed"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded pushEvent
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip: got %+v, want %+v", decoded, original)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	value := map[string]any{"zeta": 1, "alpha": 2, "mid": 3}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("same value produced different encodings")
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data, err := Marshal(map[string]any{
		"type":          "booking_update",
		"future_field":  "ignored",
		"another_field": 42,
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded pushEvent
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown fields: %v", err)
	}
	if decoded.Type != "booking_update" {
		t.Errorf("Type = %q, want %q", decoded.Type, "booking_update")
	}
}

func TestAnyMapDecodesToStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded to %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested map decoded to %T, want map[string]any", outer["outer"])
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)

	events := []pushEvent{
		{Type: "booking_update", Ref: "bk-1"},
		{Type: "inquiry_reply", Ref: "inq-2", Body: "resolved"},
	}
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range events {
		var got pushEvent
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode event %d: %v", i, err)
		}
		if got != want {
			t.Errorf("event %d: got %+v, want %+v", i, got, want)
		}
	}
}
