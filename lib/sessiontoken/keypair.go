// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateKeypair creates a new Ed25519 keypair for credential
// signing. The web application holds the private key; the realtime
// service needs only the public key.
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("sessiontoken: generating Ed25519 keypair: %w", err)
	}
	return public, private, nil
}

// ParsePublicKey decodes a hex-encoded Ed25519 public key, the format
// used in the service configuration file.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: decoding public key hex: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("sessiontoken: public key has %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}

// FormatPublicKey hex-encodes an Ed25519 public key for the service
// configuration file.
func FormatPublicKey(publicKey ed25519.PublicKey) string {
	return hex.EncodeToString(publicKey)
}
