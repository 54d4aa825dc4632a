// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/shaadisharthi/realtime/lib/codec"
)

// signatureSize is the fixed size of an Ed25519 signature.
const signatureSize = ed25519.SignatureSize // 64 bytes

// Role identifies what kind of principal a token admits. The realtime
// handshake requires RoleCustomer or RoleProvider; ops socket actions
// that mutate work items require RoleOperator.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleOperator Role = "operator"
)

// Token is the CBOR-encoded payload of a session credential.
type Token struct {
	// Subject is the stable identity of the principal: the account ID
	// assigned by the marketplace at registration (e.g. "c-20331").
	// Push delivery keys sessions on this value.
	Subject string `cbor:"1,keyasint"`

	// Role scopes what the token admits. A customer token cannot be
	// replayed against operator-only actions.
	Role Role `cbor:"2,keyasint"`

	// ID is a unique token identifier. Present so a future revocation
	// list can name individual tokens; uniqueness is the only current
	// requirement.
	ID string `cbor:"3,keyasint"`

	// IssuedAt is a Unix timestamp (seconds) of when the web
	// application minted this token.
	IssuedAt int64 `cbor:"4,keyasint"`

	// ExpiresAt is a Unix timestamp (seconds) after which this token
	// is no longer valid.
	ExpiresAt int64 `cbor:"5,keyasint"`
}

// Errors returned by Verify and related functions.
var (
	ErrTokenTooShort    = errors.New("sessiontoken: token too short for signature")
	ErrInvalidSignature = errors.New("sessiontoken: invalid Ed25519 signature")
	ErrTokenExpired     = errors.New("sessiontoken: token has expired")
	ErrRoleMismatch     = errors.New("sessiontoken: role not permitted")
)

// Mint signs a Token with the issuer's private key and returns the raw
// wire-format bytes: CBOR-encoded payload followed by the 64-byte
// Ed25519 signature.
func Mint(privateKey ed25519.PrivateKey, token *Token) ([]byte, error) {
	payload, err := codec.Marshal(token)
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: encoding token payload: %w", err)
	}

	signature := ed25519.Sign(privateKey, payload)

	result := make([]byte, len(payload)+signatureSize)
	copy(result, payload)
	copy(result[len(payload):], signature)

	return result, nil
}

// Verify splits the raw token bytes, verifies the Ed25519 signature,
// CBOR-decodes the payload, and checks expiry. Returns the decoded
// Token on success.
func Verify(publicKey ed25519.PublicKey, tokenBytes []byte) (*Token, error) {
	return VerifyAt(publicKey, tokenBytes, time.Now())
}

// VerifyAt is like Verify but accepts an explicit time for the expiry
// check. This supports deterministic testing.
func VerifyAt(publicKey ed25519.PublicKey, tokenBytes []byte, now time.Time) (*Token, error) {
	if len(tokenBytes) <= signatureSize {
		return nil, ErrTokenTooShort
	}

	splitPoint := len(tokenBytes) - signatureSize
	payload := tokenBytes[:splitPoint]
	signature := tokenBytes[splitPoint:]

	if !ed25519.Verify(publicKey, payload, signature) {
		return nil, ErrInvalidSignature
	}

	var token Token
	if err := codec.Unmarshal(payload, &token); err != nil {
		return nil, fmt.Errorf("sessiontoken: decoding token payload: %w", err)
	}

	if now.Unix() >= token.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return &token, nil
}

// VerifyForRoles combines Verify with a role check. This is the
// standard verification path: verify signature, check expiry, and
// confirm the token's role is one of the permitted set.
func VerifyForRoles(publicKey ed25519.PublicKey, tokenBytes []byte, roles ...Role) (*Token, error) {
	return VerifyForRolesAt(publicKey, tokenBytes, time.Now(), roles...)
}

// VerifyForRolesAt is like VerifyForRoles but accepts an explicit time.
func VerifyForRolesAt(publicKey ed25519.PublicKey, tokenBytes []byte, now time.Time, roles ...Role) (*Token, error) {
	token, err := VerifyAt(publicKey, tokenBytes, now)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if token.Role == role {
			return token, nil
		}
	}
	return nil, fmt.Errorf("%w: got %q, want one of %v", ErrRoleMismatch, token.Role, roles)
}
