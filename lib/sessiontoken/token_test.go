// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"crypto/ed25519"
	"errors"
	"testing"
	"time"
)

var testEpoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	public, private, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	return public, private
}

func testToken(role Role) *Token {
	return &Token{
		Subject:   "c-20331",
		Role:      role,
		ID:        "tok-a1b2c3",
		IssuedAt:  testEpoch.Add(-5 * time.Minute).Unix(),
		ExpiresAt: testEpoch.Add(30 * time.Minute).Unix(),
	}
}

func TestMintAndVerify(t *testing.T) {
	public, private := testKeypair(t)

	tokenBytes, err := Mint(private, testToken(RoleCustomer))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if len(tokenBytes) <= signatureSize {
		t.Fatalf("token too short: %d bytes", len(tokenBytes))
	}

	verified, err := VerifyAt(public, tokenBytes, testEpoch)
	if err != nil {
		t.Fatalf("VerifyAt: %v", err)
	}
	if verified.Subject != "c-20331" {
		t.Errorf("Subject = %q, want c-20331", verified.Subject)
	}
	if verified.Role != RoleCustomer {
		t.Errorf("Role = %q, want %q", verified.Role, RoleCustomer)
	}
	if verified.ID != "tok-a1b2c3" {
		t.Errorf("ID = %q, want tok-a1b2c3", verified.ID)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	public, private := testKeypair(t)

	tokenBytes, err := Mint(private, testToken(RoleCustomer))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	// Flip one payload byte; the signature no longer matches.
	tokenBytes[0] ^= 0xff
	if _, err := VerifyAt(public, tokenBytes, testEpoch); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("VerifyAt after tamper: got %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	_, private := testKeypair(t)
	otherPublic, _ := testKeypair(t)

	tokenBytes, err := Mint(private, testToken(RoleCustomer))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := VerifyAt(otherPublic, tokenBytes, testEpoch); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("VerifyAt with wrong key: got %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	public, private := testKeypair(t)

	tokenBytes, err := Mint(private, testToken(RoleCustomer))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	at := testEpoch.Add(31 * time.Minute)
	if _, err := VerifyAt(public, tokenBytes, at); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("VerifyAt past expiry: got %v, want ErrTokenExpired", err)
	}
}

func TestVerifyTooShort(t *testing.T) {
	public, _ := testKeypair(t)
	if _, err := VerifyAt(public, make([]byte, signatureSize), testEpoch); !errors.Is(err, ErrTokenTooShort) {
		t.Errorf("VerifyAt on 64 bytes: got %v, want ErrTokenTooShort", err)
	}
}

func TestVerifyForRoles(t *testing.T) {
	public, private := testKeypair(t)

	customerBytes, err := Mint(private, testToken(RoleCustomer))
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := VerifyForRolesAt(public, customerBytes, testEpoch, RoleCustomer, RoleProvider); err != nil {
		t.Errorf("customer token against customer|provider: %v", err)
	}
	if _, err := VerifyForRolesAt(public, customerBytes, testEpoch, RoleOperator); !errors.Is(err, ErrRoleMismatch) {
		t.Errorf("customer token against operator: got %v, want ErrRoleMismatch", err)
	}
}
