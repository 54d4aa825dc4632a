// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/shaadisharthi/realtime/lib/clock"
	"github.com/shaadisharthi/realtime/lib/codec"
	"github.com/shaadisharthi/realtime/lib/sessiontoken"
)

// AuthConfig controls token verification for authenticated actions.
type AuthConfig struct {
	// PublicKey verifies token signatures.
	PublicKey ed25519.PublicKey
	// Roles lists the roles allowed to invoke the action. Empty
	// means any valid token is accepted.
	Roles []sessiontoken.Role
	// Clock supplies the expiry check time. Nil means real time.
	Clock clock.Clock
}

// AuthenticatedActionFunc is an ActionFunc that additionally receives
// the verified session token of the caller.
type AuthenticatedActionFunc func(ctx context.Context, token *sessiontoken.Token, raw []byte) (any, error)

// HandleAuth registers a handler that requires a valid session token.
// The request must carry the raw token bytes in a "token" field; the
// server verifies the signature, expiry, and role before invoking the
// handler. Verification failures produce an error response and the
// handler is never called.
func (s *SocketServer) HandleAuth(action string, config AuthConfig, handler AuthenticatedActionFunc) {
	if len(config.PublicKey) != ed25519.PublicKeySize {
		panic(fmt.Sprintf("service.SocketServer: HandleAuth %q: invalid public key", action))
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	s.Handle(action, func(ctx context.Context, raw []byte) (any, error) {
		var request struct {
			Token []byte `cbor:"token"`
		}
		if err := codec.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("invalid request: %v", err)
		}
		if len(request.Token) == 0 {
			return nil, fmt.Errorf("action %q requires authentication", action)
		}
		token, err := sessiontoken.VerifyForRolesAt(
			config.PublicKey, request.Token, clk.Now(), config.Roles...)
		if err != nil {
			s.logger.Debug("token rejected", "action", action, "error", err)
			return nil, fmt.Errorf("authentication failed: %v", err)
		}
		return handler(ctx, token, raw)
	})
}
