// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package sessiontoken

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
)

// CookieName is the only carrier the realtime handshake accepts for a
// session credential. Tokens presented anywhere else (Authorization
// headers, query parameters, custom headers) are rejected without
// inspection.
const CookieName = "ss_session"

// ErrNoCredential indicates the request carries no ss_session cookie.
var ErrNoCredential = errors.New("sessiontoken: no session cookie")

// Encode converts raw token bytes to the cookie value form
// (unpadded base64url).
func Encode(tokenBytes []byte) string {
	return base64.RawURLEncoding.EncodeToString(tokenBytes)
}

// Decode converts a cookie value back to raw token bytes.
func Decode(cookieValue string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cookieValue)
	if err != nil {
		return nil, fmt.Errorf("sessiontoken: decoding cookie value: %w", err)
	}
	return raw, nil
}

// FromRequest extracts the raw token bytes from the ss_session cookie.
// Returns ErrNoCredential if the cookie is absent. The named cookie is
// the only carrier checked; this is the single place handshake
// credential extraction happens.
func FromRequest(r *http.Request) ([]byte, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoCredential
	}
	return Decode(cookie.Value)
}
