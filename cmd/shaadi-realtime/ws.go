// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaadisharthi/realtime/lib/clock"
	"github.com/shaadisharthi/realtime/lib/push"
	"github.com/shaadisharthi/realtime/lib/sessiontoken"
)

// closePolicyViolation is the application close code sent when the
// handshake carries no valid session credential. Browsers can
// distinguish it from closeInternalError and choose not to retry.
const closePolicyViolation = 4001

// authWriteTimeout bounds writing the close frame to an unauthenticated
// peer; a stalled peer must not pin the handshake goroutine.
const authWriteTimeout = 5 * time.Second

// writeTimeout bounds each notification write.
const writeTimeout = 10 * time.Second

// pongTimeout is how long a connection may go without a pong before
// the read loop gives up on it. Pings are sent at pongTimeout/2.
const pongTimeout = 60 * time.Second

// maxInboundMessageSize caps client frames. Clients have nothing to
// say beyond pong frames; anything large is misbehavior.
const maxInboundMessageSize = 512

// wsServer upgrades browser connections, authenticates them from the
// session cookie, and registers them for push delivery.
type wsServer struct {
	registry  *push.Registry
	publicKey ed25519.PublicKey
	clock     clock.Clock
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

func newWSServer(registry *push.Registry, publicKey ed25519.PublicKey, clk clock.Clock, logger *slog.Logger) *wsServer {
	return &wsServer{
		registry:  registry,
		publicKey: publicKey,
		clock:     clk,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The browser and the daemon sit behind the same edge
			// proxy; the edge enforces the origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP handles GET /ws. The session credential is read from the
// ss_session cookie only; tokens in headers or query parameters are
// ignored. Authentication happens after the upgrade so the browser
// receives a close code it can inspect: 4001 for a missing or invalid
// credential, 1011 for daemon-side failures.
func (s *wsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		s.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	token, err := s.authenticate(r)
	if err != nil {
		if isCredentialError(err) {
			s.closeWith(conn, closePolicyViolation, "authentication failed")
		} else {
			s.logger.Error("handshake failed", "remote", r.RemoteAddr, "error", err)
			s.closeWith(conn, websocket.CloseInternalServerErr, "internal error")
		}
		return
	}

	session := s.registry.Register(token.Subject, &wsConn{conn: conn})
	s.logger.Info("session connected",
		"subject_id", token.Subject, "role", token.Role, "remote", r.RemoteAddr)

	s.readLoop(conn, token.Subject, session)
}

// authenticate verifies the session cookie. Customers and providers
// receive notifications; operator tokens are for the control socket
// and are rejected here.
func (s *wsServer) authenticate(r *http.Request) (*sessiontoken.Token, error) {
	tokenBytes, err := sessiontoken.FromRequest(r)
	if err != nil {
		return nil, err
	}
	return sessiontoken.VerifyForRolesAt(s.publicKey, tokenBytes, s.clock.Now(),
		sessiontoken.RoleCustomer, sessiontoken.RoleProvider)
}

// readLoop consumes inbound frames until the connection dies, then
// unregisters the session. Clients send no application messages; the
// loop exists to detect disconnects and answer pings.
func (s *wsServer) readLoop(conn *websocket.Conn, subjectID string, session *push.Session) {
	defer s.registry.Unregister(subjectID, session)

	conn.SetReadLimit(maxInboundMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	pings := time.NewTicker(pongTimeout / 2)
	defer pings.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pings.C:
				deadline := time.Now().Add(writeTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("session read failed", "subject_id", subjectID, "error", err)
			} else {
				s.logger.Info("session disconnected", "subject_id", subjectID)
			}
			return
		}
	}
}

// closeWith sends a close frame with the given code and closes the
// connection.
func (s *wsServer) closeWith(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(authWriteTimeout)
	message := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, message, deadline); err != nil {
		s.logger.Debug("failed to write close frame", "error", err)
	}
	conn.Close()
}

// wsConn adapts *websocket.Conn to the push transport interface.
// Notifications are binary frames (CBOR). The push session serializes
// writes, so no additional locking is needed here for WriteMessage;
// Close may race a write and gorilla tolerates that.
type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) WriteMessage(data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

func (c *wsConn) Close() error {
	deadline := time.Now().Add(authWriteTimeout)
	message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session superseded")
	c.conn.WriteControl(websocket.CloseMessage, message, deadline)
	return c.conn.Close()
}

// isCredentialError reports whether the handshake failure is the
// client's fault (absent, malformed, forged, expired, or wrong-role
// credential) as opposed to a daemon-side problem.
func isCredentialError(err error) bool {
	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) {
		// Undecodable cookie value.
		return true
	}
	return errors.Is(err, sessiontoken.ErrNoCredential) ||
		errors.Is(err, sessiontoken.ErrTokenTooShort) ||
		errors.Is(err, sessiontoken.ErrInvalidSignature) ||
		errors.Is(err, sessiontoken.ErrTokenExpired) ||
		errors.Is(err, sessiontoken.ErrRoleMismatch)
}
