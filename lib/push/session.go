// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"errors"
	"sync"
)

// ErrSessionClosed is returned by Session.Send after the session has
// been closed, either explicitly or by a replacement registration.
var ErrSessionClosed = errors.New("push: session closed")

// Conn is the transport a session writes to. *websocket.Conn satisfies
// it via a thin adapter in the daemon; tests substitute in-memory
// implementations.
type Conn interface {
	WriteMessage(data []byte) error
	Close() error
}

// Session is one authenticated connection for one subject. Writes are
// serialized by a per-session mutex so concurrent senders never
// interleave frames; sessions for different subjects share nothing.
type Session struct {
	subjectID string
	conn      Conn

	mu     sync.Mutex
	closed bool
}

// SubjectID returns the subject this session authenticated as.
func (s *Session) SubjectID() string {
	return s.subjectID
}

// Send writes one message to the connection. It returns
// ErrSessionClosed if the session was closed, or the transport's write
// error. Send never blocks on other subjects' sessions.
func (s *Session) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return s.conn.WriteMessage(payload)
}

// Close marks the session closed and closes the underlying
// connection. It is idempotent; only the first call reaches the
// transport.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
