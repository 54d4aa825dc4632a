// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
)

// ErrNoSession is returned by Send when the subject has no active
// session. It is an expected outcome for offline users, not a failure.
var ErrNoSession = errors.New("push: no active session")

// shardCount must be a power of two so the hash can be masked.
const shardCount = 32

type shard struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// Registry maps subject IDs to their single active session. It is
// sharded so registrations and sends for different subjects rarely
// contend; there is no lock spanning shards.
type Registry struct {
	shards [shardCount]*shard
	logger *slog.Logger
}

// NewRegistry returns an empty registry. A nil logger falls back to
// slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{logger: logger}
	for i := range r.shards {
		r.shards[i] = &shard{sessions: make(map[string]*Session)}
	}
	return r
}

func (r *Registry) shardFor(subjectID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(subjectID))
	return r.shards[h.Sum32()&(shardCount-1)]
}

// Register binds a connection to a subject and returns the new
// session. If the subject already had a session the old one is
// superseded: the mapping is replaced first, then the old connection
// is closed outside the shard lock. In-flight sends to the superseded
// session fail at the transport and are dropped.
func (r *Registry) Register(subjectID string, conn Conn) *Session {
	session := &Session{subjectID: subjectID, conn: conn}

	sh := r.shardFor(subjectID)
	sh.mu.Lock()
	old := sh.sessions[subjectID]
	sh.sessions[subjectID] = session
	sh.mu.Unlock()

	if old != nil {
		r.logger.Debug("session superseded", "subject_id", subjectID)
		old.Close()
	}
	return session
}

// Unregister removes the subject's mapping, but only if it still
// points at the given session. A connection that was already replaced
// by a reconnect must not evict its successor. Unregister is
// idempotent and closes the session either way.
func (r *Registry) Unregister(subjectID string, session *Session) {
	sh := r.shardFor(subjectID)
	sh.mu.Lock()
	if sh.sessions[subjectID] == session {
		delete(sh.sessions, subjectID)
	}
	sh.mu.Unlock()

	session.Close()
}

// Lookup returns the subject's active session, if any.
func (r *Registry) Lookup(subjectID string) (*Session, bool) {
	sh := r.shardFor(subjectID)
	sh.mu.Lock()
	session, ok := sh.sessions[subjectID]
	sh.mu.Unlock()
	return session, ok
}

// Send writes one message to the subject's session. It returns
// ErrNoSession immediately when the subject is not connected; it never
// blocks waiting for a session to appear.
func (r *Registry) Send(subjectID string, payload []byte) error {
	session, ok := r.Lookup(subjectID)
	if !ok {
		return ErrNoSession
	}
	return session.Send(payload)
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	total := 0
	for _, sh := range r.shards {
		sh.mu.Lock()
		total += len(sh.sessions)
		sh.mu.Unlock()
	}
	return total
}

// Close evicts and closes every session. Used at shutdown.
func (r *Registry) Close() {
	for _, sh := range r.shards {
		sh.mu.Lock()
		sessions := sh.sessions
		sh.sessions = make(map[string]*Session)
		sh.mu.Unlock()

		for _, session := range sessions {
			session.Close()
		}
	}
}
