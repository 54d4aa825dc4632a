// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquiry

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store. A single mutex plays the role of
// the database's concurrency control: every conditional mutation runs
// entirely under it, so the claim invariant holds for concurrent
// callers within one process. Use the SQLite store for anything
// deployed; MemoryStore backs tests and single-process tooling.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*WorkItem
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*WorkItem)}
}

// Create inserts a new work item.
func (s *MemoryStore) Create(_ context.Context, item *WorkItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item.Clone()
	return nil
}

// Get returns the item or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (*WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

// ClaimIfUnclaimed implements the atomic claim transition.
func (s *MemoryStore) ClaimIfUnclaimed(_ context.Context, id, operatorID string, now time.Time) (*WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	switch item.Status {
	case StatusUnclaimed:
		item.Status = StatusClaimed
		item.AssignedTo = operatorID
		item.ClaimedAt = now
		return item.Clone(), nil
	case StatusClaimed:
		if item.AssignedTo == operatorID {
			// Re-viewing one's own claim is not an error.
			return item.Clone(), nil
		}
		return nil, &AlreadyAssignedError{Operator: item.AssignedTo, ClaimedAt: item.ClaimedAt}
	default:
		return nil, ErrAlreadyResolved
	}
}

// FinalizeIfClaimedBy implements the atomic resolve transition.
func (s *MemoryStore) FinalizeIfClaimedBy(_ context.Context, id, operatorID, reply string, now time.Time) (*WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	switch item.Status {
	case StatusClaimed:
		if item.AssignedTo != operatorID {
			return nil, &NotAssignedError{Operator: item.AssignedTo}
		}
		item.Status = StatusResolved
		item.Reply = reply
		item.ResolvedAt = now
		return item.Clone(), nil
	case StatusUnclaimed:
		return nil, &NotAssignedError{}
	default:
		return nil, ErrAlreadyResolved
	}
}

// CountPending returns the number of unresolved items.
func (s *MemoryStore) CountPending(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if item.Status != StatusResolved {
			count++
		}
	}
	return count, nil
}

// ListPending returns a page of unresolved items, oldest first.
func (s *MemoryStore) ListPending(_ context.Context, page, pageSize int) ([]*WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*WorkItem
	for _, item := range s.items {
		if item.Status != StatusResolved {
			pending = append(pending, item)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	start := (page - 1) * pageSize
	if start < 0 || start >= len(pending) {
		return nil, nil
	}
	end := min(start+pageSize, len(pending))

	result := make([]*WorkItem, 0, end-start)
	for _, item := range pending[start:end] {
		result = append(result, item.Clone())
	}
	return result, nil
}
