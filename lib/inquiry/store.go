// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquiry

import (
	"context"
	"time"
)

// Store is the persistence contract for work items. The conditional
// mutations (ClaimIfUnclaimed, FinalizeIfClaimedBy) are the load-
// bearing part: each must be atomic in the backing store, with the
// status check and the write happening as one unit linearized by the
// store's own concurrency control. No implementation may decompose
// them into a read followed by a separate write.
//
// Implementations: the SQLite store in lib/inquirystore (production)
// and [MemoryStore] (tests, single-process tools).
type Store interface {
	// Create inserts a new work item. The item arrives fully
	// populated (ID, status, timestamps) from the Coordinator.
	Create(ctx context.Context, item *WorkItem) error

	// Get returns the item or ErrNotFound.
	Get(ctx context.Context, id string) (*WorkItem, error)

	// ClaimIfUnclaimed atomically transitions id from unclaimed to
	// claimed-by-operator, stamping now. Outcomes:
	//   - won, or already claimed by this operator: the item, nil
	//   - claimed by another operator: *AlreadyAssignedError
	//   - resolved: ErrAlreadyResolved
	//   - no such item: ErrNotFound
	ClaimIfUnclaimed(ctx context.Context, id, operatorID string, now time.Time) (*WorkItem, error)

	// FinalizeIfClaimedBy atomically writes the reply and transitions
	// to resolved, re-checking at commit time that operatorID holds
	// the claim. Outcomes:
	//   - caller holds the claim: the resolved item, nil
	//   - held by someone else or unclaimed: *NotAssignedError
	//   - resolved: ErrAlreadyResolved
	//   - no such item: ErrNotFound
	FinalizeIfClaimedBy(ctx context.Context, id, operatorID, reply string, now time.Time) (*WorkItem, error)

	// CountPending returns the number of items not yet resolved.
	CountPending(ctx context.Context) (int, error)

	// ListPending returns a page of unresolved items, oldest first.
	// Pages are 1-based; a page past the end returns an empty slice.
	ListPending(ctx context.Context, page, pageSize int) ([]*WorkItem, error)
}
