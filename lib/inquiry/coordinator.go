// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquiry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/shaadisharthi/realtime/lib/clock"
)

// Coordinator owns the work-item state machine:
//
//	unclaimed -> claimed(operator) -> resolved
//
// It holds no in-process locks across store calls; the store's
// conditional updates are the sole arbiter of contended claims, which
// keeps the invariant correct when several service instances share one
// database.
type Coordinator struct {
	store  Store
	clock  clock.Clock
	logger *slog.Logger

	// onResolved runs after a Finalize commit, outside the
	// transactional boundary. Its failures are the hook's own problem;
	// Finalize has already succeeded.
	onResolved func(item *WorkItem)
}

// CoordinatorConfig configures a Coordinator. Store is required.
type CoordinatorConfig struct {
	Store Store

	// Clock defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to a no-op logger.
	Logger *slog.Logger

	// OnResolved, if set, is invoked synchronously after each
	// successful Finalize with the resolved item. Used to trigger
	// best-effort notifications (customer push, outbound email job).
	// Implementations must not block and must swallow their own
	// errors.
	OnResolved func(item *WorkItem)
}

// NewCoordinator creates a Coordinator over the given store.
func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("inquiry: CoordinatorConfig.Store is required")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Coordinator{
		store:      cfg.Store,
		clock:      clk,
		logger:     logger,
		onResolved: cfg.OnResolved,
	}, nil
}

// Create records a new unclaimed work item and returns it. Name and
// message are required; subjectID is empty for guest inquiries.
func (c *Coordinator) Create(ctx context.Context, kind Kind, subjectID, name, email, message string) (*WorkItem, error) {
	if kind != KindGuest && kind != KindSupport {
		return nil, fmt.Errorf("inquiry: unknown kind %q", kind)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("inquiry: name is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("inquiry: message is required")
	}

	item := &WorkItem{
		ID:        uuid.NewString(),
		Kind:      kind,
		SubjectID: subjectID,
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    StatusUnclaimed,
		CreatedAt: c.clock.Now(),
	}
	if err := c.store.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("inquiry: creating work item: %w", err)
	}

	c.logger.Info("work item created",
		"item_id", item.ID,
		"kind", item.Kind,
	)
	return item, nil
}

// Get returns the current state of a work item.
func (c *Coordinator) Get(ctx context.Context, itemID string) (*WorkItem, error) {
	return c.store.Get(ctx, itemID)
}

// Claim assigns the item to the operator via the store's conditional
// update. Opening an item one already holds succeeds idempotently.
// Losing a contested claim returns *AlreadyAssignedError naming the
// winner; a resolved item returns ErrAlreadyResolved. Conflicts are
// expected outcomes and logged at info, not error.
func (c *Coordinator) Claim(ctx context.Context, itemID, operatorID string) (*WorkItem, error) {
	if itemID == "" {
		return nil, fmt.Errorf("inquiry: item ID is required")
	}
	if operatorID == "" {
		return nil, fmt.Errorf("inquiry: operator ID is required")
	}

	item, err := c.store.ClaimIfUnclaimed(ctx, itemID, operatorID, c.clock.Now())
	if err != nil {
		var assigned *AlreadyAssignedError
		if errors.As(err, &assigned) {
			c.logger.Info("claim conflict",
				"item_id", itemID,
				"operator", operatorID,
				"held_by", assigned.Operator,
			)
		}
		return nil, err
	}

	c.logger.Info("work item claimed",
		"item_id", itemID,
		"operator", operatorID,
	)
	return item, nil
}

// Finalize writes the operator's reply and resolves the item. The
// store re-checks the claim at commit time, so an item reassigned by
// an administrative override fails with *NotAssignedError rather than
// being overwritten. On success the resolution hook fires; its
// outcome does not affect the returned item.
func (c *Coordinator) Finalize(ctx context.Context, itemID, operatorID, reply string) (*WorkItem, error) {
	if itemID == "" {
		return nil, fmt.Errorf("inquiry: item ID is required")
	}
	if operatorID == "" {
		return nil, fmt.Errorf("inquiry: operator ID is required")
	}
	if strings.TrimSpace(reply) == "" {
		return nil, fmt.Errorf("inquiry: reply is required")
	}

	item, err := c.store.FinalizeIfClaimedBy(ctx, itemID, operatorID, reply, c.clock.Now())
	if err != nil {
		return nil, err
	}

	c.logger.Info("work item resolved",
		"item_id", itemID,
		"operator", operatorID,
	)

	if c.onResolved != nil {
		c.onResolved(item)
	}
	return item, nil
}

// CountPending reports how many items await resolution.
func (c *Coordinator) CountPending(ctx context.Context) (int, error) {
	return c.store.CountPending(ctx)
}

// ListPending returns one page of unresolved items, oldest first.
// Page is 1-based; pageSize is clamped to [1, 100].
func (c *Coordinator) ListPending(ctx context.Context, page, pageSize int) ([]*WorkItem, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return c.store.ListPending(ctx, page, pageSize)
}
