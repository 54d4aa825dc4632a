// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquiry

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for terminal work-item outcomes. These are expected,
// user-facing conditions; callers surface them as informational
// conflict states, not failures, and never retry them automatically.
var (
	// ErrNotFound indicates no work item exists with the given ID.
	ErrNotFound = errors.New("inquiry: work item not found")

	// ErrAlreadyResolved indicates the item reached its terminal
	// state before the attempted transition.
	ErrAlreadyResolved = errors.New("inquiry: work item already resolved")
)

// AlreadyAssignedError is returned by Claim when a different operator
// holds the item. It carries the holder and claim time so the caller
// can render "claimed by X since T".
type AlreadyAssignedError struct {
	Operator  string
	ClaimedAt time.Time
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("inquiry: already assigned to %s since %s",
		e.Operator, e.ClaimedAt.UTC().Format(time.RFC3339))
}

// NotAssignedError is returned by Finalize when the caller does not
// hold the claim at commit time. Operator is the current holder, empty
// if the item is unclaimed (administrative override released it).
type NotAssignedError struct {
	Operator string
}

func (e *NotAssignedError) Error() string {
	if e.Operator == "" {
		return "inquiry: not assigned to caller (item is unclaimed)"
	}
	return fmt.Sprintf("inquiry: not assigned to caller (held by %s)", e.Operator)
}
