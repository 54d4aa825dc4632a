// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquiry

import "time"

// Kind distinguishes the two work-item sources.
type Kind string

const (
	// KindGuest is an inquiry submitted through the public contact
	// form by someone without an account.
	KindGuest Kind = "guest"

	// KindSupport is a support query raised by a logged-in customer
	// or provider.
	KindSupport Kind = "support"
)

// Status is the assignment state of a work item.
type Status string

const (
	StatusUnclaimed Status = "unclaimed"
	StatusClaimed   Status = "claimed"
	StatusResolved  Status = "resolved"
)

// WorkItem is one contestable admin task. At most one operator holds a
// non-resolved claim at any time; after StatusResolved the item never
// mutates again.
//
// Assignment state is owned by the backing store and changed only
// through Coordinator.Claim and Coordinator.Finalize. Callers never
// read-then-write these fields themselves; that is the lost-update
// race this package exists to prevent.
type WorkItem struct {
	// ID is the stable item identifier (UUID).
	ID string `cbor:"id"`

	Kind Kind `cbor:"kind"`

	// SubjectID is the account ID of the customer or provider who
	// raised the item. Empty for guest inquiries; when present, the
	// resolution reply is pushed to this subject's live session.
	SubjectID string `cbor:"subject_id,omitempty"`

	// Contact details and message as submitted.
	Name    string `cbor:"name"`
	Email   string `cbor:"email"`
	Message string `cbor:"message"`

	Status Status `cbor:"status"`

	// AssignedTo is the operator holding the claim. Empty while
	// unclaimed; retained after resolution for the audit trail.
	AssignedTo string    `cbor:"assigned_to,omitempty"`
	ClaimedAt  time.Time `cbor:"claimed_at,omitzero"`

	// Reply is the operator's resolution text, set by Finalize.
	Reply      string    `cbor:"reply,omitempty"`
	ResolvedAt time.Time `cbor:"resolved_at,omitzero"`

	CreatedAt time.Time `cbor:"created_at"`
}

// Clone returns a deep copy. WorkItem has no reference-typed fields
// today, so this is a plain value copy, kept as a method so stores can
// hand out items without aliasing their internal state.
func (w *WorkItem) Clone() *WorkItem {
	clone := *w
	return &clone
}
