// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package inquiry implements assign-on-view claim semantics for shared
// admin work items: guest inquiries and customer support queries.
//
// Several admin operators see the same pending list. When an operator
// opens an item, the service claims it for them; when two operators
// open the same unclaimed item at once, exactly one wins and the other
// gets a precise conflict naming the winner. The invariant lives in
// the backing store, not in process memory: a claim is a single
// conditional update (compare-and-swap on status), so it holds across
// horizontally scaled service instances.
//
// [Store] is the persistence contract. [Coordinator] validates input,
// applies the claim and finalize transitions through the store, and
// fires best-effort resolution side effects (customer push, outbound
// email job) outside the transactional boundary.
//
// Conflicts are typed, user-facing outcomes, never generic errors:
// [*AlreadyAssignedError] carries the holder and claim time for the
// "claimed by X since T" surface, [ErrAlreadyResolved] and
// [*NotAssignedError] mark the terminal cases.
package inquiry
