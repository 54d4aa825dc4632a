// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquirystore_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaadisharthi/realtime/lib/inquiry"
	"github.com/shaadisharthi/realtime/lib/inquirystore"
)

// The SQLite store must satisfy the full persistence contract.
var _ inquiry.Store = (*inquirystore.Store)(nil)

var storeEpoch = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *inquirystore.Store {
	t.Helper()
	store, err := inquirystore.Open(inquirystore.Config{
		Path:     filepath.Join(t.TempDir(), "inquiries.db"),
		PoolSize: 8,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return store
}

func createItem(t *testing.T, store *inquirystore.Store, createdAt time.Time) *inquiry.WorkItem {
	t.Helper()
	item := &inquiry.WorkItem{
		ID:        uuid.NewString(),
		Kind:      inquiry.KindGuest,
		Name:      "Priya Sharma",
		Email:     "priya@example.com",
		Message:   "Looking for caterers in Jaipur.",
		Status:    inquiry.StatusUnclaimed,
		CreatedAt: createdAt,
	}
	if err := store.Create(context.Background(), item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return item
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Get(context.Background(), "no-such-id"); !errors.Is(err, inquiry.ErrNotFound) {
		t.Errorf("Get missing: got %v, want ErrNotFound", err)
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	item := createItem(t, store, storeEpoch)

	got, err := store.Get(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != item.Name || got.Message != item.Message || got.Kind != item.Kind {
		t.Errorf("round trip: got %+v", got)
	}
	if got.Status != inquiry.StatusUnclaimed {
		t.Errorf("Status = %q, want unclaimed", got.Status)
	}
	if !got.CreatedAt.Equal(storeEpoch) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, storeEpoch)
	}
	if !got.ClaimedAt.IsZero() || !got.ResolvedAt.IsZero() {
		t.Errorf("unset timestamps not zero: claimed=%v resolved=%v", got.ClaimedAt, got.ResolvedAt)
	}
}

func TestClaimTransitions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	item := createItem(t, store, storeEpoch)

	claimTime := storeEpoch.Add(time.Minute)
	claimed, err := store.ClaimIfUnclaimed(ctx, item.ID, "admin-1", claimTime)
	if err != nil {
		t.Fatalf("ClaimIfUnclaimed: %v", err)
	}
	if claimed.Status != inquiry.StatusClaimed || claimed.AssignedTo != "admin-1" {
		t.Fatalf("after claim: %+v", claimed)
	}
	if !claimed.ClaimedAt.Equal(claimTime) {
		t.Errorf("ClaimedAt = %v, want %v", claimed.ClaimedAt, claimTime)
	}

	// Same operator again: idempotent, timestamp untouched.
	again, err := store.ClaimIfUnclaimed(ctx, item.ID, "admin-1", claimTime.Add(time.Hour))
	if err != nil {
		t.Fatalf("idempotent claim: %v", err)
	}
	if !again.ClaimedAt.Equal(claimTime) {
		t.Errorf("re-view restamped ClaimedAt: %v", again.ClaimedAt)
	}

	// Different operator: typed conflict naming the holder.
	_, err = store.ClaimIfUnclaimed(ctx, item.ID, "admin-2", claimTime.Add(time.Hour))
	var assigned *inquiry.AlreadyAssignedError
	if !errors.As(err, &assigned) {
		t.Fatalf("rival claim: got %v, want AlreadyAssignedError", err)
	}
	if assigned.Operator != "admin-1" || !assigned.ClaimedAt.Equal(claimTime) {
		t.Errorf("conflict detail: %+v", assigned)
	}

	// Missing item.
	if _, err := store.ClaimIfUnclaimed(ctx, "no-such-id", "admin-1", claimTime); !errors.Is(err, inquiry.ErrNotFound) {
		t.Errorf("claim missing: got %v, want ErrNotFound", err)
	}
}

func TestFinalizeTransitions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	item := createItem(t, store, storeEpoch)

	if _, err := store.ClaimIfUnclaimed(ctx, item.ID, "admin-1", storeEpoch); err != nil {
		t.Fatalf("claim: %v", err)
	}

	// Non-holder cannot finalize, and the failure mutates nothing.
	_, err := store.FinalizeIfClaimedBy(ctx, item.ID, "admin-2", "hijack", storeEpoch)
	var notAssigned *inquiry.NotAssignedError
	if !errors.As(err, &notAssigned) {
		t.Fatalf("finalize by non-holder: got %v, want NotAssignedError", err)
	}
	if notAssigned.Operator != "admin-1" {
		t.Errorf("NotAssignedError names %q, want admin-1", notAssigned.Operator)
	}
	current, err := store.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Status != inquiry.StatusClaimed || current.Reply != "" {
		t.Errorf("failed finalize mutated state: %+v", current)
	}

	// Holder finalizes.
	resolveTime := storeEpoch.Add(10 * time.Minute)
	resolved, err := store.FinalizeIfClaimedBy(ctx, item.ID, "admin-1", "Booked and confirmed.", resolveTime)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if resolved.Status != inquiry.StatusResolved || resolved.Reply != "Booked and confirmed." {
		t.Errorf("after finalize: %+v", resolved)
	}
	if !resolved.ResolvedAt.Equal(resolveTime) {
		t.Errorf("ResolvedAt = %v, want %v", resolved.ResolvedAt, resolveTime)
	}

	// Terminal state.
	if _, err := store.FinalizeIfClaimedBy(ctx, item.ID, "admin-1", "again", resolveTime); !errors.Is(err, inquiry.ErrAlreadyResolved) {
		t.Errorf("finalize resolved: got %v, want ErrAlreadyResolved", err)
	}
	if _, err := store.ClaimIfUnclaimed(ctx, item.ID, "admin-2", resolveTime); !errors.Is(err, inquiry.ErrAlreadyResolved) {
		t.Errorf("claim resolved: got %v, want ErrAlreadyResolved", err)
	}

	// Finalize on an unclaimed item reports the empty holder.
	fresh := createItem(t, store, storeEpoch)
	_, err = store.FinalizeIfClaimedBy(ctx, fresh.ID, "admin-1", "reply", storeEpoch)
	if !errors.As(err, &notAssigned) {
		t.Fatalf("finalize unclaimed: got %v, want NotAssignedError", err)
	}
	if notAssigned.Operator != "" {
		t.Errorf("unclaimed finalize names %q, want empty", notAssigned.Operator)
	}
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	item := createItem(t, store, storeEpoch)

	const operators = 8

	var wg sync.WaitGroup
	winners := make(chan string, operators)
	start := make(chan struct{})

	for i := 0; i < operators; i++ {
		operator := fmt.Sprintf("admin-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := store.ClaimIfUnclaimed(ctx, item.ID, operator, storeEpoch)
			if err == nil {
				winners <- operator
				return
			}
			var assigned *inquiry.AlreadyAssignedError
			if !errors.As(err, &assigned) {
				t.Errorf("loser %s got %v, want AlreadyAssignedError", operator, err)
			}
		}()
	}
	close(start)
	wg.Wait()
	close(winners)

	var winner string
	count := 0
	for w := range winners {
		winner = w
		count++
	}
	if count != 1 {
		t.Fatalf("%d winners, want exactly 1", count)
	}

	final, err := store.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if final.AssignedTo != winner {
		t.Errorf("AssignedTo = %q, want winner %q", final.AssignedTo, winner)
	}
}

func TestPendingPagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		item := createItem(t, store, storeEpoch.Add(time.Duration(i)*time.Second))
		ids = append(ids, item.ID)
	}

	// Resolve one; it leaves the pending set.
	if _, err := store.ClaimIfUnclaimed(ctx, ids[1], "admin-1", storeEpoch); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := store.FinalizeIfClaimedBy(ctx, ids[1], "admin-1", "done", storeEpoch); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	count, err := store.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending: %v", err)
	}
	if count != 4 {
		t.Errorf("CountPending = %d, want 4", count)
	}

	page, err := store.ListPending(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[0] || page[1].ID != ids[2] {
		t.Errorf("page 1: %+v", page)
	}

	page, err = store.ListPending(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[3] || page[1].ID != ids[4] {
		t.Errorf("page 2: %+v", page)
	}

	page, err = store.ListPending(ctx, 3, 2)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(page) != 0 {
		t.Errorf("page past end: %+v", page)
	}
}
