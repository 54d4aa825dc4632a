// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package inquirystore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/shaadisharthi/realtime/lib/inquiry"
	"github.com/shaadisharthi/realtime/lib/sqlitepool"
)

// schema is applied to every pooled connection. Timestamps are Unix
// seconds; zero means unset.
const schema = `
	CREATE TABLE IF NOT EXISTS inquiries (
		id          TEXT PRIMARY KEY,
		kind        TEXT NOT NULL,
		subject_id  TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		email       TEXT NOT NULL DEFAULT '',
		message     TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'unclaimed',
		assigned_to TEXT NOT NULL DEFAULT '',
		claimed_at  INTEGER NOT NULL DEFAULT 0,
		reply       TEXT NOT NULL DEFAULT '',
		resolved_at INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_inquiries_pending
		ON inquiries(status, created_at);
`

// Store is a SQLite-backed inquiry.Store.
type Store struct {
	pool *sqlitepool.Pool
}

// Config holds the parameters for opening a store.
type Config struct {
	// Path is the filesystem path to the database file.
	Path string

	// PoolSize defaults to 4 if zero or negative.
	PoolSize int

	// Logger receives pool lifecycle messages. Optional.
	Logger *slog.Logger
}

// Open creates the store, applying the schema to each pooled
// connection on first use. The caller must Close when done.
func Open(cfg Config) (*Store, error) {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 4
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: poolSize,
		Logger:   cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("inquirystore: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Create inserts a new work item.
func (s *Store) Create(ctx context.Context, item *inquiry.WorkItem) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("inquirystore: create: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, `INSERT INTO inquiries
		(id, kind, subject_id, name, email, message, status,
		 assigned_to, claimed_at, reply, resolved_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				item.ID,
				string(item.Kind),
				item.SubjectID,
				item.Name,
				item.Email,
				item.Message,
				string(item.Status),
				item.AssignedTo,
				unixOrZero(item.ClaimedAt),
				item.Reply,
				unixOrZero(item.ResolvedAt),
				item.CreatedAt.Unix(),
			},
		})
	if err != nil {
		return fmt.Errorf("inquirystore: inserting %s: %w", item.ID, err)
	}
	return nil
}

// Get returns the item or inquiry.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*inquiry.WorkItem, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("inquirystore: get: %w", err)
	}
	defer s.pool.Put(conn)

	return getItem(conn, id)
}

// ClaimIfUnclaimed performs the claim as one conditional update. The
// WHERE clause carries the status check, so when two operators race,
// SQLite's write lock guarantees at most one UPDATE matches. The
// diagnosis read runs inside the same transaction.
func (s *Store) ClaimIfUnclaimed(ctx context.Context, id, operatorID string, now time.Time) (item *inquiry.WorkItem, err error) {
	conn, takeErr := s.pool.Take(ctx)
	if takeErr != nil {
		return nil, fmt.Errorf("inquirystore: claim: %w", takeErr)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return nil, fmt.Errorf("inquirystore: claim: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	err = sqlitex.Execute(conn, `UPDATE inquiries
		SET status = 'claimed', assigned_to = ?, claimed_at = ?
		WHERE id = ? AND status = 'unclaimed'`,
		&sqlitex.ExecOptions{
			Args: []any{operatorID, now.Unix(), id},
		})
	if err != nil {
		return nil, fmt.Errorf("inquirystore: claiming %s: %w", id, err)
	}
	won := conn.Changes() == 1

	item, err = getItem(conn, id)
	if err != nil {
		return nil, err
	}
	if won {
		return item, nil
	}

	// The conditional update matched nothing: diagnose from the row
	// as it stands in this transaction.
	switch item.Status {
	case inquiry.StatusClaimed:
		if item.AssignedTo == operatorID {
			// Re-viewing one's own claim.
			return item, nil
		}
		err = &inquiry.AlreadyAssignedError{Operator: item.AssignedTo, ClaimedAt: item.ClaimedAt}
	default:
		err = inquiry.ErrAlreadyResolved
	}
	return nil, err
}

// FinalizeIfClaimedBy writes the reply and resolves the item, with the
// claim re-checked in the UPDATE's WHERE clause at commit time.
func (s *Store) FinalizeIfClaimedBy(ctx context.Context, id, operatorID, reply string, now time.Time) (item *inquiry.WorkItem, err error) {
	conn, takeErr := s.pool.Take(ctx)
	if takeErr != nil {
		return nil, fmt.Errorf("inquirystore: finalize: %w", takeErr)
	}
	defer s.pool.Put(conn)

	endTransaction, err := sqlitex.ImmediateTransaction(conn)
	if err != nil {
		return nil, fmt.Errorf("inquirystore: finalize: begin transaction: %w", err)
	}
	defer endTransaction(&err)

	err = sqlitex.Execute(conn, `UPDATE inquiries
		SET status = 'resolved', reply = ?, resolved_at = ?
		WHERE id = ? AND status = 'claimed' AND assigned_to = ?`,
		&sqlitex.ExecOptions{
			Args: []any{reply, now.Unix(), id, operatorID},
		})
	if err != nil {
		return nil, fmt.Errorf("inquirystore: finalizing %s: %w", id, err)
	}
	won := conn.Changes() == 1

	item, err = getItem(conn, id)
	if err != nil {
		return nil, err
	}
	if won {
		return item, nil
	}

	switch item.Status {
	case inquiry.StatusResolved:
		err = inquiry.ErrAlreadyResolved
	case inquiry.StatusClaimed:
		err = &inquiry.NotAssignedError{Operator: item.AssignedTo}
	default:
		err = &inquiry.NotAssignedError{}
	}
	return nil, err
}

// CountPending returns the number of unresolved items.
func (s *Store) CountPending(ctx context.Context) (int, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("inquirystore: count pending: %w", err)
	}
	defer s.pool.Put(conn)

	var count int
	err = sqlitex.Execute(conn,
		`SELECT COUNT(*) FROM inquiries WHERE status != 'resolved'`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt(0)
				return nil
			},
		})
	if err != nil {
		return 0, fmt.Errorf("inquirystore: count pending: %w", err)
	}
	return count, nil
}

// ListPending returns a page of unresolved items, oldest first. Pages
// are 1-based.
func (s *Store) ListPending(ctx context.Context, page, pageSize int) ([]*inquiry.WorkItem, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("inquirystore: list pending: %w", err)
	}
	defer s.pool.Put(conn)

	var items []*inquiry.WorkItem
	err = sqlitex.Execute(conn, selectColumns+`
		WHERE status != 'resolved'
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?`,
		&sqlitex.ExecOptions{
			Args: []any{pageSize, (page - 1) * pageSize},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				items = append(items, scanItem(stmt))
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("inquirystore: list pending: %w", err)
	}
	return items, nil
}

// selectColumns is the shared column list; scanItem depends on this
// exact order.
const selectColumns = `SELECT id, kind, subject_id, name, email, message,
	status, assigned_to, claimed_at, reply, resolved_at, created_at
	FROM inquiries`

// getItem reads one row or returns inquiry.ErrNotFound.
func getItem(conn *sqlite.Conn, id string) (*inquiry.WorkItem, error) {
	var item *inquiry.WorkItem
	err := sqlitex.Execute(conn, selectColumns+` WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				item = scanItem(stmt)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("inquirystore: reading %s: %w", id, err)
	}
	if item == nil {
		return nil, inquiry.ErrNotFound
	}
	return item, nil
}

// scanItem converts the current row (selectColumns order) to a work
// item.
func scanItem(stmt *sqlite.Stmt) *inquiry.WorkItem {
	return &inquiry.WorkItem{
		ID:         stmt.ColumnText(0),
		Kind:       inquiry.Kind(stmt.ColumnText(1)),
		SubjectID:  stmt.ColumnText(2),
		Name:       stmt.ColumnText(3),
		Email:      stmt.ColumnText(4),
		Message:    stmt.ColumnText(5),
		Status:     inquiry.Status(stmt.ColumnText(6)),
		AssignedTo: stmt.ColumnText(7),
		ClaimedAt:  timeOrZero(stmt.ColumnInt64(8)),
		Reply:      stmt.ColumnText(9),
		ResolvedAt: timeOrZero(stmt.ColumnInt64(10)),
		CreatedAt:  time.Unix(stmt.ColumnInt64(11), 0).UTC(),
	}
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(unix int64) time.Time {
	if unix == 0 {
		return time.Time{}
	}
	return time.Unix(unix, 0).UTC()
}
