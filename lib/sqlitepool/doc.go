// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides the standard SQLite connection pool for
// this repository.
//
// It wraps zombiezen.com/go/sqlite with production defaults: WAL
// journal mode so the inquiry claim path (single writer) never blocks
// pending-list reads, NORMAL synchronous for process-crash durability
// without fsync-per-commit overhead, and a busy timeout so contended
// conditional updates wait for the write lock instead of failing.
//
// The pool is built on zombiezen's sqlitex.Pool: callers [Pool.Take] a
// connection, do their work, and [Pool.Put] it back. Connections are
// NOT safe for concurrent use; each goroutine holds its own for the
// duration of its work.
//
// The package is intentionally thin. Stores write SQL directly, use
// sqlitex.Execute for cached statements, and scope multi-statement
// work with sqlitex.Save. There is no query builder and no attempt to
// hide SQLite's connection model.
package sqlitepool
