// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

// Package inquirystore is the SQLite implementation of the
// inquiry.Store contract.
//
// Claim and finalize are single conditional UPDATE statements: the
// status check is part of the WHERE clause, so the database's write
// lock linearizes racing operators and exactly one conditional update
// matches. The follow-up read that diagnoses a lost race runs in the
// same IMMEDIATE transaction as the update, so the loser's diagnosis
// reflects the state that beat it.
//
// Shared-deployment note: instances sharing one database file get the
// claim invariant from SQLite itself; nothing here depends on
// in-process locking.
package inquirystore
