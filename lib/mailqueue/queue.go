// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package mailqueue

import (
	"context"
	"log/slog"
	"time"
)

// Job is one email to be composed and sent by the mailer.
type Job struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Queue accepts mail jobs for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Close() error
}

// LogQueue is a Queue that records jobs to the log and drops them.
// Used when no broker is configured, typically in development.
type LogQueue struct {
	logger *slog.Logger
}

// NewLogQueue returns a queue that only logs. A nil logger falls back
// to slog.Default.
func NewLogQueue(logger *slog.Logger) *LogQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogQueue{logger: logger}
}

// Enqueue logs the job and discards it.
func (q *LogQueue) Enqueue(_ context.Context, job Job) error {
	q.logger.Info("mail job dropped, no broker configured",
		"job_id", job.ID, "to", job.To, "subject", job.Subject)
	return nil
}

// Close is a no-op.
func (q *LogQueue) Close() error { return nil }
