// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package mailqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

// RoutingKey is the topic the mailer consumes from.
const RoutingKey = "mail.inquiry_reply"

// AMQPQueue publishes mail jobs to a RabbitMQ topic exchange. Jobs are
// published persistent so a mailer restart does not lose them.
type AMQPQueue struct {
	conn     *amqp091.Connection
	exchange string
	logger   *slog.Logger
}

// DialAMQP connects to the broker and declares the durable exchange.
func DialAMQP(url, exchange string, logger *slog.Logger) (*AMQPQueue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("mailqueue: dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("mailqueue: open channel: %w", err)
	}
	defer ch.Close()
	if err := ch.ExchangeDeclare(
		exchange, "topic", true, false, false, false, nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("mailqueue: declare exchange %q: %w", exchange, err)
	}

	return &AMQPQueue{
		conn:     conn,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Enqueue publishes one job. The job ID doubles as the AMQP message ID
// so the mailer can deduplicate redeliveries.
func (q *AMQPQueue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("mailqueue: open channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("mailqueue: encode job: %w", err)
	}

	err = ch.PublishWithContext(
		ctx, q.exchange, RoutingKey, false, false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    job.ID,
			Timestamp:    job.EnqueuedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("mailqueue: publish job %s: %w", job.ID, err)
	}
	q.logger.Info("mail job enqueued",
		"job_id", job.ID, "to", job.To, "exchange", q.exchange)
	return nil
}

// Close closes the broker connection.
func (q *AMQPQueue) Close() error {
	return q.conn.Close()
}
