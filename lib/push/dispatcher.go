// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package push

import (
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/shaadisharthi/realtime/lib/codec"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 256
)

// DispatcherConfig configures a Dispatcher. Zero values get defaults.
type DispatcherConfig struct {
	Registry *Registry
	Logger   *slog.Logger
	// Workers is the number of delivery goroutines. Each subject is
	// routed to a fixed worker, so events for one subject are
	// delivered in the order they were enqueued.
	Workers int
	// QueueSize bounds each worker's queue. When a queue is full,
	// new events for its subjects are dropped with a log line.
	QueueSize int
}

type delivery struct {
	subjectID string
	event     Event
}

// Dispatcher fans events out to sessions without making producers
// wait. Notify returns immediately; encoding and the actual write
// happen on a worker goroutine.
type Dispatcher struct {
	registry *Registry
	logger   *slog.Logger
	queues   []chan delivery

	// mu guards closed; Notify holds the read side so producers do
	// not serialize behind each other.
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts the worker pool and returns the dispatcher.
// Call Close to drain and stop it.
func NewDispatcher(config DispatcherConfig) *Dispatcher {
	if config.Registry == nil {
		panic("push: DispatcherConfig.Registry is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := config.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	d := &Dispatcher{
		registry: config.Registry,
		logger:   logger,
		queues:   make([]chan delivery, workers),
	}
	for i := range d.queues {
		d.queues[i] = make(chan delivery, queueSize)
		d.wg.Add(1)
		go d.worker(d.queues[i])
	}
	return d
}

// Notify queues an event for delivery to the subject's session and
// returns immediately. If the responsible worker's queue is full the
// event is dropped and logged; Notify never blocks. Events enqueued by
// one goroutine for one subject are delivered in order.
func (d *Dispatcher) Notify(subjectID string, event Event) {
	h := fnv.New32a()
	h.Write([]byte(subjectID))
	queue := d.queues[h.Sum32()%uint32(len(d.queues))]

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("event dropped, dispatcher closed",
			"subject_id", subjectID, "type", event.Type)
		return
	}
	select {
	case queue <- delivery{subjectID: subjectID, event: event}:
	default:
		d.logger.Warn("event dropped, delivery queue full",
			"subject_id", subjectID, "type", event.Type)
	}
}

func (d *Dispatcher) worker(queue chan delivery) {
	defer d.wg.Done()
	for dl := range queue {
		payload, err := codec.Marshal(dl.event)
		if err != nil {
			d.logger.Error("encode event",
				"subject_id", dl.subjectID, "type", dl.event.Type, "error", err)
			continue
		}
		err = d.registry.Send(dl.subjectID, payload)
		switch {
		case err == nil:
		case errors.Is(err, ErrNoSession):
			d.logger.Debug("event dropped, subject offline",
				"subject_id", dl.subjectID, "type", dl.event.Type)
		default:
			// A failed write usually means the browser went away
			// mid-flight; the read loop will unregister it.
			d.logger.Warn("event delivery failed",
				"subject_id", dl.subjectID, "type", dl.event.Type, "error", err)
		}
	}
}

// Close stops accepting events, drains the queues, and waits for the
// workers to exit. Idempotent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	for _, queue := range d.queues {
		close(queue)
	}
	d.wg.Wait()
}
