package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultInterval  = 5 * time.Second
	defaultBatchSize = 100
)

// Worker drains the outbox to a Publisher on an interval. Events are marked
// published only after the sink acknowledges them, so a crash between publish
// and mark can re-deliver; consumers must treat events as at-least-once.
type Worker struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithInterval overrides the drain interval.
func WithInterval(d time.Duration) WorkerOption {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithBatchSize overrides how many events one drain pass publishes.
func WithBatchSize(n int) WorkerOption {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// NewWorker constructs an outbox worker.
func NewWorker(store Store, publisher Publisher, logger *slog.Logger, opts ...WorkerOption) *Worker {
	w := &Worker{
		store:     store,
		publisher: publisher,
		logger:    logger,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run drains the outbox until ctx is cancelled. Publish failures are logged
// and retried on the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Flush(ctx); err != nil {
				w.logger.ErrorContext(ctx, "audit outbox drain failed", "error", err)
			}
		}
	}
}

// Flush publishes one batch of unpublished events and returns how many were
// delivered.
func (w *Worker) Flush(ctx context.Context) (int, error) {
	events, err := w.store.NextUnpublished(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	if err := w.publisher.Publish(ctx, events); err != nil {
		return 0, err
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	if err := w.store.MarkPublished(ctx, ids, time.Now()); err != nil {
		return 0, err
	}
	return len(events), nil
}
