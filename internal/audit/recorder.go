package audit

import (
	"context"
	"log/slog"

	"fiducia/pkg/requestcontext"
)

// Recorder is the write side services use. A nil Recorder drops events, so
// callers never need to guard the audit path.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder constructs a recorder over the given store.
func NewRecorder(store Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logger}
}

// Record fills request-scoped fields from the context and appends the event.
// Audit failures are logged, never surfaced; a calculation result is not
// withheld because the outbox write failed.
func (r *Recorder) Record(ctx context.Context, e Event) {
	if r == nil || r.store == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = requestcontext.Now(ctx)
	}
	if e.UserID.IsNil() {
		e.UserID = requestcontext.UserID(ctx)
	}
	if e.RequestID == "" {
		e.RequestID = requestcontext.RequestID(ctx)
	}

	if err := r.store.Append(ctx, e); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "failed to append audit event",
			"kind", e.Kind,
			"request_id", e.RequestID,
			"error", err,
		)
	}
}
