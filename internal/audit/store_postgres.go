package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fiducia/pkg/domain"
)

// Schema is the DDL for the audit outbox table.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id           UUID PRIMARY KEY,
	occurred_at  TIMESTAMPTZ NOT NULL,
	user_id      UUID NOT NULL,
	request_id   TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL,
	tax_year     TEXT NOT NULL DEFAULT '',
	summary      TEXT NOT NULL,
	payload      JSONB NOT NULL,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS audit_events_user_idx ON audit_events (user_id, occurred_at);
CREATE INDEX IF NOT EXISTS audit_events_outbox_idx ON audit_events (occurred_at) WHERE published_at IS NULL;
`

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (id, occurred_at, user_id, request_id,
			kind, tax_year, summary, payload, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Timestamp, uuid.UUID(e.UserID), e.RequestID,
		string(e.Kind), string(e.TaxYear), e.Summary, []byte(e.Payload), e.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, user_id, request_id, kind, tax_year, summary, payload, published_at
		FROM audit_events WHERE user_id = $1
		ORDER BY occurred_at`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *PostgresStore) NextUnpublished(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, occurred_at, user_id, request_id, kind, tax_year, summary, payload, published_at
		FROM audit_events WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished audit events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE audit_events SET published_at = $1 WHERE id = ANY($2)`,
		at, pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("mark audit events published: %w", err)
	}
	return nil
}

func collectEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var (
			e       Event
			userID  uuid.UUID
			kind    string
			taxYear string
			payload []byte
		)
		err := rows.Scan(&e.ID, &e.Timestamp, &userID, &e.RequestID,
			&kind, &taxYear, &e.Summary, &payload, &e.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.UserID = domain.UserID(userID)
		e.Kind = Kind(kind)
		e.TaxYear = domain.TaxYear(taxYear)
		e.Payload = payload
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit events: %w", err)
	}
	return out, nil
}
