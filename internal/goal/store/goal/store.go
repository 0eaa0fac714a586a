// Package goal persists goal snapshots. Two implementations share the Store
// contract: an in-memory map for unit tests and local runs, and PostgreSQL
// for real deployments.
package goal

import (
	"context"

	goals "fiducia/internal/goal"
	"fiducia/pkg/domain"
)

// Store is the persistence contract for goal records.
type Store interface {
	// Create inserts a new goal. Fails with a conflict when the user is
	// already at the active goal cap.
	Create(ctx context.Context, g *goals.Snapshot) error
	// Get returns a goal by ID or a not-found error.
	Get(ctx context.Context, goalID domain.GoalID) (*goals.Snapshot, error)
	// ListByUser returns the user's goals ordered by creation time.
	ListByUser(ctx context.Context, userID domain.UserID) ([]*goals.Snapshot, error)
	// Update replaces a stored goal or reports not-found.
	Update(ctx context.Context, g *goals.Snapshot) error
	// Delete removes a goal or reports not-found.
	Delete(ctx context.Context, goalID domain.GoalID) error
}

// Schema is the DDL for the goals table. Integration tests and deploy
// tooling apply it verbatim.
const Schema = `
CREATE TABLE IF NOT EXISTS goals (
	id             UUID PRIMARY KEY,
	user_id        UUID NOT NULL,
	name           TEXT NOT NULL,
	goal_type      TEXT NOT NULL,
	priority       TEXT NOT NULL,
	target_amount  NUMERIC(18,2) NOT NULL,
	current_amount NUMERIC(18,2) NOT NULL,
	start_date     DATE NOT NULL,
	target_date    DATE NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS goals_user_idx ON goals (user_id);
`
