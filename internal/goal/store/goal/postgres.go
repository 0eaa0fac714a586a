package goal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	goals "fiducia/internal/goal"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// PostgresStore persists goals in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed goal store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, g *goals.Snapshot) error {
	if g == nil {
		return dErrors.New(dErrors.CodeBadRequest, "goal is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create goal: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM goals WHERE user_id = $1`, uuid.UUID(g.UserID),
	).Scan(&active)
	if err != nil {
		return fmt.Errorf("count active goals: %w", err)
	}
	if active >= goals.MaxActiveGoals {
		return dErrors.Newf(dErrors.CodeConflict, "user already has %d active goals", goals.MaxActiveGoals)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, name, goal_type, priority,
			target_amount, current_amount, start_date, target_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		uuid.UUID(g.ID), uuid.UUID(g.UserID), g.Name, string(g.Type), string(g.Priority),
		g.TargetAmount.String(), g.CurrentAmount.String(), g.StartDate, g.TargetDate,
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create goal: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, goalID domain.GoalID) (*goals.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, goal_type, priority,
			target_amount, current_amount, start_date, target_date,
			created_at, updated_at
		FROM goals WHERE id = $1`, uuid.UUID(goalID))

	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID domain.UserID) ([]*goals.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, goal_type, priority,
			target_amount, current_amount, start_date, target_date,
			created_at, updated_at
		FROM goals WHERE user_id = $1
		ORDER BY created_at`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []*goals.Snapshot
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, g *goals.Snapshot) error {
	if g == nil {
		return dErrors.New(dErrors.CodeBadRequest, "goal is required")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE goals SET name = $2, goal_type = $3, priority = $4,
			target_amount = $5, current_amount = $6,
			start_date = $7, target_date = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(g.ID), g.Name, string(g.Type), string(g.Priority),
		g.TargetAmount.String(), g.CurrentAmount.String(),
		g.StartDate, g.TargetDate, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, goalID domain.GoalID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, uuid.UUID(goalID))
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if affected == 0 {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (*goals.Snapshot, error) {
	var (
		g               goals.Snapshot
		id, userID      uuid.UUID
		target, current string
		typ, priority   string
	)
	err := row.Scan(&id, &userID, &g.Name, &typ, &priority,
		&target, &current, &g.StartDate, &g.TargetDate,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.ID = domain.GoalID(id)
	g.UserID = domain.UserID(userID)
	g.Type = goals.Type(typ)
	g.Priority = goals.Priority(priority)
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("parse target amount: %w", err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parse current amount: %w", err)
	}
	return &g, nil
}
