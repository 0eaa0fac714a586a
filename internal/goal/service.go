package goal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fiducia/internal/audit"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
	"fiducia/pkg/requestcontext"
)

// Store is the persistence surface the service needs. The store subpackage
// provides the in-memory and PostgreSQL implementations.
type Store interface {
	Create(ctx context.Context, g *Snapshot) error
	Get(ctx context.Context, goalID domain.GoalID) (*Snapshot, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]*Snapshot, error)
	Update(ctx context.Context, g *Snapshot) error
	Delete(ctx context.Context, goalID domain.GoalID) error
}

// Service manages stored goals and runs budget optimizations over them.
type Service struct {
	store    Store
	logger   *slog.Logger
	recorder *audit.Recorder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRecorder attaches an audit recorder.
func WithRecorder(r *audit.Recorder) ServiceOption {
	return func(s *Service) { s.recorder = r }
}

// NewService constructs a goal service.
func NewService(store Store, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{store: store, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Create stores a new goal for the authenticated user. The ID, user and
// timestamps are assigned here; a zero start date defaults to the request
// time.
func (s *Service) Create(ctx context.Context, g Snapshot) (*Snapshot, error) {
	now := requestcontext.Now(ctx)
	g.ID = domain.NewGoalID()
	g.UserID = requestcontext.UserID(ctx)
	if g.StartDate.IsZero() {
		g.StartDate = now
	}
	g.CreatedAt = now
	g.UpdatedAt = now

	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Get returns one of the authenticated user's goals.
func (s *Service) Get(ctx context.Context, goalID domain.GoalID) (*Snapshot, error) {
	g, err := s.store.Get(ctx, goalID)
	if err != nil {
		return nil, err
	}
	// Goals are scoped to their owner; other users see not-found.
	if g.UserID != requestcontext.UserID(ctx) {
		return nil, dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	return g, nil
}

// List returns all of the authenticated user's goals, oldest first.
func (s *Service) List(ctx context.Context) ([]*Snapshot, error) {
	return s.store.ListByUser(ctx, requestcontext.UserID(ctx))
}

// Update replaces a stored goal's mutable fields.
func (s *Service) Update(ctx context.Context, g Snapshot) (*Snapshot, error) {
	existing, err := s.Get(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	g.UserID = existing.UserID
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = requestcontext.Now(ctx)
	if g.StartDate.IsZero() {
		g.StartDate = existing.StartDate
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes one of the authenticated user's goals.
func (s *Service) Delete(ctx context.Context, goalID domain.GoalID) error {
	if _, err := s.Get(ctx, goalID); err != nil {
		return err
	}
	return s.store.Delete(ctx, goalID)
}

// OptimizePlan scores goals and allocates the monthly budget. When the goal
// list is empty the user's stored goals are optimized instead, giving a
// one-call "plan my saved goals" flow.
func (s *Service) OptimizePlan(ctx context.Context, monthlyBudget decimal.Decimal, goals []Snapshot) (*Plan, error) {
	if len(goals) == 0 {
		stored, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		if len(stored) == 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "no goals to optimize")
		}
		goals = make([]Snapshot, len(stored))
		for i, g := range stored {
			goals[i] = *g
		}
	}

	plan, err := Optimize(goals, monthlyBudget, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	s.record(ctx, fmt.Sprintf("allocated %s across %d goals, %d conflicts",
		plan.TotalAllocated, len(plan.Allocations), len(plan.Conflicts)), plan)
	return plan, nil
}

func (s *Service) record(ctx context.Context, summary string, payload any) {
	event, err := audit.NewEvent(audit.KindGoalOptimization, domain.UserID{}, domain.TaxYear(""), summary, payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to build audit event", "kind", audit.KindGoalOptimization, "error", err)
		return
	}
	s.recorder.Record(ctx, event)
}
