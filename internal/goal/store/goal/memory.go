package goal

import (
	"context"
	"sort"
	"sync"

	goals "fiducia/internal/goal"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// InMemory is a map-backed Store for tests and local runs.
type InMemory struct {
	mu    sync.RWMutex
	goals map[domain.GoalID]*goals.Snapshot
}

// NewInMemory constructs an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{goals: make(map[domain.GoalID]*goals.Snapshot)}
}

func (s *InMemory) Create(_ context.Context, g *goals.Snapshot) error {
	if g == nil {
		return dErrors.New(dErrors.CodeBadRequest, "goal is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.goals[g.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "goal already exists")
	}
	active := 0
	for _, existing := range s.goals {
		if existing.UserID == g.UserID {
			active++
		}
	}
	if active >= goals.MaxActiveGoals {
		return dErrors.Newf(dErrors.CodeConflict, "user already has %d active goals", goals.MaxActiveGoals)
	}

	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *InMemory) Get(_ context.Context, goalID domain.GoalID) (*goals.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	cp := *g
	return &cp, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID domain.UserID) ([]*goals.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*goals.Snapshot
	for _, g := range s.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, g *goals.Snapshot) error {
	if g == nil {
		return dErrors.New(dErrors.CodeBadRequest, "goal is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[g.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, goalID domain.GoalID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[goalID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "goal not found")
	}
	delete(s.goals, goalID)
	return nil
}
