package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fiducia/pkg/domain"
)

// Store is the outbox contract: append-only writes, user-scoped reads, and
// the publish cursor the worker drains.
type Store interface {
	Append(ctx context.Context, e Event) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]Event, error)
	// NextUnpublished returns up to limit unpublished events in append order.
	NextUnpublished(ctx context.Context, limit int) ([]Event, error)
	// MarkPublished stamps the given events as delivered.
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// InMemory is a map-backed Store for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	events []Event
}

// NewInMemory constructs an empty in-memory audit store.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *InMemory) ListByUser(_ context.Context, userID domain.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *InMemory) NextUnpublished(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Event
	for _, e := range s.events {
		if e.PublishedAt == nil {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *InMemory) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	published := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		published[id] = true
	}
	for i := range s.events {
		if published[s.events[i].ID] {
			stamp := at
			s.events[i].PublishedAt = &stamp
		}
	}
	return nil
}
