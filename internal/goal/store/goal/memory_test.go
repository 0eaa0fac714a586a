package goal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	goals "fiducia/internal/goal"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

type GoalStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *GoalStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestGoalStoreSuite(t *testing.T) {
	suite.Run(t, new(GoalStoreSuite))
}

func (s *GoalStoreSuite) newGoal(userID domain.UserID, name string) *goals.Snapshot {
	now := time.Now()
	return &goals.Snapshot{
		ID:            domain.NewGoalID(),
		UserID:        userID,
		Name:          name,
		Type:          goals.TypeProperty,
		Priority:      goals.PriorityMedium,
		TargetAmount:  decimal.NewFromInt(10000),
		CurrentAmount: decimal.NewFromInt(500),
		StartDate:     now.AddDate(0, -1, 0),
		TargetDate:    now.AddDate(1, 0, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *GoalStoreSuite) TestCreateAndGet() {
	userID := domain.UserID(uuid.New())
	g := s.newGoal(userID, "deposit")
	s.Require().NoError(s.store.Create(s.ctx, g))

	found, err := s.store.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal("deposit", found.Name)
	s.True(found.TargetAmount.Equal(g.TargetAmount))
}

func (s *GoalStoreSuite) TestGetUnknownID() {
	_, err := s.store.Get(s.ctx, domain.NewGoalID())
	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *GoalStoreSuite) TestActiveGoalCap() {
	userID := domain.UserID(uuid.New())
	for i := 0; i < goals.MaxActiveGoals; i++ {
		s.Require().NoError(s.store.Create(s.ctx, s.newGoal(userID, fmt.Sprintf("goal %d", i))))
	}

	err := s.store.Create(s.ctx, s.newGoal(userID, "one too many"))
	s.Require().Error(err)
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))

	// Another user is unaffected by the cap.
	s.NoError(s.store.Create(s.ctx, s.newGoal(domain.UserID(uuid.New()), "fresh start")))
}

func (s *GoalStoreSuite) TestListByUserOrdersByCreation() {
	userID := domain.UserID(uuid.New())
	first := s.newGoal(userID, "first")
	second := s.newGoal(userID, "second")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	listed, err := s.store.ListByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(listed, 2)
	s.Equal("first", listed[0].Name)
	s.Equal("second", listed[1].Name)
}

func (s *GoalStoreSuite) TestUpdate() {
	userID := domain.UserID(uuid.New())
	g := s.newGoal(userID, "car")
	s.Require().NoError(s.store.Create(s.ctx, g))

	g.CurrentAmount = decimal.NewFromInt(2500)
	s.Require().NoError(s.store.Update(s.ctx, g))

	found, err := s.store.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	s.True(found.CurrentAmount.Equal(decimal.NewFromInt(2500)))
}

func (s *GoalStoreSuite) TestUpdateUnknownID() {
	err := s.store.Update(s.ctx, s.newGoal(domain.UserID(uuid.New()), "ghost"))
	s.Require().Error(err)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *GoalStoreSuite) TestDelete() {
	userID := domain.UserID(uuid.New())
	g := s.newGoal(userID, "holiday")
	s.Require().NoError(s.store.Create(s.ctx, g))
	s.Require().NoError(s.store.Delete(s.ctx, g.ID))

	_, err := s.store.Get(s.ctx, g.ID)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))

	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(s.store.Delete(s.ctx, g.ID)))
}

func (s *GoalStoreSuite) TestStoredCopiesAreIsolated() {
	userID := domain.UserID(uuid.New())
	g := s.newGoal(userID, "original")
	s.Require().NoError(s.store.Create(s.ctx, g))

	g.Name = "mutated after create"
	found, err := s.store.Get(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal("original", found.Name)
}
