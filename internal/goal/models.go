// Package goal scores savings goals and allocates a monthly budget across
// them. The optimizer is a pure function of the goal snapshots, the budget
// and the evaluation time; persistence lives in the store subpackage.
package goal

import (
	"time"

	"github.com/shopspring/decimal"

	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// Priority is the user-assigned importance tier of a goal.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IsValid checks if the priority is one of the supported enum values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Type tags what a goal is saving towards.
type Type string

const (
	TypeRetirement Type = "retirement"
	TypeProperty   Type = "property"
	TypeEducation  Type = "education"
	TypeEmergency  Type = "emergency"
	TypeTravel     Type = "travel"
	TypeOther      Type = "other"
)

// IsValid checks if the goal type is one of the supported enum values.
func (t Type) IsValid() bool {
	switch t {
	case TypeRetirement, TypeProperty, TypeEducation, TypeEmergency, TypeTravel, TypeOther:
		return true
	}
	return false
}

// Snapshot is one savings goal as the optimizer sees it. Derived scores are
// computed per optimization run and never stored on the snapshot.
type Snapshot struct {
	ID     domain.GoalID `json:"id"`
	UserID domain.UserID `json:"user_id,omitempty"`

	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Priority Priority `json:"priority"`

	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	StartDate     time.Time       `json:"start_date"`
	TargetDate    time.Time       `json:"target_date"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Validate rejects malformed snapshots.
func (s Snapshot) Validate() error {
	if s.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "goal name is required")
	}
	if !s.Type.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown goal type %q", s.Type)
	}
	if !s.Priority.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown priority %q", s.Priority)
	}
	if !s.TargetAmount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "target amount must be positive")
	}
	if s.CurrentAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "current amount must not be negative")
	}
	if s.TargetDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "target date is required")
	}
	return nil
}

// Score is the derived priority scoring for one goal, each component in
// [0, 1].
type Score struct {
	Urgency     float64 `json:"urgency"`
	Importance  float64 `json:"importance"`
	Feasibility float64 `json:"feasibility"`
	Composite   float64 `json:"composite"`
}

// Allocation is the funding decision for one goal.
type Allocation struct {
	GoalID domain.GoalID `json:"goal_id"`
	Name   string        `json:"name"`

	MonthsRemaining int             `json:"months_remaining"`
	Requirement     decimal.Decimal `json:"requirement"`
	Monthly         decimal.Decimal `json:"monthly"`
	Score           Score           `json:"score"`
}

// AdjustmentKind names a suggested way out of a funding conflict.
type AdjustmentKind string

const (
	AdjustExtendDeadline AdjustmentKind = "extend_deadline"
	AdjustReduceTarget   AdjustmentKind = "reduce_target"
	AdjustIncreaseBudget AdjustmentKind = "increase_budget"
)

// Adjustment is one concrete suggestion attached to a conflict.
type Adjustment struct {
	Kind AdjustmentKind `json:"kind"`

	// NewTargetDate is set for extend_deadline suggestions.
	NewTargetDate *time.Time `json:"new_target_date,omitempty"`
	// NewTargetAmount is set for reduce_target suggestions.
	NewTargetAmount *decimal.Decimal `json:"new_target_amount,omitempty"`
	// ExtraBudget is set for increase_budget suggestions.
	ExtraBudget *decimal.Decimal `json:"extra_budget,omitempty"`
}

// Conflict flags a goal whose allocation fell short of its requirement.
type Conflict struct {
	GoalID      domain.GoalID   `json:"goal_id"`
	Name        string          `json:"name"`
	Shortfall   decimal.Decimal `json:"shortfall"`
	Suggestions []Adjustment    `json:"suggestions"`
}

// Plan is the result of one optimization run.
// Invariant: TotalAllocated never exceeds the budget and every allocation is
// non-negative.
type Plan struct {
	Allocations    []Allocation    `json:"allocations"`
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	Unallocated    decimal.Decimal `json:"unallocated"`
	Conflicts      []Conflict      `json:"conflicts"`
}
