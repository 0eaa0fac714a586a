package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"fiducia/internal/goal"
	dErrors "fiducia/pkg/domain-errors"
)

// GoalRequest is the HTTP request body for creating or updating a goal.
type GoalRequest struct {
	Name          string          `json:"name"`
	Type          goal.Type       `json:"type"`
	Priority      goal.Priority   `json:"priority"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	StartDate     time.Time       `json:"start_date,omitempty"`
	TargetDate    time.Time       `json:"target_date"`
}

// Validate rejects obviously malformed goals; the service validates the
// assembled snapshot again once defaults are filled.
func (r *GoalRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !r.Type.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown goal type %q", r.Type)
	}
	if !r.Priority.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown priority %q", r.Priority)
	}
	if !r.TargetAmount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "target_amount must be positive")
	}
	if r.CurrentAmount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "current_amount must not be negative")
	}
	if r.TargetDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "target_date is required")
	}
	return nil
}

// Snapshot maps the request onto a goal snapshot. The service assigns the
// identity and timestamps.
func (r *GoalRequest) Snapshot() goal.Snapshot {
	return goal.Snapshot{
		Name:          r.Name,
		Type:          r.Type,
		Priority:      r.Priority,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		StartDate:     r.StartDate,
		TargetDate:    r.TargetDate,
	}
}

// OptimizeRequest is the HTTP request body for POST /v1/goals/optimize.
// Goals may be supplied inline; when absent the user's stored goals are used.
type OptimizeRequest struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget"`
	Goals         []goal.Snapshot `json:"goals,omitempty"`
}

// Validate rejects a negative budget; the optimizer validates each goal.
func (r *OptimizeRequest) Validate() error {
	if r.MonthlyBudget.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "monthly_budget must not be negative")
	}
	return nil
}
