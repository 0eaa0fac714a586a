package goal

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	dErrors "fiducia/pkg/domain-errors"
)

// Composite score weights. Fixed rather than configurable; per-user weighting
// has no agreed semantics yet.
const (
	UrgencyWeight     = 0.40
	ImportanceWeight  = 0.35
	FeasibilityWeight = 0.25
)

// MinMonthsRemaining floors the time-to-target so urgency and required-rate
// divisions stay bounded for goals due this month or overdue.
const MinMonthsRemaining = 1

// MaxActiveGoals is the per-user cap enforced by the goal store. The
// optimizer itself accepts any input size.
const MaxActiveGoals = 10

var importanceByPriority = map[Priority]float64{
	PriorityHigh:   1.0,
	PriorityMedium: 0.6,
	PriorityLow:    0.3,
}

// Optimize scores the supplied goals and allocates the monthly budget
// greedily in score order. Urgency is the inverse of months remaining,
// importance maps from the priority tier, and feasibility inverts the ratio
// of required monthly rate to the whole budget. Ties in composite score break
// by earliest target date, then input order. Every goal funded below its
// requirement is reported as a conflict with concrete suggestions.
func Optimize(goals []Snapshot, monthlyBudget decimal.Decimal, now time.Time) (*Plan, error) {
	if monthlyBudget.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "monthly budget must not be negative")
	}
	for i, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeValidation, fmt.Sprintf("goal %d", i))
		}
	}

	type scored struct {
		snap   Snapshot
		index  int
		months int
		req    decimal.Decimal
		score  Score
	}

	items := make([]scored, 0, len(goals))
	for i, g := range goals {
		months := monthsUntil(now, g.TargetDate)
		remaining := g.TargetAmount.Sub(g.CurrentAmount)
		req := decimal.Zero
		if remaining.IsPositive() {
			req = remaining.Div(decimal.NewFromInt(int64(months))).Round(2)
		}

		s := Score{
			Urgency:     1.0 / float64(months),
			Importance:  importanceByPriority[g.Priority],
			Feasibility: feasibility(req, monthlyBudget),
		}
		s.Composite = UrgencyWeight*s.Urgency + ImportanceWeight*s.Importance + FeasibilityWeight*s.Feasibility

		items = append(items, scored{snap: g, index: i, months: months, req: req, score: s})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].score.Composite != items[j].score.Composite {
			return items[i].score.Composite > items[j].score.Composite
		}
		if !items[i].snap.TargetDate.Equal(items[j].snap.TargetDate) {
			return items[i].snap.TargetDate.Before(items[j].snap.TargetDate)
		}
		return items[i].index < items[j].index
	})

	plan := &Plan{
		TotalAllocated: decimal.Zero,
		Unallocated:    decimal.Zero,
	}
	budget := monthlyBudget

	for _, it := range items {
		monthly := decimal.Min(it.req, budget)
		budget = budget.Sub(monthly)

		plan.Allocations = append(plan.Allocations, Allocation{
			GoalID:          it.snap.ID,
			Name:            it.snap.Name,
			MonthsRemaining: it.months,
			Requirement:     it.req,
			Monthly:         monthly,
			Score:           it.score,
		})
		plan.TotalAllocated = plan.TotalAllocated.Add(monthly)

		if monthly.LessThan(it.req) {
			plan.Conflicts = append(plan.Conflicts, Conflict{
				GoalID:      it.snap.ID,
				Name:        it.snap.Name,
				Shortfall:   it.req.Sub(monthly),
				Suggestions: suggest(it.snap, monthly, it.req, it.months, now),
			})
		}
	}

	plan.Unallocated = budget
	return plan, nil
}

// monthsUntil counts calendar months from now to the target date, rounding
// partial months up and flooring at MinMonthsRemaining.
func monthsUntil(now, target time.Time) int {
	months := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if target.Day() > now.Day() {
		months++
	}
	if months < MinMonthsRemaining {
		months = MinMonthsRemaining
	}
	return months
}

// feasibility inverts the share of the whole budget the goal's required rate
// would consume: a goal needing nothing scores 1, a goal needing the full
// budget or more scores 0.
func feasibility(required, budget decimal.Decimal) float64 {
	if !required.IsPositive() {
		return 1.0
	}
	if !budget.IsPositive() {
		return 0.0
	}
	ratio, _ := required.Div(budget).Float64()
	if ratio > 1.0 {
		ratio = 1.0
	}
	return 1.0 - ratio
}

// suggest builds the adjustment options for an under-funded goal: push the
// target date to where the achieved allocation suffices, shrink the target to
// what the allocation can reach, or top up the budget by the requirement gap.
func suggest(g Snapshot, monthly, required decimal.Decimal, months int, now time.Time) []Adjustment {
	shortfall := required.Sub(monthly)
	remaining := g.TargetAmount.Sub(g.CurrentAmount)

	var out []Adjustment
	if monthly.IsPositive() {
		needed := int(remaining.Div(monthly).Ceil().IntPart())
		newDate := now.AddDate(0, needed, 0)
		out = append(out, Adjustment{Kind: AdjustExtendDeadline, NewTargetDate: &newDate})

		achievable := g.CurrentAmount.Add(monthly.Mul(decimal.NewFromInt(int64(months))))
		out = append(out, Adjustment{Kind: AdjustReduceTarget, NewTargetAmount: &achievable})
	}
	out = append(out, Adjustment{Kind: AdjustIncreaseBudget, ExtraBudget: &shortfall})
	return out
}
