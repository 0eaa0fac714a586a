package rates

import (
	"github.com/shopspring/decimal"

	dErrors "fiducia/pkg/domain-errors"
)

// Band is one step of a tiered schedule: everything between the previous
// band's bound and UpTo is charged at Rate. A nil UpTo means unbounded.
type Band struct {
	Name string
	UpTo *decimal.Decimal
	Rate decimal.Decimal
}

// Schedule is an ordered sequence of bands. All tiered calculations in the
// engine (income tax, dividend tax, SA income tax, SA estate duty) fold
// through the same schedule logic rather than duplicating conditional chains.
type Schedule []Band

// BandCharge reports how much of an amount fell into a band and the tax it
// produced, for result breakdowns.
type BandCharge struct {
	Band    string          `json:"band"`
	Amount  decimal.Decimal `json:"amount"`
	Rate    decimal.Decimal `json:"rate"`
	Charged decimal.Decimal `json:"charged"`
}

// Validate checks that bounds are strictly increasing, rates lie in [0, 1],
// and only the final band may be unbounded.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return dErrors.New(dErrors.CodeConfiguration, "schedule has no bands")
	}
	prev := decimal.Zero
	for i, b := range s {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return dErrors.Newf(dErrors.CodeConfiguration, "band %d: rate %s out of range", i, b.Rate)
		}
		if b.UpTo == nil {
			if i != len(s)-1 {
				return dErrors.Newf(dErrors.CodeConfiguration, "band %d: only the final band may be unbounded", i)
			}
			continue
		}
		if i > 0 && !b.UpTo.GreaterThan(prev) {
			return dErrors.Newf(dErrors.CodeConfiguration, "band %d: bound %s does not increase", i, b.UpTo)
		}
		prev = *b.UpTo
	}
	return nil
}

// Tax folds an amount through the schedule and returns the total charge with
// the per-band breakdown. Amounts at or below zero charge nothing. No
// intermediate rounding; callers round the final figure once.
func (s Schedule) Tax(amount decimal.Decimal) (decimal.Decimal, []BandCharge) {
	total := decimal.Zero
	var breakdown []BandCharge
	if amount.LessThanOrEqual(decimal.Zero) {
		return total, breakdown
	}

	lower := decimal.Zero
	for _, b := range s {
		upper := amount
		if b.UpTo != nil && b.UpTo.LessThan(amount) {
			upper = *b.UpTo
		}
		if upper.LessThanOrEqual(lower) {
			break
		}
		slice := upper.Sub(lower)
		charged := slice.Mul(b.Rate)
		total = total.Add(charged)
		breakdown = append(breakdown, BandCharge{
			Band:    b.Name,
			Amount:  slice,
			Rate:    b.Rate,
			Charged: charged,
		})
		if b.UpTo == nil || !b.UpTo.LessThan(amount) {
			break
		}
		lower = *b.UpTo
	}
	return total, breakdown
}

// TaperedAllowance reduces an allowance by one unit for every two units the
// measure exceeds the threshold, floored at zero. This single rule covers the
// personal allowance, the IHT nil-rate band, and the residence nil-rate band.
func TaperedAllowance(allowance, measure, threshold decimal.Decimal) decimal.Decimal {
	if measure.LessThanOrEqual(threshold) {
		return allowance
	}
	reduction := measure.Sub(threshold).Div(decimal.NewFromInt(2))
	reduced := allowance.Sub(reduction)
	if reduced.IsNegative() {
		return decimal.Zero
	}
	return reduced
}
