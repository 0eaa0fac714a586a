package estate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fiducia/internal/rates"
)

// GiftResult is the analysis of one lifetime gift.
type GiftResult struct {
	Gift

	ExemptAmount     decimal.Decimal `json:"exempt_amount"`
	ChargeableAmount decimal.Decimal `json:"chargeable_amount"`
	PET              bool            `json:"pet"`

	YearsSinceGift int  `json:"years_since_gift"`
	WithinWindow   bool `json:"within_window"`

	// Tax fields are zero for exempt gifts and gifts outside the window.
	NRBSheltered    decimal.Decimal `json:"nrb_sheltered"`
	TaxableAmount   decimal.Decimal `json:"taxable_amount"`
	TaperBand       string          `json:"taper_band,omitempty"`
	Relief          decimal.Decimal `json:"relief"`
	TaxBeforeRelief decimal.Decimal `json:"tax_before_relief"`
	TaxDue          decimal.Decimal `json:"tax_due"`
}

// GiftAnalysis is the full lifetime gift picture at a death date.
type GiftAnalysis struct {
	Gifts []GiftResult `json:"gifts"`

	TotalExempt decimal.Decimal `json:"total_exempt"`
	// TotalChargeable is the cumulative chargeable value within the
	// seven-year window; the estate calculation uses it to consume
	// nil-rate band ahead of the estate.
	TotalChargeable decimal.Decimal `json:"total_chargeable"`
	NRBConsumed     decimal.Decimal `json:"nrb_consumed"`
	TotalTaxDue     decimal.Decimal `json:"total_tax_due"`
}

// AnalyzeGifts classifies lifetime gifts against the death date and computes
// the tax on failed PETs. Gifts are processed in chronological order: the
// annual exclusion consumes the gift year's allowance first and then at most
// the immediately preceding year's unused allowance, the small-gift exemption
// applies only when the whole gift fits under the limit, marriage gifts are
// capped by relationship, and any unexempt remainder is a PET. Chargeable
// PETs within seven years of death consume nil-rate band cumulatively; tax on
// the excess is reduced by taper relief for the whole years survived.
func AnalyzeGifts(gifts []Gift, deathDate time.Time, r rates.IHTRates) (*GiftAnalysis, error) {
	for _, g := range gifts {
		if err := g.Validate(deathDate); err != nil {
			return nil, err
		}
	}

	ordered := make([]Gift, len(gifts))
	copy(ordered, gifts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	annual := map[int]decimal.Decimal{}
	annualRemaining := func(year int) decimal.Decimal {
		if v, ok := annual[year]; ok {
			return v
		}
		annual[year] = r.AnnualExemption
		return r.AnnualExemption
	}

	analysis := &GiftAnalysis{
		TotalExempt:     decimal.Zero,
		TotalChargeable: decimal.Zero,
		NRBConsumed:     decimal.Zero,
		TotalTaxDue:     decimal.Zero,
	}
	nrbRemaining := r.NilRateBand

	for _, g := range ordered {
		res := GiftResult{
			Gift:            g,
			ExemptAmount:    decimal.Zero,
			NRBSheltered:    decimal.Zero,
			TaxableAmount:   decimal.Zero,
			Relief:          decimal.Zero,
			TaxBeforeRelief: decimal.Zero,
			TaxDue:          decimal.Zero,
		}

		switch g.Exemption {
		case ExemptionSpouse, ExemptionCharity:
			res.ExemptAmount = g.Amount
		case ExemptionAnnual:
			year := ukGiftYear(g.Date)
			use := decimal.Min(g.Amount, annualRemaining(year))
			annual[year] = annual[year].Sub(use)

			carry := decimal.Min(g.Amount.Sub(use), annualRemaining(year-1))
			annual[year-1] = annual[year-1].Sub(carry)

			res.ExemptAmount = use.Add(carry)
		case ExemptionSmallGift:
			if g.Amount.LessThanOrEqual(r.SmallGiftLimit) {
				res.ExemptAmount = g.Amount
			}
		case ExemptionMarriageParent:
			res.ExemptAmount = decimal.Min(g.Amount, r.MarriageGiftParent)
		case ExemptionMarriageGrandparent:
			res.ExemptAmount = decimal.Min(g.Amount, r.MarriageGiftGrandparent)
		case ExemptionMarriageOther:
			res.ExemptAmount = decimal.Min(g.Amount, r.MarriageGiftOther)
		}

		res.ChargeableAmount = g.Amount.Sub(res.ExemptAmount)
		res.PET = res.ChargeableAmount.IsPositive()
		res.YearsSinceGift = wholeYears(g.Date, deathDate)
		res.WithinWindow = res.YearsSinceGift < petWindowYears

		analysis.TotalExempt = analysis.TotalExempt.Add(res.ExemptAmount)

		if res.PET && res.WithinWindow {
			analysis.TotalChargeable = analysis.TotalChargeable.Add(res.ChargeableAmount)

			res.NRBSheltered = decimal.Min(res.ChargeableAmount, nrbRemaining)
			nrbRemaining = nrbRemaining.Sub(res.NRBSheltered)
			res.TaxableAmount = res.ChargeableAmount.Sub(res.NRBSheltered)

			relief, band := taperRelief(r.TaperRelief, res.YearsSinceGift)
			res.Relief = relief
			res.TaperBand = band
			res.TaxBeforeRelief = res.TaxableAmount.Mul(r.Rate)
			res.TaxDue = res.TaxBeforeRelief.Mul(decimal.NewFromInt(1).Sub(relief)).Round(2)
			analysis.TotalTaxDue = analysis.TotalTaxDue.Add(res.TaxDue)
		}

		analysis.Gifts = append(analysis.Gifts, res)
	}

	analysis.NRBConsumed = r.NilRateBand.Sub(nrbRemaining)
	return analysis, nil
}

// petWindowYears is the lookback window for failed PETs.
const petWindowYears = 7

// ukGiftYear maps a date to the UK tax year it falls in, identified by the
// year containing 6 April.
func ukGiftYear(d time.Time) int {
	if d.Month() < time.April || (d.Month() == time.April && d.Day() < 6) {
		return d.Year() - 1
	}
	return d.Year()
}

// wholeYears counts complete years between two dates.
func wholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	if years < 0 {
		return 0
	}
	if from.AddDate(years, 0, 0).After(to) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// taperRelief returns the relief fraction and band label for the whole years
// survived since a gift.
func taperRelief(table []rates.TaperBand, years int) (decimal.Decimal, string) {
	relief := decimal.Zero
	band := ""
	for i, tb := range table {
		if years < tb.MinYears {
			break
		}
		relief = tb.Relief
		if i+1 < len(table) {
			band = fmt.Sprintf("%d-%d years", tb.MinYears, table[i+1].MinYears)
		} else {
			band = fmt.Sprintf("%d+ years", tb.MinYears)
		}
	}
	return relief, band
}
