// Package tax computes UK and SA personal tax liabilities from banded rate
// tables. Every calculator is a pure function of the amounts and the tax
// year's table; all banded maths goes through the shared schedule fold in the
// rates package. Amounts use exact decimal arithmetic with a single rounding
// at the final figure.
package tax

import (
	"github.com/shopspring/decimal"

	"fiducia/internal/rates"
	dErrors "fiducia/pkg/domain-errors"
)

// UKIncomeTaxResult breaks down a UK income tax liability.
type UKIncomeTaxResult struct {
	TotalIncome       decimal.Decimal    `json:"total_income"`
	PersonalAllowance decimal.Decimal    `json:"personal_allowance"`
	TaxableIncome     decimal.Decimal    `json:"taxable_income"`
	TaxDue            decimal.Decimal    `json:"tax_due"`
	Breakdown         []rates.BandCharge `json:"breakdown"`
}

// UKIncomeTax computes income tax with personal allowance tapering: the
// allowance erodes by £1 for every £2 of income above the taper threshold.
func UKIncomeTax(totalIncome decimal.Decimal, r *rates.UKRates) (*UKIncomeTaxResult, error) {
	if totalIncome.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "total income must not be negative")
	}

	allowance := rates.TaperedAllowance(r.PersonalAllowance, totalIncome, r.AllowanceTaperThreshold)
	taxable := floorZero(totalIncome.Sub(allowance))
	due, breakdown := r.IncomeTax.Tax(taxable)

	return &UKIncomeTaxResult{
		TotalIncome:       totalIncome,
		PersonalAllowance: allowance,
		TaxableIncome:     taxable,
		TaxDue:            due.Round(2),
		Breakdown:         breakdown,
	}, nil
}

// NIResult breaks down a class 1 employee National Insurance liability.
type NIResult struct {
	Earnings decimal.Decimal `json:"earnings"`
	Due      decimal.Decimal `json:"due"`
}

// UKNationalInsurance computes class 1 employee contributions: the main rate
// between the primary threshold and the upper earnings limit, the upper rate
// above it.
func UKNationalInsurance(earnings decimal.Decimal, r *rates.UKRates) (*NIResult, error) {
	if earnings.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "earnings must not be negative")
	}

	main := floorZero(decimal.Min(earnings, r.NI.UpperEarningsLimit).Sub(r.NI.PrimaryThreshold))
	upper := floorZero(earnings.Sub(r.NI.UpperEarningsLimit))
	due := main.Mul(r.NI.MainRate).Add(upper.Mul(r.NI.UpperRate))

	return &NIResult{Earnings: earnings, Due: due.Round(2)}, nil
}

// DividendTaxResult breaks down a dividend tax liability.
type DividendTaxResult struct {
	Dividends        decimal.Decimal    `json:"dividends"`
	Allowance        decimal.Decimal    `json:"allowance"`
	TaxableDividends decimal.Decimal    `json:"taxable_dividends"`
	TaxDue           decimal.Decimal    `json:"tax_due"`
	Breakdown        []rates.BandCharge `json:"breakdown"`
}

// UKDividendTax computes dividend tax. Dividends sit on top of other taxable
// income, so the schedule is applied to the stacked total and the charge on
// the non-dividend slice is backed out.
func UKDividendTax(dividends, otherTaxableIncome decimal.Decimal, r *rates.UKRates) (*DividendTaxResult, error) {
	if dividends.IsNegative() || otherTaxableIncome.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "amounts must not be negative")
	}

	taxable := floorZero(dividends.Sub(r.Dividend.Allowance))
	stacked, breakdown := r.Dividend.Schedule.Tax(otherTaxableIncome.Add(taxable))
	below, _ := r.Dividend.Schedule.Tax(otherTaxableIncome)
	due := stacked.Sub(below)

	return &DividendTaxResult{
		Dividends:        dividends,
		Allowance:        r.Dividend.Allowance,
		TaxableDividends: taxable,
		TaxDue:           due.Round(2),
		Breakdown:        breakdown,
	}, nil
}

// CGTResult breaks down a capital gains tax liability.
type CGTResult struct {
	Gain         decimal.Decimal `json:"gain"`
	AnnualExempt decimal.Decimal `json:"annual_exempt"`
	TaxableGain  decimal.Decimal `json:"taxable_gain"`
	LowerCharged decimal.Decimal `json:"lower_charged"`
	UpperCharged decimal.Decimal `json:"upper_charged"`
	TaxDue       decimal.Decimal `json:"tax_due"`
}

// UKCapitalGains computes CGT: the annual exempt amount comes off first, the
// lower rate applies within remaining basic-rate headroom, the higher rate
// above it.
func UKCapitalGains(gain, taxableIncome decimal.Decimal, r *rates.UKRates) (*CGTResult, error) {
	if gain.IsNegative() || taxableIncome.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "amounts must not be negative")
	}

	taxable := floorZero(gain.Sub(r.CGT.AnnualExempt))
	headroom := floorZero(r.CGT.BasicRateBand.Sub(taxableIncome))
	atLower := decimal.Min(taxable, headroom)
	atHigher := taxable.Sub(atLower)

	lower := atLower.Mul(r.CGT.LowerRate)
	upper := atHigher.Mul(r.CGT.HigherRate)

	return &CGTResult{
		Gain:         gain,
		AnnualExempt: r.CGT.AnnualExempt,
		TaxableGain:  taxable,
		LowerCharged: lower,
		UpperCharged: upper,
		TaxDue:       lower.Add(upper).Round(2),
	}, nil
}

// SAIncomeTaxResult breaks down an SA income tax liability.
type SAIncomeTaxResult struct {
	TaxableIncome decimal.Decimal    `json:"taxable_income"`
	GrossTax      decimal.Decimal    `json:"gross_tax"`
	Rebate        decimal.Decimal    `json:"rebate"`
	TaxDue        decimal.Decimal    `json:"tax_due"`
	Breakdown     []rates.BandCharge `json:"breakdown"`
}

// SAIncomeTax computes SA income tax: the banded schedule less the age-based
// rebates (primary for everyone, secondary from 65, tertiary from 75),
// floored at zero.
func SAIncomeTax(taxableIncome decimal.Decimal, age int, r *rates.SARates) (*SAIncomeTaxResult, error) {
	if taxableIncome.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "taxable income must not be negative")
	}
	if age < 0 || age > 130 {
		return nil, dErrors.New(dErrors.CodeValidation, "age out of range")
	}

	gross, breakdown := r.IncomeTax.Tax(taxableIncome)

	rebate := r.Rebates.Primary
	if age >= r.Rebates.SecondaryAge {
		rebate = rebate.Add(r.Rebates.Secondary)
	}
	if age >= r.Rebates.TertiaryAge {
		rebate = rebate.Add(r.Rebates.Tertiary)
	}

	return &SAIncomeTaxResult{
		TaxableIncome: taxableIncome,
		GrossTax:      gross,
		Rebate:        rebate,
		TaxDue:        floorZero(gross.Sub(rebate)).Round(2),
		Breakdown:     breakdown,
	}, nil
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
