package handler

import (
	"github.com/shopspring/decimal"

	"fiducia/internal/tax"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// UKEstimateRequest is the HTTP request body for POST /v1/tax/uk/estimate.
type UKEstimateRequest struct {
	TaxYear      string          `json:"tax_year"`
	Income       decimal.Decimal `json:"income"`
	Dividends    decimal.Decimal `json:"dividends"`
	CapitalGains decimal.Decimal `json:"capital_gains"`

	parsedYear domain.TaxYear
}

// Validate parses the tax year and rejects negative amounts.
func (r *UKEstimateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionUK, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year

	if r.Income.IsNegative() || r.Dividends.IsNegative() || r.CapitalGains.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "amounts must not be negative")
	}
	return nil
}

// Year returns the parsed tax year. Valid after Validate.
func (r *UKEstimateRequest) Year() domain.TaxYear { return r.parsedYear }

// Input maps the request onto the service input.
func (r *UKEstimateRequest) Input() tax.UKEstimateInput {
	return tax.UKEstimateInput{
		Income:       r.Income,
		Dividends:    r.Dividends,
		CapitalGains: r.CapitalGains,
	}
}

// SAEstimateRequest is the HTTP request body for POST /v1/tax/sa/estimate.
type SAEstimateRequest struct {
	TaxYear       string          `json:"tax_year"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Age           int             `json:"age"`

	parsedYear domain.TaxYear
}

// Validate parses the year of assessment and sanity-checks the inputs.
func (r *SAEstimateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionSA, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year

	if r.TaxableIncome.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "taxable_income must not be negative")
	}
	if r.Age < 0 || r.Age > 130 {
		return dErrors.New(dErrors.CodeValidation, "age out of range")
	}
	return nil
}

// Year returns the parsed tax year. Valid after Validate.
func (r *SAEstimateRequest) Year() domain.TaxYear { return r.parsedYear }
