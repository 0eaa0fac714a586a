package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"fiducia/internal/estate"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// IHTCalculateRequest is the HTTP request body for POST /v1/estate/iht/calculate.
type IHTCalculateRequest struct {
	TaxYear             string             `json:"tax_year"`
	Assets              []estate.Asset     `json:"assets"`
	Liabilities         []estate.Liability `json:"liabilities,omitempty"`
	RNRBEligible        bool               `json:"rnrb_eligible"`
	TransferableBandPct decimal.Decimal    `json:"transferable_band_pct"`
	Gifts               []estate.Gift      `json:"gifts,omitempty"`
	DeathDate           time.Time          `json:"death_date,omitempty"`

	parsedYear domain.TaxYear
}

// Validate parses the tax year; the engine validates the estate itself.
func (r *IHTCalculateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionUK, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year

	if len(r.Assets) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one asset is required")
	}
	return nil
}

// Year returns the parsed tax year. Valid after Validate.
func (r *IHTCalculateRequest) Year() domain.TaxYear { return r.parsedYear }

// Input maps the request onto the service input.
func (r *IHTCalculateRequest) Input() estate.IHTRequest {
	return estate.IHTRequest{
		Assets:              r.Assets,
		Liabilities:         r.Liabilities,
		RNRBEligible:        r.RNRBEligible,
		TransferableBandPct: r.TransferableBandPct,
		Gifts:               r.Gifts,
		DeathDate:           r.DeathDate,
	}
}

// GiftAnalyzeRequest is the HTTP request body for POST /v1/estate/gifts/analyze.
type GiftAnalyzeRequest struct {
	TaxYear string        `json:"tax_year"`
	Gifts   []estate.Gift `json:"gifts"`

	// DeathDate is the date to measure the seven year window from. Empty
	// means the request time, giving a living "what if I died today" view.
	DeathDate time.Time `json:"death_date,omitempty"`

	parsedYear domain.TaxYear
}

// Validate parses the tax year and requires at least one gift.
func (r *GiftAnalyzeRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionUK, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year

	if len(r.Gifts) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one gift is required")
	}
	return nil
}

// Year returns the parsed tax year. Valid after Validate.
func (r *GiftAnalyzeRequest) Year() domain.TaxYear { return r.parsedYear }

// SADutyCalculateRequest is the HTTP request body for POST /v1/estate/sa-duty/calculate.
type SADutyCalculateRequest struct {
	TaxYear     string             `json:"tax_year"`
	Assets      []estate.Asset     `json:"assets"`
	Liabilities []estate.Liability `json:"liabilities,omitempty"`

	parsedYear domain.TaxYear
}

// Validate parses the year of assessment.
func (r *SADutyCalculateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionSA, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year

	if len(r.Assets) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one asset is required")
	}
	return nil
}

// Year returns the parsed tax year. Valid after Validate.
func (r *SADutyCalculateRequest) Year() domain.TaxYear { return r.parsedYear }
