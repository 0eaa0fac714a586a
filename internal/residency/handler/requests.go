package handler

import (
	"fiducia/internal/residency"
	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// UKEvaluateRequest is the HTTP request body for POST /v1/residency/uk/evaluate.
type UKEvaluateRequest struct {
	TaxYear string `json:"tax_year"`

	DaysInUK     int `json:"days_in_uk"`
	WorkDaysInUK int `json:"work_days_in_uk"`

	FullTimeWorkAbroad bool `json:"full_time_work_abroad"`
	FullTimeWorkUK     bool `json:"full_time_work_uk"`

	HasUKHome       bool `json:"has_uk_home"`
	DaysAtUKHome    int  `json:"days_at_uk_home"`
	HasOverseasHome bool `json:"has_overseas_home"`

	ResidentPriorYears    [3]bool `json:"resident_prior_years"`
	DaysInUKPriorTwoYears [2]int  `json:"days_in_uk_prior_two_years"`

	FamilyTie                       bool `json:"family_tie"`
	AccommodationAvailable          bool `json:"accommodation_available"`
	AccommodationNights             int  `json:"accommodation_nights"`
	MoreDaysInUKThanAnyOtherCountry bool `json:"more_days_in_uk_than_any_other_country"`

	parsedYear domain.TaxYear
}

// Validate parses the tax year and checks the fact snapshot.
func (r *UKEvaluateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionUK, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year
	return r.Input().Validate()
}

// Year returns the parsed tax year. Valid after Validate.
func (r *UKEvaluateRequest) Year() domain.TaxYear { return r.parsedYear }

// Input maps the request body onto the engine's fact snapshot.
func (r *UKEvaluateRequest) Input() residency.SRTInput {
	return residency.SRTInput{
		DaysInUK:                        r.DaysInUK,
		WorkDaysInUK:                    r.WorkDaysInUK,
		FullTimeWorkAbroad:              r.FullTimeWorkAbroad,
		FullTimeWorkUK:                  r.FullTimeWorkUK,
		HasUKHome:                       r.HasUKHome,
		DaysAtUKHome:                    r.DaysAtUKHome,
		HasOverseasHome:                 r.HasOverseasHome,
		ResidentPriorYears:              r.ResidentPriorYears,
		DaysInUKPriorTwoYears:           r.DaysInUKPriorTwoYears,
		FamilyTie:                       r.FamilyTie,
		AccommodationAvailable:          r.AccommodationAvailable,
		AccommodationNights:             r.AccommodationNights,
		MoreDaysInUKThanAnyOtherCountry: r.MoreDaysInUKThanAnyOtherCountry,
	}
}

// SAEvaluateRequest is the HTTP request body for POST /v1/residency/sa/evaluate.
type SAEvaluateRequest struct {
	TaxYear string `json:"tax_year"`

	OrdinarilyResident bool   `json:"ordinarily_resident"`
	DaysCurrentYear    int    `json:"days_current_year"`
	DaysPriorYears     [5]int `json:"days_prior_years"`

	parsedYear domain.TaxYear
}

// Validate parses the year of assessment and checks the day counts.
func (r *SAEvaluateRequest) Validate() error {
	year, err := domain.ParseTaxYear(domain.JurisdictionSA, r.TaxYear)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax_year")
	}
	r.parsedYear = year
	return r.Input().Validate()
}

// Year returns the parsed tax year. Valid after Validate.
func (r *SAEvaluateRequest) Year() domain.TaxYear { return r.parsedYear }

// Input maps the request body onto the engine's fact snapshot.
func (r *SAEvaluateRequest) Input() residency.SAPresenceInput {
	return residency.SAPresenceInput{
		OrdinarilyResident: r.OrdinarilyResident,
		DaysCurrentYear:    r.DaysCurrentYear,
		DaysPriorYears:     r.DaysPriorYears,
	}
}
