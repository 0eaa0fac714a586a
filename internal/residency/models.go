// Package residency determines tax residency status: the UK Statutory
// Residence Test and the SA physical presence test. Evaluation is pure — the
// caller supplies a fact snapshot and the thresholds for the tax year, and
// receives a verdict with the full ordered trail of tests evaluated.
package residency

import (
	dErrors "fiducia/pkg/domain-errors"
)

// Verdict is the outcome of a residency determination.
type Verdict string

const (
	VerdictResident    Verdict = "RESIDENT"
	VerdictNotResident Verdict = "NOT_RESIDENT"
)

// TrailEntry records one evaluated test, in evaluation order. Conclusive
// entries decided the verdict; entries after a conclusive one are never
// evaluated, but every test that ran appears exactly once.
type TrailEntry struct {
	Test       string `json:"test"`
	Outcome    string `json:"outcome"`
	Conclusive bool   `json:"conclusive"`
	Detail     string `json:"detail,omitempty"`
}

// Result is a residency determination with its audit trail.
// Invariant: exactly one verdict; the trail lists every evaluated test in
// evaluation order.
type Result struct {
	Verdict         Verdict      `json:"verdict"`
	DeterminingTest string       `json:"determining_test"`
	TieCount        int          `json:"tie_count,omitempty"`
	Trail           []TrailEntry `json:"trail"`
}

const maxDaysInYear = 366

// SRTInput is the fact snapshot for a UK Statutory Residence Test evaluation.
// Constructed per request; never mutated by the engine.
type SRTInput struct {
	DaysInUK     int
	WorkDaysInUK int

	FullTimeWorkAbroad bool
	FullTimeWorkUK     bool

	HasUKHome       bool
	DaysAtUKHome    int
	HasOverseasHome bool

	// ResidentPriorYears reports UK residence in each of the three prior
	// tax years, most recent first. Determines leaver/arriver status.
	ResidentPriorYears [3]bool

	// DaysInUKPriorTwoYears feeds the 90-day tie, most recent first.
	DaysInUKPriorTwoYears [2]int

	FamilyTie              bool
	AccommodationAvailable bool
	AccommodationNights    int

	// MoreDaysInUKThanAnyOtherCountry feeds the country tie (leavers only).
	MoreDaysInUKThanAnyOtherCountry bool
}

// Leaver reports whether the individual was UK resident in any of the three
// prior tax years.
func (in SRTInput) Leaver() bool {
	return in.ResidentPriorYears[0] || in.ResidentPriorYears[1] || in.ResidentPriorYears[2]
}

// Validate rejects malformed or contradictory fact snapshots. The engine
// never guesses: contradictory tie data fails rather than defaulting.
func (in SRTInput) Validate() error {
	if in.DaysInUK < 0 || in.DaysInUK > maxDaysInYear {
		return dErrors.Newf(dErrors.CodeValidation, "days_in_uk must be between 0 and %d", maxDaysInYear)
	}
	if in.WorkDaysInUK < 0 || in.WorkDaysInUK > in.DaysInUK {
		return dErrors.New(dErrors.CodeValidation, "uk_work_days must be between 0 and days_in_uk")
	}
	if in.DaysAtUKHome < 0 || in.DaysAtUKHome > in.DaysInUK {
		return dErrors.New(dErrors.CodeValidation, "days_at_uk_home must be between 0 and days_in_uk")
	}
	if !in.HasUKHome && in.DaysAtUKHome > 0 {
		return dErrors.New(dErrors.CodeValidation, "days_at_uk_home given without a uk home")
	}
	if in.AccommodationNights < 0 || in.AccommodationNights > maxDaysInYear {
		return dErrors.Newf(dErrors.CodeValidation, "accommodation_nights must be between 0 and %d", maxDaysInYear)
	}
	if !in.AccommodationAvailable && in.AccommodationNights > 0 {
		return dErrors.New(dErrors.CodeValidation, "accommodation_nights given without available accommodation")
	}
	for i, d := range in.DaysInUKPriorTwoYears {
		if d < 0 || d > maxDaysInYear {
			return dErrors.Newf(dErrors.CodeValidation, "prior year %d days must be between 0 and %d", i+1, maxDaysInYear)
		}
	}
	if in.FullTimeWorkAbroad && in.FullTimeWorkUK {
		return dErrors.New(dErrors.CodeValidation, "full-time work abroad and in the UK are mutually exclusive")
	}
	return nil
}

// SAPresenceInput is the fact snapshot for an SA physical presence evaluation.
type SAPresenceInput struct {
	OrdinarilyResident bool
	DaysCurrentYear    int
	// DaysPriorYears holds day counts for the five preceding years of
	// assessment, most recent first.
	DaysPriorYears [5]int
}

// Validate rejects malformed day counts.
func (in SAPresenceInput) Validate() error {
	if in.DaysCurrentYear < 0 || in.DaysCurrentYear > maxDaysInYear {
		return dErrors.Newf(dErrors.CodeValidation, "days_current_year must be between 0 and %d", maxDaysInYear)
	}
	for i, d := range in.DaysPriorYears {
		if d < 0 || d > maxDaysInYear {
			return dErrors.Newf(dErrors.CodeValidation, "prior year %d days must be between 0 and %d", i+1, maxDaysInYear)
		}
	}
	return nil
}
