// Package rates holds the versioned jurisdiction constants every calculation
// depends on: banded schedules, allowances, thresholds and caps, keyed by tax
// year. Tables are loaded from YAML at startup and passed into engines as
// explicit parameters — nothing in the engine packages hard-codes a rate, so
// historical-year recalculation only needs the right table loaded.
package rates

import (
	"github.com/shopspring/decimal"

	"fiducia/pkg/domain"
)

// SRTThresholds carries the day-count and tie thresholds for the UK Statutory
// Residence Test.
type SRTThresholds struct {
	// Automatic overseas test.
	LeaverMaxDays             int // below this, a leaver is automatically non-resident
	ArriverMaxDays            int // below this, an arriver is automatically non-resident
	FullTimeAbroadMaxDays     int // UK day cap while working full time abroad
	FullTimeAbroadMaxWorkDays int

	// Automatic UK test.
	AutomaticUKMinDays int
	UKHomeMinDays      int

	// Ties.
	WorkTieMinDays         int
	NinetyDayTieMinDays    int
	AccommodationMinNights int

	// Sufficient ties lookup: brackets ordered by ascending MaxDays. The
	// required tie count depends on whether the individual is a leaver
	// (resident in any of the prior three years) or an arriver.
	TieBrackets []TieBracket
}

// TieBracket maps a days-in-UK bracket to the tie counts that make someone
// resident. A required count above the number of attainable ties means no tie
// count suffices in that bracket.
type TieBracket struct {
	MaxDays     int
	LeaverTies  int
	ArriverTies int
}

// SAPresenceThresholds carries the SA physical presence test day counts.
type SAPresenceThresholds struct {
	MinDaysCurrentYear   int
	MinDaysEachPriorYear int
	MinTotalPriorDays    int
	PriorYears           int
}

// IHTRates carries UK inheritance tax and lifetime gift constants.
type IHTRates struct {
	NilRateBand          decimal.Decimal
	ResidenceNilRateBand decimal.Decimal
	// TaperThreshold is the net-estate value above which the NRB erodes by
	// £1 for every £2 of excess. RNRBTaperThreshold works identically for
	// the residence band.
	TaperThreshold     decimal.Decimal
	RNRBTaperThreshold decimal.Decimal
	Rate               decimal.Decimal

	// Lifetime gift exemptions.
	AnnualExemption         decimal.Decimal
	SmallGiftLimit          decimal.Decimal
	MarriageGiftParent      decimal.Decimal
	MarriageGiftGrandparent decimal.Decimal
	MarriageGiftOther       decimal.Decimal

	// TaperRelief maps whole years survived since a gift to the relief
	// percentage applied to the tax on that gift. Ordered by MinYears.
	TaperRelief []TaperBand
}

// TaperBand is one step of the PET taper relief table.
type TaperBand struct {
	MinYears int
	Relief   decimal.Decimal // fraction of tax relieved, 0..1
}

// NIRates carries class 1 employee National Insurance constants.
type NIRates struct {
	PrimaryThreshold   decimal.Decimal
	UpperEarningsLimit decimal.Decimal
	MainRate           decimal.Decimal
	UpperRate          decimal.Decimal
}

// CGTRates carries capital gains tax constants.
type CGTRates struct {
	AnnualExempt  decimal.Decimal
	LowerRate     decimal.Decimal
	HigherRate    decimal.Decimal
	BasicRateBand decimal.Decimal // basic-rate headroom measured against taxable income
}

// DividendRates carries dividend tax constants.
type DividendRates struct {
	Allowance decimal.Decimal
	Schedule  Schedule
}

// UKRates is the full UK table for one tax year.
type UKRates struct {
	Year domain.TaxYear

	PersonalAllowance       decimal.Decimal
	AllowanceTaperThreshold decimal.Decimal
	IncomeTax               Schedule

	NI       NIRates
	CGT      CGTRates
	Dividend DividendRates
	IHT      IHTRates
	SRT      SRTThresholds
}

// SARebates carries the age-based SA income tax rebates.
type SARebates struct {
	Primary      decimal.Decimal
	Secondary    decimal.Decimal // from SecondaryAge
	Tertiary     decimal.Decimal // from TertiaryAge
	SecondaryAge int
	TertiaryAge  int
}

// SAEstateDutyRates carries SA estate duty constants.
type SAEstateDutyRates struct {
	Abatement     decimal.Decimal
	TierThreshold decimal.Decimal
	LowerRate     decimal.Decimal
	HigherRate    decimal.Decimal
}

// SARates is the full SA table for one year of assessment.
type SARates struct {
	Year domain.TaxYear

	IncomeTax  Schedule
	Rebates    SARebates
	Presence   SAPresenceThresholds
	EstateDuty SAEstateDutyRates
}
