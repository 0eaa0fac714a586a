package rates

import (
	"github.com/shopspring/decimal"

	"fiducia/pkg/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func bound(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// DefaultUK returns the UK 2024/25 table. Production deployments load tables
// from the rates file; the default exists so development mode and tests have a
// complete, internally consistent table without external files.
func DefaultUK() *UKRates {
	return &UKRates{
		Year: domain.TaxYear("2024/25"),

		PersonalAllowance:       dec("12570"),
		AllowanceTaperThreshold: dec("100000"),
		IncomeTax: Schedule{
			{Name: "basic", UpTo: bound("37700"), Rate: dec("0.20")},
			{Name: "higher", UpTo: bound("112570"), Rate: dec("0.40")},
			{Name: "additional", Rate: dec("0.45")},
		},

		NI: NIRates{
			PrimaryThreshold:   dec("12570"),
			UpperEarningsLimit: dec("50270"),
			MainRate:           dec("0.08"),
			UpperRate:          dec("0.02"),
		},
		CGT: CGTRates{
			AnnualExempt:  dec("3000"),
			LowerRate:     dec("0.10"),
			HigherRate:    dec("0.20"),
			BasicRateBand: dec("37700"),
		},
		Dividend: DividendRates{
			Allowance: dec("500"),
			Schedule: Schedule{
				{Name: "basic", UpTo: bound("37700"), Rate: dec("0.0875")},
				{Name: "higher", UpTo: bound("112570"), Rate: dec("0.3375")},
				{Name: "additional", Rate: dec("0.3935")},
			},
		},

		IHT: IHTRates{
			NilRateBand:          dec("325000"),
			ResidenceNilRateBand: dec("175000"),
			TaperThreshold:       dec("2000000"),
			RNRBTaperThreshold:   dec("2000000"),
			Rate:                 dec("0.40"),

			AnnualExemption:         dec("3000"),
			SmallGiftLimit:          dec("250"),
			MarriageGiftParent:      dec("5000"),
			MarriageGiftGrandparent: dec("2500"),
			MarriageGiftOther:       dec("1000"),

			TaperRelief: []TaperBand{
				{MinYears: 0, Relief: dec("0")},
				{MinYears: 3, Relief: dec("0.20")},
				{MinYears: 4, Relief: dec("0.40")},
				{MinYears: 5, Relief: dec("0.60")},
				{MinYears: 6, Relief: dec("0.80")},
			},
		},

		SRT: SRTThresholds{
			LeaverMaxDays:             16,
			ArriverMaxDays:            46,
			FullTimeAbroadMaxDays:     91,
			FullTimeAbroadMaxWorkDays: 31,

			AutomaticUKMinDays: 183,
			UKHomeMinDays:      30,

			WorkTieMinDays:         40,
			NinetyDayTieMinDays:    91,
			AccommodationMinNights: 1,

			// Required ties by days-in-UK bracket. An arriver below 46
			// days is caught by the automatic overseas test; the count 5
			// in that row is unattainable (arrivers have at most 4 ties).
			TieBrackets: []TieBracket{
				{MaxDays: 45, LeaverTies: 4, ArriverTies: 5},
				{MaxDays: 90, LeaverTies: 3, ArriverTies: 4},
				{MaxDays: 120, LeaverTies: 2, ArriverTies: 3},
				{MaxDays: 182, LeaverTies: 1, ArriverTies: 2},
			},
		},
	}
}

// DefaultSA returns the SA 2025 year-of-assessment table.
func DefaultSA() *SARates {
	return &SARates{
		Year: domain.TaxYear("2025"),

		IncomeTax: Schedule{
			{Name: "18%", UpTo: bound("237100"), Rate: dec("0.18")},
			{Name: "26%", UpTo: bound("370500"), Rate: dec("0.26")},
			{Name: "31%", UpTo: bound("512800"), Rate: dec("0.31")},
			{Name: "36%", UpTo: bound("673000"), Rate: dec("0.36")},
			{Name: "39%", UpTo: bound("857900"), Rate: dec("0.39")},
			{Name: "41%", UpTo: bound("1817000"), Rate: dec("0.41")},
			{Name: "45%", Rate: dec("0.45")},
		},
		Rebates: SARebates{
			Primary:      dec("17235"),
			Secondary:    dec("9444"),
			Tertiary:     dec("3145"),
			SecondaryAge: 65,
			TertiaryAge:  75,
		},

		Presence: SAPresenceThresholds{
			MinDaysCurrentYear:   91,
			MinDaysEachPriorYear: 91,
			MinTotalPriorDays:    915,
			PriorYears:           5,
		},

		EstateDuty: SAEstateDutyRates{
			Abatement:     dec("3500000"),
			TierThreshold: dec("30000000"),
			LowerRate:     dec("0.20"),
			HigherRate:    dec("0.25"),
		},
	}
}
