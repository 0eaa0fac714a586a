package rates

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// The file format keeps every monetary value and rate as a string so amounts
// survive the YAML round trip without binary floating point.

type rateFile struct {
	UK []ukRatesYAML `yaml:"uk"`
	SA []saRatesYAML `yaml:"sa"`
}

type bandYAML struct {
	Name string `yaml:"name"`
	UpTo string `yaml:"up_to"` // empty = unbounded
	Rate string `yaml:"rate"`
}

type ukRatesYAML struct {
	Year                    string     `yaml:"year"`
	PersonalAllowance       string     `yaml:"personal_allowance"`
	AllowanceTaperThreshold string     `yaml:"allowance_taper_threshold"`
	IncomeTax               []bandYAML `yaml:"income_tax"`

	NI struct {
		PrimaryThreshold   string `yaml:"primary_threshold"`
		UpperEarningsLimit string `yaml:"upper_earnings_limit"`
		MainRate           string `yaml:"main_rate"`
		UpperRate          string `yaml:"upper_rate"`
	} `yaml:"national_insurance"`

	CGT struct {
		AnnualExempt  string `yaml:"annual_exempt"`
		LowerRate     string `yaml:"lower_rate"`
		HigherRate    string `yaml:"higher_rate"`
		BasicRateBand string `yaml:"basic_rate_band"`
	} `yaml:"capital_gains"`

	Dividend struct {
		Allowance string     `yaml:"allowance"`
		Bands     []bandYAML `yaml:"bands"`
	} `yaml:"dividend"`

	IHT struct {
		NilRateBand          string `yaml:"nil_rate_band"`
		ResidenceNilRateBand string `yaml:"residence_nil_rate_band"`
		TaperThreshold       string `yaml:"taper_threshold"`
		RNRBTaperThreshold   string `yaml:"rnrb_taper_threshold"`
		Rate                 string `yaml:"rate"`

		AnnualExemption         string `yaml:"annual_exemption"`
		SmallGiftLimit          string `yaml:"small_gift_limit"`
		MarriageGiftParent      string `yaml:"marriage_gift_parent"`
		MarriageGiftGrandparent string `yaml:"marriage_gift_grandparent"`
		MarriageGiftOther       string `yaml:"marriage_gift_other"`

		TaperRelief []struct {
			MinYears int    `yaml:"min_years"`
			Relief   string `yaml:"relief"`
		} `yaml:"taper_relief"`
	} `yaml:"inheritance_tax"`

	SRT struct {
		LeaverMaxDays             int `yaml:"leaver_max_days"`
		ArriverMaxDays            int `yaml:"arriver_max_days"`
		FullTimeAbroadMaxDays     int `yaml:"full_time_abroad_max_days"`
		FullTimeAbroadMaxWorkDays int `yaml:"full_time_abroad_max_work_days"`
		AutomaticUKMinDays        int `yaml:"automatic_uk_min_days"`
		UKHomeMinDays             int `yaml:"uk_home_min_days"`
		WorkTieMinDays            int `yaml:"work_tie_min_days"`
		NinetyDayTieMinDays       int `yaml:"ninety_day_tie_min_days"`
		AccommodationMinNights    int `yaml:"accommodation_min_nights"`

		TieBrackets []struct {
			MaxDays     int `yaml:"max_days"`
			LeaverTies  int `yaml:"leaver_ties"`
			ArriverTies int `yaml:"arriver_ties"`
		} `yaml:"tie_brackets"`
	} `yaml:"srt"`
}

type saRatesYAML struct {
	Year      string     `yaml:"year"`
	IncomeTax []bandYAML `yaml:"income_tax"`

	Rebates struct {
		Primary      string `yaml:"primary"`
		Secondary    string `yaml:"secondary"`
		Tertiary     string `yaml:"tertiary"`
		SecondaryAge int    `yaml:"secondary_age"`
		TertiaryAge  int    `yaml:"tertiary_age"`
	} `yaml:"rebates"`

	Presence struct {
		MinDaysCurrentYear   int `yaml:"min_days_current_year"`
		MinDaysEachPriorYear int `yaml:"min_days_each_prior_year"`
		MinTotalPriorDays    int `yaml:"min_total_prior_days"`
		PriorYears           int `yaml:"prior_years"`
	} `yaml:"presence"`

	EstateDuty struct {
		Abatement     string `yaml:"abatement"`
		TierThreshold string `yaml:"tier_threshold"`
		LowerRate     string `yaml:"lower_rate"`
		HigherRate    string `yaml:"higher_rate"`
	} `yaml:"estate_duty"`
}

// LoadFile parses a rates YAML file into a registry.
// Errors: CodeConfiguration for unreadable files, malformed YAML, unparsable
// amounts, or schedules that fail validation.
func LoadFile(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("read rates file %s", path))
	}
	return Load(raw)
}

// Load parses rates YAML into a registry.
func Load(raw []byte) (*Registry, error) {
	var file rateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "parse rates file")
	}

	reg := NewRegistry()
	for _, u := range file.UK {
		table, err := u.toRates()
		if err != nil {
			return nil, err
		}
		reg.PutUK(table)
	}
	for _, s := range file.SA {
		table, err := s.toRates()
		if err != nil {
			return nil, err
		}
		reg.PutSA(table)
	}
	return reg, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, dErrors.Newf(dErrors.CodeConfiguration, "%s: invalid amount %q", field, s)
	}
	return d, nil
}

func parseSchedule(field string, bands []bandYAML) (Schedule, error) {
	s := make(Schedule, 0, len(bands))
	for _, b := range bands {
		rate, err := parseAmount(field+".rate", b.Rate)
		if err != nil {
			return nil, err
		}
		band := Band{Name: b.Name, Rate: rate}
		if b.UpTo != "" {
			upTo, err := parseAmount(field+".up_to", b.UpTo)
			if err != nil {
				return nil, err
			}
			band.UpTo = &upTo
		}
		s = append(s, band)
	}
	if err := s.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, field)
	}
	return s, nil
}

func (u ukRatesYAML) toRates() (*UKRates, error) {
	year, err := domain.ParseTaxYear(domain.JurisdictionUK, u.Year)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "uk rates")
	}

	out := &UKRates{Year: year}

	fields := []struct {
		name string
		dst  *decimal.Decimal
		src  string
	}{
		{"personal_allowance", &out.PersonalAllowance, u.PersonalAllowance},
		{"allowance_taper_threshold", &out.AllowanceTaperThreshold, u.AllowanceTaperThreshold},
		{"ni.primary_threshold", &out.NI.PrimaryThreshold, u.NI.PrimaryThreshold},
		{"ni.upper_earnings_limit", &out.NI.UpperEarningsLimit, u.NI.UpperEarningsLimit},
		{"ni.main_rate", &out.NI.MainRate, u.NI.MainRate},
		{"ni.upper_rate", &out.NI.UpperRate, u.NI.UpperRate},
		{"cgt.annual_exempt", &out.CGT.AnnualExempt, u.CGT.AnnualExempt},
		{"cgt.lower_rate", &out.CGT.LowerRate, u.CGT.LowerRate},
		{"cgt.higher_rate", &out.CGT.HigherRate, u.CGT.HigherRate},
		{"cgt.basic_rate_band", &out.CGT.BasicRateBand, u.CGT.BasicRateBand},
		{"dividend.allowance", &out.Dividend.Allowance, u.Dividend.Allowance},
		{"iht.nil_rate_band", &out.IHT.NilRateBand, u.IHT.NilRateBand},
		{"iht.residence_nil_rate_band", &out.IHT.ResidenceNilRateBand, u.IHT.ResidenceNilRateBand},
		{"iht.taper_threshold", &out.IHT.TaperThreshold, u.IHT.TaperThreshold},
		{"iht.rnrb_taper_threshold", &out.IHT.RNRBTaperThreshold, u.IHT.RNRBTaperThreshold},
		{"iht.rate", &out.IHT.Rate, u.IHT.Rate},
		{"iht.annual_exemption", &out.IHT.AnnualExemption, u.IHT.AnnualExemption},
		{"iht.small_gift_limit", &out.IHT.SmallGiftLimit, u.IHT.SmallGiftLimit},
		{"iht.marriage_gift_parent", &out.IHT.MarriageGiftParent, u.IHT.MarriageGiftParent},
		{"iht.marriage_gift_grandparent", &out.IHT.MarriageGiftGrandparent, u.IHT.MarriageGiftGrandparent},
		{"iht.marriage_gift_other", &out.IHT.MarriageGiftOther, u.IHT.MarriageGiftOther},
	}
	for _, f := range fields {
		d, err := parseAmount(f.name, f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = d
	}

	if out.IncomeTax, err = parseSchedule("income_tax", u.IncomeTax); err != nil {
		return nil, err
	}
	if out.Dividend.Schedule, err = parseSchedule("dividend.bands", u.Dividend.Bands); err != nil {
		return nil, err
	}

	for _, t := range u.IHT.TaperRelief {
		relief, err := parseAmount("iht.taper_relief.relief", t.Relief)
		if err != nil {
			return nil, err
		}
		out.IHT.TaperRelief = append(out.IHT.TaperRelief, TaperBand{MinYears: t.MinYears, Relief: relief})
	}
	if len(out.IHT.TaperRelief) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "iht.taper_relief: no bands")
	}

	out.SRT = SRTThresholds{
		LeaverMaxDays:             u.SRT.LeaverMaxDays,
		ArriverMaxDays:            u.SRT.ArriverMaxDays,
		FullTimeAbroadMaxDays:     u.SRT.FullTimeAbroadMaxDays,
		FullTimeAbroadMaxWorkDays: u.SRT.FullTimeAbroadMaxWorkDays,
		AutomaticUKMinDays:        u.SRT.AutomaticUKMinDays,
		UKHomeMinDays:             u.SRT.UKHomeMinDays,
		WorkTieMinDays:            u.SRT.WorkTieMinDays,
		NinetyDayTieMinDays:       u.SRT.NinetyDayTieMinDays,
		AccommodationMinNights:    u.SRT.AccommodationMinNights,
	}
	for _, b := range u.SRT.TieBrackets {
		out.SRT.TieBrackets = append(out.SRT.TieBrackets, TieBracket{
			MaxDays:     b.MaxDays,
			LeaverTies:  b.LeaverTies,
			ArriverTies: b.ArriverTies,
		})
	}
	if len(out.SRT.TieBrackets) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "srt.tie_brackets: no brackets")
	}

	return out, nil
}

func (s saRatesYAML) toRates() (*SARates, error) {
	year, err := domain.ParseTaxYear(domain.JurisdictionSA, s.Year)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "sa rates")
	}

	out := &SARates{Year: year}

	if out.IncomeTax, err = parseSchedule("sa.income_tax", s.IncomeTax); err != nil {
		return nil, err
	}

	fields := []struct {
		name string
		dst  *decimal.Decimal
		src  string
	}{
		{"sa.rebates.primary", &out.Rebates.Primary, s.Rebates.Primary},
		{"sa.rebates.secondary", &out.Rebates.Secondary, s.Rebates.Secondary},
		{"sa.rebates.tertiary", &out.Rebates.Tertiary, s.Rebates.Tertiary},
		{"sa.estate_duty.abatement", &out.EstateDuty.Abatement, s.EstateDuty.Abatement},
		{"sa.estate_duty.tier_threshold", &out.EstateDuty.TierThreshold, s.EstateDuty.TierThreshold},
		{"sa.estate_duty.lower_rate", &out.EstateDuty.LowerRate, s.EstateDuty.LowerRate},
		{"sa.estate_duty.higher_rate", &out.EstateDuty.HigherRate, s.EstateDuty.HigherRate},
	}
	for _, f := range fields {
		d, err := parseAmount(f.name, f.src)
		if err != nil {
			return nil, err
		}
		*f.dst = d
	}

	out.Rebates.SecondaryAge = s.Rebates.SecondaryAge
	out.Rebates.TertiaryAge = s.Rebates.TertiaryAge

	out.Presence = SAPresenceThresholds{
		MinDaysCurrentYear:   s.Presence.MinDaysCurrentYear,
		MinDaysEachPriorYear: s.Presence.MinDaysEachPriorYear,
		MinTotalPriorDays:    s.Presence.MinTotalPriorDays,
		PriorYears:           s.Presence.PriorYears,
	}

	return out, nil
}
