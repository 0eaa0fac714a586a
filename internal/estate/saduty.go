package estate

import (
	"github.com/shopspring/decimal"

	"fiducia/internal/rates"
)

// SADutyResult breaks down an SA estate duty liability.
type SADutyResult struct {
	Valuation Valuation `json:"valuation"`

	Abatement     decimal.Decimal    `json:"abatement"`
	DutiableValue decimal.Decimal    `json:"dutiable_value"`
	DutyDue       decimal.Decimal    `json:"duty_due"`
	Breakdown     []rates.BandCharge `json:"breakdown"`
}

// CalculateSADuty computes SA estate duty: the abatement comes off the net
// estate and the dutiable remainder is charged at the lower rate up to the
// tier threshold and the higher rate above it.
func CalculateSADuty(assets []Asset, liabilities []Liability, r rates.SAEstateDutyRates) (*SADutyResult, error) {
	v, err := ValueEstate(assets, liabilities)
	if err != nil {
		return nil, err
	}

	dutiable := floorZero(v.NetEstate.Sub(r.Abatement))

	threshold := r.TierThreshold
	schedule := rates.Schedule{
		{Name: "standard", UpTo: &threshold, Rate: r.LowerRate},
		{Name: "excess", Rate: r.HigherRate},
	}
	due, breakdown := schedule.Tax(dutiable)

	return &SADutyResult{
		Valuation:     *v,
		Abatement:     r.Abatement,
		DutiableValue: dutiable,
		DutyDue:       due.Round(2),
		Breakdown:     breakdown,
	}, nil
}
