package estate

import (
	"github.com/shopspring/decimal"

	"fiducia/internal/rates"
	dErrors "fiducia/pkg/domain-errors"
)

// Valuation aggregates an estate snapshot. Joint assets enter at half value;
// spouse-exempt assets are excluded from the taxable aggregation and reported
// separately.
type Valuation struct {
	GrossEstate  decimal.Decimal `json:"gross_estate"`
	SpouseExempt decimal.Decimal `json:"spouse_exempt"`
	Liabilities  decimal.Decimal `json:"liabilities"`
	NetEstate    decimal.Decimal `json:"net_estate"`
}

// ValueEstate aggregates assets and liabilities into a valuation. The net
// estate is floored at zero when liabilities exceed the gross estate.
func ValueEstate(assets []Asset, liabilities []Liability) (*Valuation, error) {
	if err := validateAssets(assets); err != nil {
		return nil, err
	}
	if err := validateLiabilities(liabilities); err != nil {
		return nil, err
	}

	v := &Valuation{
		GrossEstate:  decimal.Zero,
		SpouseExempt: decimal.Zero,
		Liabilities:  decimal.Zero,
	}
	half := decimal.NewFromInt(2)
	for _, a := range assets {
		switch a.Ownership {
		case OwnershipSpouseExempt:
			v.SpouseExempt = v.SpouseExempt.Add(a.Value)
		case OwnershipJoint:
			v.GrossEstate = v.GrossEstate.Add(a.Value.Div(half))
		default:
			v.GrossEstate = v.GrossEstate.Add(a.Value)
		}
	}
	for _, l := range liabilities {
		v.Liabilities = v.Liabilities.Add(l.Value)
	}
	v.NetEstate = floorZero(v.GrossEstate.Sub(v.Liabilities))
	return v, nil
}

// IHTInput is one inheritance tax calculation request.
type IHTInput struct {
	Assets      []Asset
	Liabilities []Liability

	// RNRBEligible is true when a qualifying residence passes to direct
	// descendants.
	RNRBEligible bool

	// TransferableBandPct is the percentage (0-100) of a predeceased
	// spouse's unused bands claimed on top of the standard amounts.
	TransferableBandPct decimal.Decimal

	// ChargeableGifts is the cumulative value of chargeable transfers in
	// the seven years before death; it consumes nil-rate band before the
	// estate does.
	ChargeableGifts decimal.Decimal
}

// IHTResult breaks down an inheritance tax liability.
type IHTResult struct {
	Valuation Valuation `json:"valuation"`

	NilRateBand          decimal.Decimal `json:"nil_rate_band"`
	ResidenceNilRateBand decimal.Decimal `json:"residence_nil_rate_band"`
	TransferredBands     decimal.Decimal `json:"transferred_bands"`
	GiftNRBConsumed      decimal.Decimal `json:"gift_nrb_consumed"`
	TotalBands           decimal.Decimal `json:"total_bands"`

	TaxableEstate decimal.Decimal    `json:"taxable_estate"`
	TaxDue        decimal.Decimal    `json:"tax_due"`
	Breakdown     []rates.BandCharge `json:"breakdown"`
}

// CalculateIHT computes UK inheritance tax on an estate snapshot. Both
// nil-rate bands taper by £1 for every £2 of net estate above their
// thresholds, transferred bands are added as a percentage of the standard
// amounts, chargeable lifetime gifts consume nil-rate band ahead of the
// estate, and the excess is charged at the flat rate with a single final
// rounding.
func CalculateIHT(in IHTInput, r rates.IHTRates) (*IHTResult, error) {
	if in.TransferableBandPct.IsNegative() || in.TransferableBandPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, dErrors.New(dErrors.CodeValidation, "transferable band percentage must be between 0 and 100")
	}
	if in.ChargeableGifts.IsNegative() {
		return nil, dErrors.New(dErrors.CodeValidation, "chargeable gifts must not be negative")
	}

	v, err := ValueEstate(in.Assets, in.Liabilities)
	if err != nil {
		return nil, err
	}

	nrb := rates.TaperedAllowance(r.NilRateBand, v.NetEstate, r.TaperThreshold)
	rnrb := decimal.Zero
	if in.RNRBEligible {
		rnrb = rates.TaperedAllowance(r.ResidenceNilRateBand, v.NetEstate, r.RNRBTaperThreshold)
	}

	pct := in.TransferableBandPct.Div(decimal.NewFromInt(100))
	transferred := r.NilRateBand.Mul(pct)
	if in.RNRBEligible {
		transferred = transferred.Add(r.ResidenceNilRateBand.Mul(pct))
	}

	giftConsumed := decimal.Min(in.ChargeableGifts, nrb.Add(transferred))
	totalBands := floorZero(nrb.Add(rnrb).Add(transferred).Sub(giftConsumed))

	sheltered := decimal.Min(v.NetEstate, totalBands)
	taxable := v.NetEstate.Sub(sheltered)
	due := taxable.Mul(r.Rate)

	breakdown := []rates.BandCharge{
		{Band: "nil rate", Amount: sheltered, Rate: decimal.Zero, Charged: decimal.Zero},
	}
	if taxable.IsPositive() {
		breakdown = append(breakdown, rates.BandCharge{
			Band: "chargeable", Amount: taxable, Rate: r.Rate, Charged: due,
		})
	}

	return &IHTResult{
		Valuation:            *v,
		NilRateBand:          nrb,
		ResidenceNilRateBand: rnrb,
		TransferredBands:     transferred,
		GiftNRBConsumed:      giftConsumed,
		TotalBands:           totalBands,
		TaxableEstate:        taxable,
		TaxDue:               due.Round(2),
		Breakdown:            breakdown,
	}, nil
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
