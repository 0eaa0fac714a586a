// Package estate values a decedent's estate and computes death taxes: UK
// inheritance tax with tapering nil-rate bands, lifetime gift analysis with
// PET taper relief, and SA estate duty. All engines are pure functions of the
// supplied snapshots and the tax year's rate table.
package estate

import (
	"time"

	"github.com/shopspring/decimal"

	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

// AssetClass tags an estate asset.
type AssetClass string

const (
	AssetProperty    AssetClass = "property"
	AssetInvestments AssetClass = "investments"
	AssetCash        AssetClass = "cash"
	AssetBusiness    AssetClass = "business"
	AssetPension     AssetClass = "pension"
	AssetPersonal    AssetClass = "personal"
	AssetOther       AssetClass = "other"
)

// IsValid checks if the asset class is one of the supported enum values.
func (c AssetClass) IsValid() bool {
	switch c {
	case AssetProperty, AssetInvestments, AssetCash, AssetBusiness, AssetPension, AssetPersonal, AssetOther:
		return true
	}
	return false
}

// Ownership determines how an asset enters the taxable aggregation.
type Ownership string

const (
	// OwnershipIndividual counts the full value.
	OwnershipIndividual Ownership = "individual"
	// OwnershipJoint counts half the value.
	OwnershipJoint Ownership = "joint"
	// OwnershipSpouseExempt is excluded from the taxable aggregation but
	// reported separately.
	OwnershipSpouseExempt Ownership = "spouse_exempt"
)

// IsValid checks if the ownership is one of the supported enum values.
func (o Ownership) IsValid() bool {
	switch o {
	case OwnershipIndividual, OwnershipJoint, OwnershipSpouseExempt:
		return true
	}
	return false
}

// Asset is one line of an estate snapshot. Supplied per valuation request,
// never mutated by the engine.
type Asset struct {
	Class       AssetClass      `json:"class"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Ownership   Ownership       `json:"ownership"`
}

// LiabilityClass tags an estate liability.
type LiabilityClass string

const (
	LiabilityMortgage LiabilityClass = "mortgage"
	LiabilityLoan     LiabilityClass = "loan"
	LiabilityOther    LiabilityClass = "other"
)

// IsValid checks if the liability class is one of the supported enum values.
func (c LiabilityClass) IsValid() bool {
	switch c {
	case LiabilityMortgage, LiabilityLoan, LiabilityOther:
		return true
	}
	return false
}

// Liability is one debt of the estate.
type Liability struct {
	Class       LiabilityClass  `json:"class"`
	Description string          `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
}

// ExemptionType is the exemption claimed for a lifetime gift, tested in
// precedence order: spouse > charity > annual > small gift > marriage.
type ExemptionType string

const (
	ExemptionNone                ExemptionType = "none"
	ExemptionSpouse              ExemptionType = "spouse"
	ExemptionCharity             ExemptionType = "charity"
	ExemptionAnnual              ExemptionType = "annual_exclusion"
	ExemptionSmallGift           ExemptionType = "small_gift"
	ExemptionMarriageParent      ExemptionType = "marriage_parent"
	ExemptionMarriageGrandparent ExemptionType = "marriage_grandparent"
	ExemptionMarriageOther       ExemptionType = "marriage_other"
)

// IsValid checks if the exemption type is one of the supported enum values.
func (e ExemptionType) IsValid() bool {
	switch e {
	case ExemptionNone, ExemptionSpouse, ExemptionCharity, ExemptionAnnual,
		ExemptionSmallGift, ExemptionMarriageParent, ExemptionMarriageGrandparent, ExemptionMarriageOther:
		return true
	}
	return false
}

// Gift is one recorded lifetime gift.
// Invariant: amount >= 0 and date <= the valuation/death date.
type Gift struct {
	ID        domain.GiftID   `json:"id,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Recipient string          `json:"recipient,omitempty"`
	Exemption ExemptionType   `json:"exemption"`
}

// Validate rejects malformed gifts against a death or valuation date.
func (g Gift) Validate(deathDate time.Time) error {
	if g.Amount.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "gift amount must not be negative")
	}
	if g.Date.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "gift date is required")
	}
	if g.Date.After(deathDate) {
		return dErrors.New(dErrors.CodeValidation, "gift date must not be after the death date")
	}
	if !g.Exemption.IsValid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown exemption type %q", g.Exemption)
	}
	return nil
}

func validateAssets(assets []Asset) error {
	for i, a := range assets {
		if a.Value.IsNegative() {
			return dErrors.Newf(dErrors.CodeValidation, "asset %d: value must not be negative", i)
		}
		if !a.Class.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "asset %d: unknown class %q", i, a.Class)
		}
		if !a.Ownership.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "asset %d: unknown ownership %q", i, a.Ownership)
		}
	}
	return nil
}

func validateLiabilities(liabilities []Liability) error {
	for i, l := range liabilities {
		if l.Value.IsNegative() {
			return dErrors.Newf(dErrors.CodeValidation, "liability %d: value must not be negative", i)
		}
		if !l.Class.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "liability %d: unknown class %q", i, l.Class)
		}
	}
	return nil
}
