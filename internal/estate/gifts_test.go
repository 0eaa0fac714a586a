package estate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fiducia/pkg/domain-errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeGiftsExemptions(t *testing.T) {
	death := date(2025, time.June, 1)

	t.Run("spouse and charity gifts are fully exempt", func(t *testing.T) {
		gifts := []Gift{
			{Amount: dec("100000"), Date: date(2024, time.May, 1), Exemption: ExemptionSpouse},
			{Amount: dec("20000"), Date: date(2024, time.May, 2), Exemption: ExemptionCharity},
		}
		a, err := AnalyzeGifts(gifts, death, ihtRates())
		require.NoError(t, err)

		assert.True(t, a.TotalExempt.Equal(dec("120000")))
		assert.True(t, a.TotalChargeable.IsZero())
		assert.False(t, a.Gifts[0].PET)
	})

	t.Run("annual exclusion carries one unused year forward", func(t *testing.T) {
		gifts := []Gift{
			// Uses £2,000 of the 2023/24 allowance.
			{Amount: dec("2000"), Date: date(2023, time.May, 1), Exemption: ExemptionAnnual},
			// Uses the full 2024/25 allowance plus the £1,000 left over
			// from the prior year; £1,000 remains chargeable.
			{Amount: dec("5000"), Date: date(2024, time.May, 1), Exemption: ExemptionAnnual},
		}
		a, err := AnalyzeGifts(gifts, death, ihtRates())
		require.NoError(t, err)

		assert.True(t, a.Gifts[0].ExemptAmount.Equal(dec("2000")))
		assert.True(t, a.Gifts[1].ExemptAmount.Equal(dec("4000")), "got %s", a.Gifts[1].ExemptAmount)
		assert.True(t, a.Gifts[1].ChargeableAmount.Equal(dec("1000")))
		assert.True(t, a.Gifts[1].PET)
	})

	t.Run("small gift exemption is all or nothing", func(t *testing.T) {
		gifts := []Gift{
			{Amount: dec("250"), Date: date(2024, time.May, 1), Exemption: ExemptionSmallGift},
			{Amount: dec("300"), Date: date(2024, time.May, 2), Exemption: ExemptionSmallGift},
		}
		a, err := AnalyzeGifts(gifts, death, ihtRates())
		require.NoError(t, err)

		assert.True(t, a.Gifts[0].ExemptAmount.Equal(dec("250")))
		assert.True(t, a.Gifts[1].ExemptAmount.IsZero())
		assert.True(t, a.Gifts[1].ChargeableAmount.Equal(dec("300")))
	})

	t.Run("marriage gifts are capped by relationship", func(t *testing.T) {
		gifts := []Gift{
			{Amount: dec("8000"), Date: date(2024, time.May, 1), Exemption: ExemptionMarriageParent},
			{Amount: dec("2500"), Date: date(2024, time.May, 2), Exemption: ExemptionMarriageGrandparent},
			{Amount: dec("1500"), Date: date(2024, time.May, 3), Exemption: ExemptionMarriageOther},
		}
		a, err := AnalyzeGifts(gifts, death, ihtRates())
		require.NoError(t, err)

		assert.True(t, a.Gifts[0].ExemptAmount.Equal(dec("5000")))
		assert.True(t, a.Gifts[0].ChargeableAmount.Equal(dec("3000")))
		assert.True(t, a.Gifts[1].ExemptAmount.Equal(dec("2500")))
		assert.True(t, a.Gifts[2].ExemptAmount.Equal(dec("1000")))
	})
}

func TestAnalyzeGiftsTaper(t *testing.T) {
	death := date(2025, time.June, 1)
	gifts := []Gift{
		// Six whole years before death: within the window, 80% relief.
		{Amount: dec("400000"), Date: date(2019, time.January, 15), Exemption: ExemptionNone},
		// Three whole years before death: 20% relief.
		{Amount: dec("100000"), Date: date(2021, time.August, 1), Exemption: ExemptionNone},
		// Eight years before death: outside the window entirely.
		{Amount: dec("50000"), Date: date(2017, time.March, 1), Exemption: ExemptionNone},
	}

	a, err := AnalyzeGifts(gifts, death, ihtRates())
	require.NoError(t, err)

	// Results come back in chronological order.
	require.Len(t, a.Gifts, 3)
	old, first, second := a.Gifts[0], a.Gifts[1], a.Gifts[2]

	assert.False(t, old.WithinWindow)
	assert.True(t, old.TaxDue.IsZero())

	// The earliest in-window gift takes the whole nil-rate band.
	assert.Equal(t, 6, first.YearsSinceGift)
	assert.True(t, first.NRBSheltered.Equal(dec("325000")))
	assert.True(t, first.TaxableAmount.Equal(dec("75000")))
	assert.True(t, first.TaxBeforeRelief.Equal(dec("30000")))
	assert.True(t, first.TaxDue.Equal(dec("6000")), "got %s", first.TaxDue)
	assert.Equal(t, "6+ years", first.TaperBand)

	// The later gift finds no band left.
	assert.Equal(t, 3, second.YearsSinceGift)
	assert.True(t, second.NRBSheltered.IsZero())
	assert.True(t, second.TaxDue.Equal(dec("32000")), "got %s", second.TaxDue)
	assert.Equal(t, "3-4 years", second.TaperBand)

	assert.True(t, a.TotalChargeable.Equal(dec("500000")))
	assert.True(t, a.NRBConsumed.Equal(dec("325000")))
	assert.True(t, a.TotalTaxDue.Equal(dec("38000")))
}

func TestAnalyzeGiftsValidation(t *testing.T) {
	death := date(2025, time.June, 1)

	t.Run("gift after the death date", func(t *testing.T) {
		gifts := []Gift{{Amount: dec("100"), Date: date(2025, time.July, 1), Exemption: ExemptionNone}}
		_, err := AnalyzeGifts(gifts, death, ihtRates())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		gifts := []Gift{{Amount: dec("-100"), Date: date(2024, time.May, 1), Exemption: ExemptionNone}}
		_, err := AnalyzeGifts(gifts, death, ihtRates())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	t.Run("unknown exemption", func(t *testing.T) {
		gifts := []Gift{{Amount: dec("100"), Date: date(2024, time.May, 1), Exemption: "birthday"}}
		_, err := AnalyzeGifts(gifts, death, ihtRates())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestUKGiftYear(t *testing.T) {
	assert.Equal(t, 2023, ukGiftYear(date(2024, time.April, 5)))
	assert.Equal(t, 2024, ukGiftYear(date(2024, time.April, 6)))
	assert.Equal(t, 2024, ukGiftYear(date(2024, time.December, 31)))
}
