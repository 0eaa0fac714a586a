package tax

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiducia/internal/rates"
	dErrors "fiducia/pkg/domain-errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUKIncomeTax(t *testing.T) {
	r := rates.DefaultUK()

	t.Run("income within the allowance pays nothing", func(t *testing.T) {
		res, err := UKIncomeTax(dec("10000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.IsZero())
		assert.True(t, res.TaxableIncome.IsZero())
	})

	t.Run("basic rate income", func(t *testing.T) {
		// £30,000: taxable 17,430 at 20% = £3,486.
		res, err := UKIncomeTax(dec("30000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.Equal(dec("3486")), "got %s", res.TaxDue)
		assert.True(t, res.PersonalAllowance.Equal(dec("12570")))
	})

	t.Run("allowance tapers above the threshold", func(t *testing.T) {
		// £110,000: £10,000 over, allowance reduced by £5,000 to £7,570.
		res, err := UKIncomeTax(dec("110000"), r)
		require.NoError(t, err)
		assert.True(t, res.PersonalAllowance.Equal(dec("7570")), "got %s", res.PersonalAllowance)
		// Taxable 102,430: 37,700 @ 20% + 64,730 @ 40% = 7,540 + 25,892.
		assert.True(t, res.TaxDue.Equal(dec("33432")), "got %s", res.TaxDue)
	})

	t.Run("allowance fully removed for very high income", func(t *testing.T) {
		res, err := UKIncomeTax(dec("130000"), r)
		require.NoError(t, err)
		assert.True(t, res.PersonalAllowance.IsZero())
	})

	t.Run("negative income rejected", func(t *testing.T) {
		_, err := UKIncomeTax(dec("-1"), r)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func TestUKNationalInsurance(t *testing.T) {
	r := rates.DefaultUK()

	t.Run("below primary threshold pays nothing", func(t *testing.T) {
		res, err := UKNationalInsurance(dec("12000"), r)
		require.NoError(t, err)
		assert.True(t, res.Due.IsZero())
	})

	t.Run("main rate between thresholds", func(t *testing.T) {
		// £30,000: (30,000 - 12,570) * 8% = £1,394.40.
		res, err := UKNationalInsurance(dec("30000"), r)
		require.NoError(t, err)
		assert.True(t, res.Due.Equal(dec("1394.40")), "got %s", res.Due)
	})

	t.Run("upper rate above the upper earnings limit", func(t *testing.T) {
		// £60,000: (50,270-12,570)*8% + (60,000-50,270)*2% = 3,016 + 194.60.
		res, err := UKNationalInsurance(dec("60000"), r)
		require.NoError(t, err)
		assert.True(t, res.Due.Equal(dec("3210.60")), "got %s", res.Due)
	})
}

func TestUKDividendTax(t *testing.T) {
	r := rates.DefaultUK()

	t.Run("dividends within the allowance pay nothing", func(t *testing.T) {
		res, err := UKDividendTax(dec("400"), dec("20000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.IsZero())
	})

	t.Run("dividends stack on top of other income", func(t *testing.T) {
		// Other taxable income fills £37,000 of the basic band, so only
		// £700 of the dividends sits in the basic band; the rest is at
		// the higher dividend rate.
		res, err := UKDividendTax(dec("10500"), dec("37000"), r)
		require.NoError(t, err)
		// Taxable dividends 10,000: 700 @ 8.75% + 9,300 @ 33.75%
		// = 61.25 + 3,138.75 = 3,200.
		assert.True(t, res.TaxDue.Equal(dec("3200")), "got %s", res.TaxDue)
	})
}

func TestUKCapitalGains(t *testing.T) {
	r := rates.DefaultUK()

	t.Run("gain within annual exempt amount pays nothing", func(t *testing.T) {
		res, err := UKCapitalGains(dec("2500"), dec("20000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.IsZero())
	})

	t.Run("gain split across basic headroom", func(t *testing.T) {
		// Taxable income 30,000 leaves 7,700 basic headroom.
		// Gain 20,000 - 3,000 exempt = 17,000: 7,700 @ 10% + 9,300 @ 20%.
		res, err := UKCapitalGains(dec("20000"), dec("30000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.Equal(dec("2630")), "got %s", res.TaxDue)
	})

	t.Run("no headroom means the full taxable gain is at the higher rate", func(t *testing.T) {
		res, err := UKCapitalGains(dec("13000"), dec("60000"), r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.Equal(dec("2000")), "got %s", res.TaxDue)
	})
}

func TestSAIncomeTax(t *testing.T) {
	r := rates.DefaultSA()

	t.Run("tax below the primary rebate is zero", func(t *testing.T) {
		res, err := SAIncomeTax(dec("90000"), 40, r)
		require.NoError(t, err)
		// 90,000 * 18% = 16,200 gross, under the 17,235 primary rebate.
		assert.True(t, res.TaxDue.IsZero())
	})

	t.Run("working-age taxpayer gets the primary rebate only", func(t *testing.T) {
		// 300,000: 237,100*18% + 62,900*26% = 42,678 + 16,354 = 59,032.
		res, err := SAIncomeTax(dec("300000"), 40, r)
		require.NoError(t, err)
		assert.True(t, res.TaxDue.Equal(dec("41797")), "got %s", res.TaxDue)
	})

	t.Run("secondary and tertiary rebates accumulate with age", func(t *testing.T) {
		under65, err := SAIncomeTax(dec("300000"), 64, r)
		require.NoError(t, err)
		over65, err := SAIncomeTax(dec("300000"), 65, r)
		require.NoError(t, err)
		over75, err := SAIncomeTax(dec("300000"), 75, r)
		require.NoError(t, err)

		assert.True(t, over65.TaxDue.LessThan(under65.TaxDue))
		assert.True(t, over75.TaxDue.LessThan(over65.TaxDue))
		assert.True(t, under65.TaxDue.Sub(over65.TaxDue).Equal(dec("9444")))
	})

	t.Run("negative income rejected", func(t *testing.T) {
		_, err := SAIncomeTax(dec("-100"), 40, r)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}
