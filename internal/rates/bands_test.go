package rates

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleTax(t *testing.T) {
	sched := Schedule{
		{Name: "basic", UpTo: bound("37700"), Rate: dec("0.20")},
		{Name: "higher", UpTo: bound("112570"), Rate: dec("0.40")},
		{Name: "additional", Rate: dec("0.45")},
	}
	require.NoError(t, sched.Validate())

	t.Run("zero and negative amounts charge nothing", func(t *testing.T) {
		total, breakdown := sched.Tax(decimal.Zero)
		assert.True(t, total.IsZero())
		assert.Empty(t, breakdown)

		total, _ = sched.Tax(dec("-500"))
		assert.True(t, total.IsZero())
	})

	t.Run("amount within first band", func(t *testing.T) {
		total, breakdown := sched.Tax(dec("10000"))
		assert.True(t, total.Equal(dec("2000")), "got %s", total)
		require.Len(t, breakdown, 1)
		assert.Equal(t, "basic", breakdown[0].Band)
	})

	t.Run("amount exactly at a band boundary stays in the lower band", func(t *testing.T) {
		total, breakdown := sched.Tax(dec("37700"))
		assert.True(t, total.Equal(dec("7540")), "got %s", total)
		assert.Len(t, breakdown, 1)
	})

	t.Run("amount spanning all bands", func(t *testing.T) {
		// 37700*0.20 + 74870*0.40 + 7430*0.45 = 7540 + 29948 + 3343.50
		total, breakdown := sched.Tax(dec("120000"))
		assert.True(t, total.Equal(dec("40831.50")), "got %s", total)
		require.Len(t, breakdown, 3)
		assert.True(t, breakdown[2].Amount.Equal(dec("7430")))
	})
}

func TestScheduleValidate(t *testing.T) {
	t.Run("empty schedule rejected", func(t *testing.T) {
		assert.Error(t, Schedule{}.Validate())
	})

	t.Run("non-increasing bounds rejected", func(t *testing.T) {
		s := Schedule{
			{UpTo: bound("100"), Rate: dec("0.1")},
			{UpTo: bound("100"), Rate: dec("0.2")},
		}
		assert.Error(t, s.Validate())
	})

	t.Run("unbounded band before the end rejected", func(t *testing.T) {
		s := Schedule{
			{Rate: dec("0.1")},
			{UpTo: bound("100"), Rate: dec("0.2")},
		}
		assert.Error(t, s.Validate())
	})

	t.Run("rate above one rejected", func(t *testing.T) {
		s := Schedule{{Rate: dec("1.5")}}
		assert.Error(t, s.Validate())
	})
}

func TestTaperedAllowance(t *testing.T) {
	nrb := dec("325000")
	threshold := dec("2000000")

	t.Run("at or below threshold keeps the full allowance", func(t *testing.T) {
		got := TaperedAllowance(nrb, dec("2000000"), threshold)
		assert.True(t, got.Equal(nrb))

		got = TaperedAllowance(nrb, dec("1500000"), threshold)
		assert.True(t, got.Equal(nrb))
	})

	t.Run("one pound lost per two pounds of excess", func(t *testing.T) {
		// £2,500,000 estate: £500,000 over, so £250,000 reduction.
		got := TaperedAllowance(nrb, dec("2500000"), threshold)
		assert.True(t, got.Equal(dec("75000")), "got %s", got)
	})

	t.Run("floors at zero", func(t *testing.T) {
		got := TaperedAllowance(nrb, dec("5000000"), threshold)
		assert.True(t, got.IsZero())
	})
}
