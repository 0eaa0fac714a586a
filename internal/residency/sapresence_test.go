package residency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiducia/internal/rates"
	dErrors "fiducia/pkg/domain-errors"
)

func saThresholds() rates.SAPresenceThresholds {
	return rates.DefaultSA().Presence
}

func TestEvaluateSAPresence(t *testing.T) {
	t.Run("ordinarily resident is decisive regardless of day counts", func(t *testing.T) {
		in := SAPresenceInput{OrdinarilyResident: true}
		res, err := EvaluateSAPresence(in, saThresholds())
		require.NoError(t, err)

		assert.Equal(t, VerdictResident, res.Verdict)
		assert.Equal(t, TestOrdinarilyResident, res.DeterminingTest)
		require.Len(t, res.Trail, 1)
		assert.True(t, res.Trail[0].Conclusive)
	})

	t.Run("all presence conditions met is resident", func(t *testing.T) {
		in := SAPresenceInput{
			DaysCurrentYear: 120,
			DaysPriorYears:  [5]int{200, 190, 185, 180, 175}, // total 930
		}
		res, err := EvaluateSAPresence(in, saThresholds())
		require.NoError(t, err)

		assert.Equal(t, VerdictResident, res.Verdict)
		// Full rationale: ordinary residence plus all three conditions.
		require.Len(t, res.Trail, 4)
	})

	t.Run("one prior year below 91 days fails but all conditions still recorded", func(t *testing.T) {
		in := SAPresenceInput{
			DaysCurrentYear: 120,
			DaysPriorYears:  [5]int{200, 190, 185, 180, 60},
		}
		res, err := EvaluateSAPresence(in, saThresholds())
		require.NoError(t, err)

		assert.Equal(t, VerdictNotResident, res.Verdict)
		require.Len(t, res.Trail, 4)
		assert.Equal(t, "not met", res.Trail[2].Outcome)
		// The aggregate condition was still evaluated after the failure.
		assert.Equal(t, "not met", res.Trail[3].Outcome)
	})

	t.Run("aggregate below 915 fails even when each year clears 91", func(t *testing.T) {
		in := SAPresenceInput{
			DaysCurrentYear: 120,
			DaysPriorYears:  [5]int{100, 100, 100, 100, 100}, // total 500
		}
		res, err := EvaluateSAPresence(in, saThresholds())
		require.NoError(t, err)

		assert.Equal(t, VerdictNotResident, res.Verdict)
		assert.Equal(t, "met", res.Trail[2].Outcome)
		assert.Equal(t, "not met", res.Trail[3].Outcome)
	})

	t.Run("current year below 91 fails", func(t *testing.T) {
		in := SAPresenceInput{
			DaysCurrentYear: 30,
			DaysPriorYears:  [5]int{200, 200, 200, 200, 200},
		}
		res, err := EvaluateSAPresence(in, saThresholds())
		require.NoError(t, err)
		assert.Equal(t, VerdictNotResident, res.Verdict)
	})
}

func TestEvaluateSAPresenceValidation(t *testing.T) {
	_, err := EvaluateSAPresence(SAPresenceInput{DaysCurrentYear: 400}, saThresholds())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))

	_, err = EvaluateSAPresence(SAPresenceInput{DaysPriorYears: [5]int{0, 0, -1, 0, 0}}, saThresholds())
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeValidation, dErrors.CodeOf(err))
}
