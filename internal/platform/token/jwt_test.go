package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "fiducia/pkg/domain-errors"
	"fiducia/pkg/domain"
)

func TestValidatorRoundTrip(t *testing.T) {
	v := NewValidator("test-signing-key")
	userID := domain.UserID(uuid.New())

	tok, err := v.Issue(userID, time.Hour)
	require.NoError(t, err)

	claims, err := v.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidatorRejections(t *testing.T) {
	v := NewValidator("test-signing-key")
	userID := domain.UserID(uuid.New())

	t.Run("expired token", func(t *testing.T) {
		tok, err := v.Issue(userID, -time.Minute)
		require.NoError(t, err)

		_, err = v.ValidateToken(tok)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	t.Run("wrong key", func(t *testing.T) {
		other := NewValidator("another-key")
		tok, err := other.Issue(userID, time.Hour)
		require.NoError(t, err)

		_, err = v.ValidateToken(tok)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.ValidateToken("not-a-jwt")
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	})
}
