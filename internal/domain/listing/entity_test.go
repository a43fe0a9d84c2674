//go:build unit

package listing_test

import (
	"testing"

	"rentspace/internal/domain/listing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PriceValidation(t *testing.T) {
	t.Run("positive price is accepted", func(t *testing.T) {
		l, err := listing.New(uuid.New(), uuid.New(), 1, listing.StatusActive)
		require.NoError(t, err)
		assert.Equal(t, int64(1), l.PricePerDayCents())
	})

	t.Run("zero price is rejected", func(t *testing.T) {
		_, err := listing.New(uuid.New(), uuid.New(), 0, listing.StatusActive)
		require.ErrorIs(t, err, listing.ErrInvalidPrice)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		_, err := listing.New(uuid.New(), uuid.New(), -100, listing.StatusActive)
		require.ErrorIs(t, err, listing.ErrInvalidPrice)
	})
}

func TestListing_Quote(t *testing.T) {
	l, err := listing.New(uuid.New(), uuid.New(), 10000, listing.StatusActive)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), l.Quote(1))
	assert.Equal(t, int64(40000), l.Quote(4))
}

func TestListing_IsActive(t *testing.T) {
	active, err := listing.New(uuid.New(), uuid.New(), 10000, listing.StatusActive)
	require.NoError(t, err)
	assert.True(t, active.IsActive())

	inactive, err := listing.New(uuid.New(), uuid.New(), 10000, listing.StatusInactive)
	require.NoError(t, err)
	assert.False(t, inactive.IsActive())
}
