//go:build unit

package settlement_test

import (
	"testing"

	"rentspace/internal/domain/settlement"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFeePolicy(t *testing.T) {
	_, err := settlement.NewFeePolicy(0.07, 0.03)
	require.NoError(t, err)

	for _, tc := range []struct {
		name   string
		renter float64
		lister float64
	}{
		{name: "negative renter pct", renter: -0.01, lister: 0.03},
		{name: "negative lister pct", renter: 0.07, lister: -0.01},
		{name: "renter pct at 100%", renter: 1.0, lister: 0.03},
		{name: "lister pct at 100%", renter: 0.07, lister: 1.0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := settlement.NewFeePolicy(tc.renter, tc.lister)
			assert.ErrorIs(t, err, settlement.ErrInvalidFeePolicy)
		})
	}
}

func TestFeePolicy_Split(t *testing.T) {
	policy, err := settlement.NewFeePolicy(0.07, 0.03)
	require.NoError(t, err)

	t.Run("reference case: gross 100.00", func(t *testing.T) {
		// platform_fee = 100.00 * 10% = 10.00
		// owner_net    = 100.00 - 100.00*3% = 97.00
		// The renter surcharge is never subtracted from the owner payout.
		got := policy.Split(10000)
		want := settlement.FeeBreakdown{
			GrossCents:       10000,
			PlatformFeeCents: 1000,
			OwnerNetCents:    9700,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Split() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("odd gross rounds each percentage independently", func(t *testing.T) {
		// gross 33.33: renter fee 2.3331 -> 2.33, lister fee 0.9999 -> 1.00
		got := policy.Split(3333)
		assert.Equal(t, int64(233+100), got.PlatformFeeCents)
		assert.Equal(t, int64(3333-100), got.OwnerNetCents)
	})

	t.Run("fee plus net stays consistent with gross", func(t *testing.T) {
		for _, gross := range []int64{1, 99, 1000, 12345, 999999} {
			got := policy.Split(gross)
			listerFee := gross - got.OwnerNetCents
			renterFee := got.PlatformFeeCents - listerFee
			assert.GreaterOrEqual(t, renterFee, int64(0), "gross=%d", gross)
			assert.GreaterOrEqual(t, listerFee, int64(0), "gross=%d", gross)
		}
	})

	t.Run("zero percentages", func(t *testing.T) {
		free, err := settlement.NewFeePolicy(0, 0)
		require.NoError(t, err)

		got := free.Split(10000)
		assert.Equal(t, int64(0), got.PlatformFeeCents)
		assert.Equal(t, int64(10000), got.OwnerNetCents)
	})
}
