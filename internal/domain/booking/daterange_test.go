//go:build unit

package booking_test

import (
	"testing"
	"time"

	"rentspace/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	now := day(2026, 3, 10)

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
		errIs error
	}{
		{name: "single day today", start: now, end: now},
		{name: "multi day future", start: day(2026, 3, 12), end: day(2026, 3, 14)},
		{name: "start after end", start: day(2026, 3, 14), end: day(2026, 3, 12), errIs: booking.ErrStartAfterEnd},
		{name: "start in the past", start: day(2026, 3, 9), end: day(2026, 3, 12), errIs: booking.ErrStartInPast},
		{name: "zero dates", errIs: booking.ErrZeroDate},
		{
			name:  "time of day is truncated",
			start: time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 10, 0, 1, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := booking.NewDateRange(tc.start, tc.end, now)
			if tc.errIs != nil {
				require.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, booking.Day(tc.start), r.Start())
			assert.Equal(t, booking.Day(tc.end), r.End())
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	now := day(2026, 3, 1)

	single, err := booking.NewDateRange(day(2026, 3, 12), day(2026, 3, 12), now)
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())

	week, err := booking.NewDateRange(day(2026, 3, 10), day(2026, 3, 16), now)
	require.NoError(t, err)
	assert.Equal(t, 7, week.Days())
}

func TestDateRange_Overlaps(t *testing.T) {
	base := booking.ReconstructDateRange(day(2026, 3, 12), day(2026, 3, 14))

	testCases := []struct {
		name     string
		start    time.Time
		end      time.Time
		overlaps bool
	}{
		{name: "identical", start: day(2026, 3, 12), end: day(2026, 3, 14), overlaps: true},
		{name: "contained", start: day(2026, 3, 13), end: day(2026, 3, 13), overlaps: true},
		{name: "containing", start: day(2026, 3, 10), end: day(2026, 3, 16), overlaps: true},
		{name: "shared start edge", start: day(2026, 3, 10), end: day(2026, 3, 12), overlaps: true},
		{name: "shared end edge", start: day(2026, 3, 14), end: day(2026, 3, 16), overlaps: true},
		{name: "adjacent before", start: day(2026, 3, 10), end: day(2026, 3, 11), overlaps: false},
		{name: "adjacent after", start: day(2026, 3, 15), end: day(2026, 3, 16), overlaps: false},
		{name: "far apart", start: day(2026, 4, 1), end: day(2026, 4, 3), overlaps: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			other := booking.ReconstructDateRange(tc.start, tc.end)
			assert.Equal(t, tc.overlaps, base.Overlaps(other))
			// symmetry
			assert.Equal(t, tc.overlaps, other.Overlaps(base))
		})
	}
}

func TestDateRange_Contains(t *testing.T) {
	r := booking.ReconstructDateRange(day(2026, 3, 12), day(2026, 3, 14))

	assert.True(t, r.Contains(day(2026, 3, 12)))
	assert.True(t, r.Contains(day(2026, 3, 13)))
	assert.True(t, r.Contains(day(2026, 3, 14)))
	assert.False(t, r.Contains(day(2026, 3, 11)))
	assert.False(t, r.Contains(day(2026, 3, 15)))
}
