package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentspace/internal/domain/booking"
	"rentspace/internal/pkg/clock"
	"rentspace/internal/pkg/errs"
)

var ErrInvalidAvailabilityRange = errs.New("invalid availability range")

// BookedRange exposes an occupied span without revealing who holds it.
type BookedRange struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AvailabilityView struct {
	ListingID    uuid.UUID     `json:"listing_id"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
	Available    bool          `json:"available"`
	BlockedDays  []time.Time   `json:"blocked_days"`
	BookedRanges []BookedRange `json:"booked_ranges"`
}

type AvailabilityQueries interface {
	Check(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*AvailabilityView, error)
}

type AvailabilityViewRepo interface {
	BlockedDaysIn(ctx context.Context, listingID uuid.UUID, dateRange booking.DateRange) ([]time.Time, error)
	OccupyingRanges(ctx context.Context, listingID uuid.UUID, dateRange booking.DateRange) ([]booking.Ref, error)
}

type availabilityQueriesImpl struct {
	repo  AvailabilityViewRepo
	clock clock.Clock
}

func NewAvailabilityQueries(repo AvailabilityViewRepo, clk clock.Clock) AvailabilityQueries {
	return &availabilityQueriesImpl{repo: repo, clock: clk}
}

// Check reports whether every day in [start, end] is free of blocked days
// and of bookings in a date-occupying state. The two reads are not atomic
// with any subsequent create; the authoritative check happens inside the
// booking transaction.
func (q *availabilityQueriesImpl) Check(ctx context.Context, listingID uuid.UUID, start, end time.Time) (*AvailabilityView, error) {
	dateRange, err := booking.NewDateRange(start, end, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidAvailabilityRange)
	}

	blockedDays, err := q.repo.BlockedDaysIn(ctx, listingID, dateRange)
	if err != nil {
		return nil, err
	}

	refs, err := q.repo.OccupyingRanges(ctx, listingID, dateRange)
	if err != nil {
		return nil, err
	}

	booked := make([]BookedRange, len(refs))
	for i, ref := range refs {
		booked[i] = BookedRange{StartDate: ref.Range.Start(), EndDate: ref.Range.End()}
	}

	return &AvailabilityView{
		ListingID:    listingID,
		StartDate:    dateRange.Start(),
		EndDate:      dateRange.End(),
		Available:    len(blockedDays) == 0 && len(booked) == 0,
		BlockedDays:  blockedDays,
		BookedRanges: booked,
	}, nil
}
