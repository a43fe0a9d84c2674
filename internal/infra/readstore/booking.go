package readstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"rentspace/internal/domain/booking"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"
	"rentspace/internal/usecase/queries"
)

// BookingReadStore serves the booking read models straight off the write
// tables. A dedicated read schema is not worth the sync machinery at this
// scale.
type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const selectBookingViewSQL = `
SELECT id, listing_id, renter_id, owner_id,
       start_date, end_date, total_cents, state, state_reason,
       payment_intent_id, created_at, updated_at
FROM bookings
WHERE id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var view queries.BookingView
	err := r.db.QueryRow(ctx, selectBookingViewSQL, id).Scan(
		&view.ID, &view.ListingID, &view.RenterID, &view.OwnerID,
		&view.StartDate, &view.EndDate, &view.TotalCents, &view.State, &view.StateReason,
		&view.PaymentIntentID, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking view", err)
	}
	return &view, nil
}

const selectBookingListSQL = `
SELECT id, listing_id, start_date, end_date, total_cents, state, created_at
FROM bookings
WHERE renter_id = $1
ORDER BY created_at DESC
LIMIT $2`

func (r *BookingReadStore) FindByRenterID(ctx context.Context, renterID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, selectBookingListSQL, renterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking views", err)
	}
	defer rows.Close()

	var out []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(&item.ID, &item.ListingID, &item.StartDate, &item.EndDate,
			&item.TotalCents, &item.State, &item.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking views", err)
	}
	return out, nil
}

const selectBlockedDaysSQL = `
SELECT day FROM blocked_dates
WHERE listing_id = $1 AND day BETWEEN $2 AND $3
ORDER BY day`

func (r *BookingReadStore) BlockedDaysIn(ctx context.Context, listingID uuid.UUID, dateRange booking.DateRange) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, selectBlockedDaysSQL, listingID, dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocked days", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked day", err)
		}
		days = append(days, booking.Day(day))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocked days", err)
	}
	return days, nil
}

const selectOccupyingRangesSQL = `
SELECT id, start_date, end_date
FROM bookings
WHERE listing_id = $1
  AND state IN ('pending', 'awaiting_payment', 'confirmed')
  AND start_date <= $3 AND $2 <= end_date
ORDER BY start_date`

func (r *BookingReadStore) OccupyingRanges(ctx context.Context, listingID uuid.UUID, dateRange booking.DateRange) ([]booking.Ref, error) {
	rows, err := r.db.Query(ctx, selectOccupyingRangesSQL, listingID, dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupied ranges", err)
	}
	defer rows.Close()

	var refs []booking.Ref
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end time.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupied range", err)
		}
		refs = append(refs, booking.Ref{ID: id, Range: booking.ReconstructDateRange(start, end)})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read occupied ranges", err)
	}
	return refs, nil
}
