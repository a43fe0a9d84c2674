package repository

import (
	"context"
	"errors"
	"time"

	"rentspace/internal/domain/booking"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeForeignKeyViolated = "23503"
	pgErrCodeExclusionViolation = "23P01"
)

// BookingRepository issues the booking SQL. Methods take the DBTX so the same
// code runs inside the guarded-insert transaction and in plain reads.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

const insertBookingSQL = `
INSERT INTO bookings (
	id, listing_id, renter_id, owner_id,
	start_date, end_date, total_cents, state, state_reason,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

// Insert persists a pending booking. The bookings_no_overlap exclusion
// constraint is the serialization point for competing date ranges: of two
// concurrent overlapping inserts exactly one commits, the other surfaces
// KindConflict here.
func (r *BookingRepository) Insert(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error {
	_, err := dbtx.Exec(ctx, insertBookingSQL,
		b.ID(), b.ListingID(), b.RenterID(), b.OwnerID(),
		b.Range().Start(), b.Range().End(), b.TotalCents(), b.State().String(), b.StateReason(),
		b.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeExclusionViolation:
				return infra.WrapRepoErr("booking range already occupied", err, infra.KindConflict)
			case pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("duplicate booking id", err, infra.KindDuplicateKey)
			case pgErrCodeForeignKeyViolated:
				return infra.WrapRepoErr("unknown listing", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

const selectBookingSQL = `
SELECT id, listing_id, renter_id, owner_id,
       start_date, end_date, total_cents, state, state_reason,
       payment_intent_id, processor_txn_id, created_at, updated_at
FROM bookings`

func (r *BookingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row := dbtx.QueryRow(ctx, selectBookingSQL+" WHERE id = $1", id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return b, nil
}

const updateBookingStateSQL = `
UPDATE bookings
SET state = $3, state_reason = $4, updated_at = $5
WHERE id = $1 AND state = $2`

// UpdateState is the store-side compare-and-set behind TransitionTo: the row
// moves only if it still holds the expected state. Returns false when another
// caller got there first.
func (r *BookingRepository) UpdateState(ctx context.Context, dbtx db.DBTX, id uuid.UUID, expected, next booking.State, reason string, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, updateBookingStateSQL, id, expected.String(), next.String(), reason, now.UTC())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update booking state", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) SetPaymentIntent(ctx context.Context, dbtx db.DBTX, id uuid.UUID, intentID string) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE bookings SET payment_intent_id = $2, updated_at = now() WHERE id = $1`,
		id, intentID)
	if err != nil {
		return infra.WrapRepoErr("failed to set payment intent", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) SetProcessorTxn(ctx context.Context, dbtx db.DBTX, id uuid.UUID, txnID string) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE bookings SET processor_txn_id = $2, updated_at = now() WHERE id = $1`,
		id, txnID)
	if err != nil {
		return infra.WrapRepoErr("failed to set processor txn", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectOccupyingSQL = `
SELECT id, start_date, end_date
FROM bookings
WHERE listing_id = $1
  AND state IN ('pending', 'awaiting_payment', 'confirmed')
  AND start_date <= $3 AND $2 <= end_date
ORDER BY start_date`

// ListOccupying returns the bookings whose ranges intersect the given one.
// The WHERE clause encodes the same inclusive-day predicate as
// booking.DateRange.Overlaps.
func (r *BookingRepository) ListOccupying(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, dateRange booking.DateRange) ([]booking.Ref, error) {
	rows, err := dbtx.Query(ctx, selectOccupyingSQL, listingID, dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list occupying bookings", err)
	}
	defer rows.Close()

	var refs []booking.Ref
	for rows.Next() {
		var (
			id         uuid.UUID
			start, end time.Time
		)
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupying booking", err)
		}
		refs = append(refs, booking.Ref{ID: id, Range: booking.ReconstructDateRange(start, end)})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read occupying bookings", err)
	}
	return refs, nil
}

const selectOverdueSQL = `
SELECT id FROM bookings
WHERE state = $1 AND updated_at < $2
ORDER BY updated_at
LIMIT $3`

// ListOverdue finds bookings that have sat in the given state past the hold
// window. The sweeper resolves each through the normal transition path.
func (r *BookingRepository) ListOverdue(ctx context.Context, dbtx db.DBTX, state booking.State, cutoff time.Time, limit int32) ([]uuid.UUID, error) {
	rows, err := dbtx.Query(ctx, selectOverdueSQL, state.String(), cutoff.UTC(), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list overdue bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan overdue booking", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read overdue bookings", err)
	}
	return ids, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, listingID, renterID, ownerID  uuid.UUID
		start, end, createdAt, updatedAt  time.Time
		totalCents                        int64
		state, stateReason                string
		paymentIntentID, processorTxnID   *string
	)
	err := row.Scan(
		&id, &listingID, &renterID, &ownerID,
		&start, &end, &totalCents, &state, &stateReason,
		&paymentIntentID, &processorTxnID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(
		id, listingID, renterID, ownerID,
		booking.ReconstructDateRange(start, end),
		totalCents,
		booking.State(state), stateReason,
		paymentIntentID, processorTxnID,
		createdAt, updatedAt,
	), nil
}
