package repository

import (
	"context"
	"errors"
	"time"

	"rentspace/internal/domain/booking"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// CalendarRepository manages owner-blocked dates on a listing.
type CalendarRepository struct{}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{}
}

const selectBlockedDaysSQL = `
SELECT day FROM blocked_dates
WHERE listing_id = $1 AND day BETWEEN $2 AND $3
ORDER BY day`

// ListBlockedDays returns the blocked calendar days falling inside the range.
func (r *CalendarRepository) ListBlockedDays(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, dateRange booking.DateRange) ([]time.Time, error) {
	rows, err := dbtx.Query(ctx, selectBlockedDaysSQL, listingID, dateRange.Start(), dateRange.End())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocked dates", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked date", err)
		}
		days = append(days, booking.Day(day))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocked dates", err)
	}
	return days, nil
}

// Block inserts one blocked day. The (listing_id, day) primary key gives the
// set semantics; re-blocking an already blocked day is KindDuplicateKey.
func (r *CalendarRepository) Block(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, day time.Time) error {
	_, err := dbtx.Exec(ctx,
		`INSERT INTO blocked_dates (listing_id, day) VALUES ($1, $2)`,
		listingID, booking.Day(day))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("date already blocked", err, infra.KindDuplicateKey)
			case pgErrCodeForeignKeyViolated:
				return infra.WrapRepoErr("unknown listing", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to block date", err)
	}
	return nil
}

// Unblock removes one blocked day; removing a day that is not blocked is not
// an error.
func (r *CalendarRepository) Unblock(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, day time.Time) error {
	_, err := dbtx.Exec(ctx,
		`DELETE FROM blocked_dates WHERE listing_id = $1 AND day = $2`,
		listingID, booking.Day(day))
	if err != nil {
		return infra.WrapRepoErr("failed to unblock date", err)
	}
	return nil
}
