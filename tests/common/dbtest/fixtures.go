//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// CreateTestListing inserts an active listing and returns its id.
func CreateTestListing(t *testing.T, db DBLike, ownerID uuid.UUID, pricePerDayCents int64) uuid.UUID {
	t.Helper()

	listingID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO listings (id, owner_id, title, price_per_day_cents, status) VALUES ($1, $2, $3, $4, 'active')",
		listingID, ownerID, "Test Listing", pricePerDayCents)
	require.NoError(t, err)
	return listingID
}

// DeactivateListing flips the listing to inactive.
func DeactivateListing(t *testing.T, db DBLike, listingID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE listings SET status = 'inactive' WHERE id = $1", listingID)
	require.NoError(t, err)
}

// CreateTestBooking inserts a booking in the given state, bypassing the
// command path. Useful for seeding transitions.
func CreateTestBooking(t *testing.T, db DBLike, listingID, renterID, ownerID uuid.UUID, start, end time.Time, state string) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, listing_id, renter_id, owner_id, start_date, end_date, total_cents, state, state_reason)
		VALUES ($1, $2, $3, $4, $5, $6, 10000, $7, '')`,
		bookingID, listingID, renterID, ownerID, start, end, state)
	require.NoError(t, err)
	return bookingID
}

// BackdateBooking pushes updated_at into the past so sweeps treat the
// booking as overdue.
func BackdateBooking(t *testing.T, db DBLike, bookingID uuid.UUID, age time.Duration) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"UPDATE bookings SET updated_at = now() - $2::interval WHERE id = $1",
		bookingID, fmt.Sprintf("%d seconds", int(age.Seconds())))
	require.NoError(t, err)
}

// BlockDay inserts an owner-blocked day for the listing.
func BlockDay(t *testing.T, db DBLike, listingID uuid.UUID, day time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO blocked_dates (listing_id, day) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		listingID, day)
	require.NoError(t, err)
}

// CreateTestIntent inserts a payment intent row in the given state, bypassing
// the command path. The ledger stays empty; seed transactions separately if a
// test needs them.
func CreateTestIntent(t *testing.T, db DBLike, intentID string, bookingID uuid.UUID, grossCents int64, state string) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO payment_intents (id, booking_id, gross_cents, platform_fee_cents, owner_net_cents, state)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		intentID, bookingID, grossCents, grossCents/10, grossCents-grossCents*3/100, state)
	require.NoError(t, err)
}

// IntentState reads the current intent state column for assertions.
func IntentState(t *testing.T, db DBLike, intentID string) string {
	t.Helper()

	var state string
	err := db.QueryRow(context.Background(),
		"SELECT state FROM payment_intents WHERE id = $1", intentID).Scan(&state)
	require.NoError(t, err)
	return state
}

// BookingState reads the current state column for assertions.
func BookingState(t *testing.T, db DBLike, bookingID uuid.UUID) string {
	t.Helper()

	var state string
	err := db.QueryRow(context.Background(),
		"SELECT state FROM bookings WHERE id = $1", bookingID).Scan(&state)
	require.NoError(t, err)
	return state
}

// TransactionKinds returns the audit trail kinds for a booking in recorded order.
func TransactionKinds(t *testing.T, pool *pgxpool.Pool, bookingID uuid.UUID) []string {
	t.Helper()

	rows, err := pool.Query(context.Background(),
		"SELECT kind FROM transactions WHERE booking_id = $1 ORDER BY created_at", bookingID)
	require.NoError(t, err)
	defer rows.Close()

	var kinds []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		kinds = append(kinds, k)
	}
	require.NoError(t, rows.Err())
	return kinds
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates all public tables so each test starts clean.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}
	return nil
}
