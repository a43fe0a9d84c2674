package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentspace/internal/domain/booking"
	"rentspace/internal/domain/listing"
	"rentspace/internal/domain/settlement"
	"rentspace/internal/infra/db"
	"rentspace/internal/infra/notifier"
	"rentspace/internal/infra/payment"
)

// Write-side ports. The DBTX parameter lets one repository instance serve
// both pooled reads and the guarded-insert transaction.
type BookingRepository interface {
	Insert(ctx context.Context, dbtx db.DBTX, b *booking.Booking) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*booking.Booking, error)
	UpdateState(ctx context.Context, dbtx db.DBTX, id uuid.UUID, expected, next booking.State, reason string, now time.Time) (bool, error)
	SetPaymentIntent(ctx context.Context, dbtx db.DBTX, id uuid.UUID, intentID string) error
	SetProcessorTxn(ctx context.Context, dbtx db.DBTX, id uuid.UUID, txnID string) error
	ListOccupying(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, dateRange booking.DateRange) ([]booking.Ref, error)
	ListOverdue(ctx context.Context, dbtx db.DBTX, state booking.State, cutoff time.Time, limit int32) ([]uuid.UUID, error)
}

type ListingRepository interface {
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*listing.Listing, error)
}

type CalendarRepository interface {
	ListBlockedDays(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, dateRange booking.DateRange) ([]time.Time, error)
	Block(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, day time.Time) error
	Unblock(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, day time.Time) error
}

type SettlementRepository interface {
	InsertIntent(ctx context.Context, dbtx db.DBTX, intent *settlement.Intent) error
	FindIntentByID(ctx context.Context, dbtx db.DBTX, intentID string) (*settlement.Intent, error)
	FindIntentByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*settlement.Intent, error)
	UpdateIntentState(ctx context.Context, dbtx db.DBTX, intentID string, expected, next settlement.IntentState, processorTxnID *string, now time.Time) (bool, error)
	RecordTransaction(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, intentID, kind string, amountCents int64, now time.Time) error
}

// PaymentProcessor is the external settlement rail. Implementations must
// honor the idempotency key on intent creation.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req payment.CreateIntentRequest) (*payment.IntentResult, error)
}

// EventDispatcher delivers lifecycle notifications without blocking the
// command that emits them.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event notifier.Event)
}
