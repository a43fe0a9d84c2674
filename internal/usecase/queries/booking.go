package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentspace/internal/infra"
	"rentspace/internal/pkg/errs"
)

var ErrBookingAccessDenied = errs.New("booking access denied")

// Read models (DTO for read side)
type BookingView struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listing_id"`
	RenterID        uuid.UUID `json:"renter_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TotalCents      int64     `json:"total_cents"`
	State           string    `json:"state"`
	StateReason     *string   `json:"state_reason,omitempty"`
	PaymentIntentID *string   `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalCents int64     `json:"total_cents"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID, limit int) ([]*BookingListItem, error)
}

type BookingViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenterID(ctx context.Context, renterID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type bookingQueriesImpl struct {
	repo BookingViewRepo
}

func NewBookingQueries(repo BookingViewRepo) BookingQueries {
	return &bookingQueriesImpl{repo: repo}
}

// GetByID returns the booking only to its renter or the listing owner.
// Anyone else gets the same not-found error as a missing booking so the
// endpoint does not leak booking existence.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor uuid.UUID, id uuid.UUID) (*BookingView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.RenterID != actor && view.OwnerID != actor {
		return nil, infra.WrapRepoErr("booking not found", ErrBookingAccessDenied, infra.KindNotFound)
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID, limit int) ([]*BookingListItem, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return q.repo.FindByRenterID(ctx, renterID, int32(limit))
}
