//go:build unit || e2e

package builder

import (
	"time"

	dombooking "rentspace/internal/domain/booking"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ListingID  uuid.UUID
	RenterID   uuid.UUID
	OwnerID    uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	TotalCents int64
	State      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Now()
	start := now.AddDate(0, 0, 7).Truncate(24 * time.Hour)
	return &BookingBuilder{
		ListingID:  uuid.New(),
		RenterID:   uuid.New(),
		OwnerID:    uuid.New(),
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
		TotalCents: 40000,
		State:      "pending",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithState(state string) *BookingBuilder {
	b.State = state
	return b
}

func (b *BookingBuilder) WithDates(start, end time.Time) *BookingBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	dr := dombooking.ReconstructDateRange(b.StartDate, b.EndDate)
	return dombooking.New(b.ListingID, b.RenterID, b.OwnerID, dr, b.TotalCents, b.CreatedAt)
}

func (b *BookingBuilder) BuildCreateCommand() commands.CreateBookingCommand {
	return commands.CreateBookingCommand{
		ListingID: b.ListingID,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
	}
}

func (b *BookingBuilder) BuildCreateRequestMap() map[string]any {
	return map[string]any{
		"listing_id": b.ListingID.String(),
		"start_date": b.StartDate.Format(time.DateOnly),
		"end_date":   b.EndDate.Format(time.DateOnly),
	}
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	return &queries.BookingView{
		ID:         uuid.New(),
		ListingID:  b.ListingID,
		RenterID:   b.RenterID,
		OwnerID:    b.OwnerID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalCents: b.TotalCents,
		State:      b.State,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:         uuid.New(),
		ListingID:  b.ListingID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalCents: b.TotalCents,
		State:      b.State,
		CreatedAt:  b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildIntentView(bookingID uuid.UUID) *commands.IntentView {
	fee := b.TotalCents / 10
	return &commands.IntentView{
		IntentID:         "pi_" + uuid.NewString()[:8],
		BookingID:        bookingID,
		GrossCents:       b.TotalCents,
		PlatformFeeCents: fee,
		OwnerNetCents:    b.TotalCents - fee,
		State:            "created",
	}
}
