package request

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Booking dates travel as calendar-day strings (2006-01-02); the service has
// no notion of times inside a day.
type CreateBookingRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	StartDate string    `json:"start_date" binding:"required"`
	EndDate   string    `json:"end_date" binding:"required"`
	// QuotedTotalCents is what the client showed the renter. It never feeds
	// the stored total; a mismatch with the server quote is only logged.
	QuotedTotalCents *int64 `json:"quoted_total_cents,omitempty"`
}

func (r CreateBookingRequest) ParseDates() (start, end time.Time, err error) {
	start, err = time.Parse(time.DateOnly, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(time.DateOnly, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

type RejectBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r RejectBookingRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r CancelBookingRequest) TrimmedReason() string {
	return strings.TrimSpace(r.Reason)
}
