package notifier

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the booking lifecycle moments that trigger a notification.
type EventType string

const (
	EventBookingRequested EventType = "booking.requested"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventPaymentFailed    EventType = "booking.payment_failed"
)

// Event is the payload delivered to each recipient. RecipientID keys the
// message so per-user ordering is preserved by partitioned sinks.
type Event struct {
	Type        EventType `json:"type"`
	BookingID   uuid.UUID `json:"booking_id"`
	ListingID   uuid.UUID `json:"listing_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}
