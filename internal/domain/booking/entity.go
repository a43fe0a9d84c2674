package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelfBooking        = errors.New("renter and owner must differ")
	ErrNonPositiveAmount  = errors.New("total amount must be positive")
	ErrIllegalTransition  = errors.New("illegal state transition")
	ErrTerminalState      = errors.New("booking is in a terminal state")
)

// Booking is the reservation aggregate. The owner identity is denormalized
// at creation time so later transitions never race a listing handover.
type Booking struct {
	id              uuid.UUID
	listingID       uuid.UUID
	renterID        uuid.UUID
	ownerID         uuid.UUID
	dateRange       DateRange
	totalCents      int64
	state           State
	stateReason     string
	paymentIntentID *string
	processorTxnID  *string
	createdAt       time.Time
	updatedAt       time.Time
}

// New creates a booking ready for the guarded insert. The booking is born
// pending: the requested -> pending edge is the successful insert itself.
func New(listingID, renterID, ownerID uuid.UUID, dateRange DateRange, totalCents int64, now time.Time) (*Booking, error) {
	if renterID == ownerID {
		return nil, ErrSelfBooking
	}
	if totalCents <= 0 {
		return nil, ErrNonPositiveAmount
	}
	now = now.UTC()
	return &Booking{
		id:         uuid.New(),
		listingID:  listingID,
		renterID:   renterID,
		ownerID:    ownerID,
		dateRange:  dateRange,
		totalCents: totalCents,
		state:      StatePending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func Reconstruct(
	id, listingID, renterID, ownerID uuid.UUID,
	dateRange DateRange,
	totalCents int64,
	state State,
	stateReason string,
	paymentIntentID, processorTxnID *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		listingID:       listingID,
		renterID:        renterID,
		ownerID:         ownerID,
		dateRange:       dateRange,
		totalCents:      totalCents,
		state:           state,
		stateReason:     stateReason,
		paymentIntentID: paymentIntentID,
		processorTxnID:  processorTxnID,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) ListingID() uuid.UUID     { return b.listingID }
func (b *Booking) RenterID() uuid.UUID      { return b.renterID }
func (b *Booking) OwnerID() uuid.UUID       { return b.ownerID }
func (b *Booking) Range() DateRange         { return b.dateRange }
func (b *Booking) TotalCents() int64        { return b.totalCents }
func (b *Booking) State() State             { return b.state }
func (b *Booking) StateReason() string      { return b.stateReason }
func (b *Booking) PaymentIntentID() *string { return b.paymentIntentID }
func (b *Booking) ProcessorTxnID() *string  { return b.processorTxnID }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }

func (b *Booking) Ref() Ref {
	return Ref{ID: b.id, Range: b.dateRange}
}

// TransitionTo validates and applies a state change.
//
// Re-applying the current state is a no-op success so that at-least-once
// deliveries (payment callbacks, sweeper duplicates) stay safe. A terminal
// state is never left.
func (b *Booking) TransitionTo(next State, reason string, now time.Time) error {
	if b.state == next {
		return nil
	}
	if b.state.IsTerminal() {
		return ErrTerminalState
	}
	if !CanTransition(b.state, next) {
		return ErrIllegalTransition
	}
	b.state = next
	b.stateReason = reason
	b.updatedAt = now.UTC()
	return nil
}
