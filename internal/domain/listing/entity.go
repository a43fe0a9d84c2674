package listing

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidPrice = errors.New("price per day must be positive")

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Listing is a read-only snapshot of the marketplace listing row. The
// booking core never mutates listings; it only needs the owner, the status
// gate and the per-day price to quote a total.
type Listing struct {
	id                uuid.UUID
	ownerID           uuid.UUID
	pricePerDayCents  int64
	status            Status
}

func New(id, ownerID uuid.UUID, pricePerDayCents int64, status Status) (*Listing, error) {
	if pricePerDayCents <= 0 {
		return nil, ErrInvalidPrice
	}
	return &Listing{
		id:               id,
		ownerID:          ownerID,
		pricePerDayCents: pricePerDayCents,
		status:           status,
	}, nil
}

func (l *Listing) ID() uuid.UUID           { return l.id }
func (l *Listing) OwnerID() uuid.UUID      { return l.ownerID }
func (l *Listing) PricePerDayCents() int64 { return l.pricePerDayCents }
func (l *Listing) Status() Status          { return l.status }

func (l *Listing) IsActive() bool {
	return l.status == StatusActive
}

// Quote computes the server-side total for a stay of the given length.
func (l *Listing) Quote(days int) int64 {
	return l.pricePerDayCents * int64(days)
}
