package settlement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrIntentTerminal      = errors.New("payment intent already settled")
	ErrIntentStateMismatch = errors.New("unexpected payment intent state")
)

type IntentState string

const (
	IntentCreated  IntentState = "created"
	IntentCaptured IntentState = "captured"
	IntentFailed   IntentState = "failed"
)

func (s IntentState) IsValid() bool {
	switch s {
	case IntentCreated, IntentCaptured, IntentFailed:
		return true
	default:
		return false
	}
}

func (s IntentState) IsTerminal() bool {
	return s == IntentCaptured || s == IntentFailed
}

// Intent is the payment intent linked 1:1 to a booking. The id is assigned
// by the processor; exactly one active intent exists per booking, enforced
// by a uniqueness constraint in the store.
type Intent struct {
	id             string
	bookingID      uuid.UUID
	fees           FeeBreakdown
	state          IntentState
	processorTxnID *string
	createdAt      time.Time
	updatedAt      time.Time
}

func NewIntent(id string, bookingID uuid.UUID, fees FeeBreakdown, now time.Time) *Intent {
	now = now.UTC()
	return &Intent{
		id:        id,
		bookingID: bookingID,
		fees:      fees,
		state:     IntentCreated,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructIntent(id string, bookingID uuid.UUID, fees FeeBreakdown, state IntentState, processorTxnID *string, createdAt, updatedAt time.Time) *Intent {
	return &Intent{
		id:             id,
		bookingID:      bookingID,
		fees:           fees,
		state:          state,
		processorTxnID: processorTxnID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (i *Intent) ID() string               { return i.id }
func (i *Intent) BookingID() uuid.UUID     { return i.bookingID }
func (i *Intent) Fees() FeeBreakdown       { return i.fees }
func (i *Intent) State() IntentState       { return i.state }
func (i *Intent) ProcessorTxnID() *string  { return i.processorTxnID }
func (i *Intent) CreatedAt() time.Time     { return i.createdAt }
func (i *Intent) UpdatedAt() time.Time     { return i.updatedAt }

// MarkCaptured moves created -> captured. Re-applying the same outcome is a
// no-op success to keep duplicate capture callbacks harmless.
func (i *Intent) MarkCaptured(txnID string, now time.Time) error {
	if i.state == IntentCaptured {
		return nil
	}
	if i.state != IntentCreated {
		return ErrIntentStateMismatch
	}
	i.state = IntentCaptured
	i.processorTxnID = &txnID
	i.updatedAt = now.UTC()
	return nil
}

// MarkFailed moves created -> failed, with the same duplicate tolerance.
func (i *Intent) MarkFailed(now time.Time) error {
	if i.state == IntentFailed {
		return nil
	}
	if i.state != IntentCreated {
		return ErrIntentStateMismatch
	}
	i.state = IntentFailed
	i.updatedAt = now.UTC()
	return nil
}
