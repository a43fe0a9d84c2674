package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentspace/internal/domain/booking"
	"rentspace/internal/domain/settlement"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"
	"rentspace/internal/infra/notifier"
	"rentspace/internal/infra/payment"
	"rentspace/internal/pkg/clock"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/shared"
)

const (
	txnKindCreated  = "created"
	txnKindCaptured = "captured"
	txnKindFailed   = "failed"
)

// errBookingResolvedConcurrently aborts an outcome transaction when the
// booking left awaiting_payment after the precheck. Never surfaced to the
// caller; the delivery is acknowledged and the outcome dropped.
var errBookingResolvedConcurrently = errs.New("booking resolved while applying capture outcome")

// IntentView is the write-side result of CreateIntent; the fee breakdown is
// returned so the renter sees the authoritative amounts.
type IntentView struct {
	IntentID         string    `json:"intent_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	GrossCents       int64     `json:"gross_cents"`
	PlatformFeeCents int64     `json:"platform_fee_cents"`
	OwnerNetCents    int64     `json:"owner_net_cents"`
	State            string    `json:"state"`
}

type CaptureNotice struct {
	IntentID       string
	Status         payment.CaptureStatus
	ProcessorTxnID string
}

type SettlementCommands interface {
	CreateIntent(ctx context.Context, bookingID, renterID uuid.UUID) (*IntentView, error)
	ReconcileCapture(ctx context.Context, notice CaptureNotice) error
}

type settlementUseCaseImpl struct {
	bookingRepo    BookingRepository
	settlementRepo SettlementRepository
	processor      PaymentProcessor
	dispatcher     EventDispatcher
	pool           *pgxpool.Pool
	clock          clock.Clock
	feePolicy      settlement.FeePolicy
}

func NewSettlementUseCase(
	bookingRepo BookingRepository,
	settlementRepo SettlementRepository,
	processor PaymentProcessor,
	dispatcher EventDispatcher,
	pool *pgxpool.Pool,
	clk clock.Clock,
	feePolicy settlement.FeePolicy,
) SettlementCommands {
	return &settlementUseCaseImpl{
		bookingRepo:    bookingRepo,
		settlementRepo: settlementRepo,
		processor:      processor,
		dispatcher:     dispatcher,
		pool:           pool,
		clock:          clk,
		feePolicy:      feePolicy,
	}
}

// CreateIntent moves a pending booking into awaiting_payment with a processor
// intent attached. Fees come from the stored total, never from the request.
// The processor call happens before the transaction; its idempotency key is
// the booking ID, so a crash between the call and the commit resolves to the
// same intent on retry.
func (u *settlementUseCaseImpl) CreateIntent(ctx context.Context, bookingID, renterID uuid.UUID) (*IntentView, error) {
	b, err := u.bookingRepo.FindByID(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if b.RenterID() != renterID {
		return nil, errs.Mark(errs.New("only the renter may settle"), errs.ErrBookingNotFound)
	}

	// Duplicate call after a successful run: hand back the existing intent.
	if b.State() == booking.StateAwaitingPayment {
		existing, err := u.settlementRepo.FindIntentByBooking(ctx, u.pool, bookingID)
		if err == nil {
			return intentToView(existing), nil
		}
		if !infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	if b.State() != booking.StatePending {
		return nil, errs.Mark(
			errs.Newf("booking in state %s cannot start settlement", b.State()),
			errs.ErrInvalidTransition)
	}

	fees := u.feePolicy.Split(b.TotalCents())

	result, err := u.processor.CreateIntent(ctx, payment.CreateIntentRequest{
		AmountCents:    fees.GrossCents,
		Currency:       "usd",
		PayeeAccount:   b.OwnerID().String(),
		IdempotencyKey: b.ID().String(),
		Metadata: map[string]string{
			"booking_id": b.ID().String(),
			"listing_id": b.ListingID().String(),
		},
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrPaymentProcessor)
	}

	intent := settlement.NewIntent(result.IntentID, b.ID(), fees, u.clock.Now())

	view, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (*IntentView, error) {
		moved, err := u.bookingRepo.UpdateState(ctx, tx, b.ID(), booking.StatePending, booking.StateAwaitingPayment, "payment intent created", u.clock.Now())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !moved {
			return nil, errs.Mark(
				errs.New("booking left pending concurrently"),
				errs.ErrInvalidTransition)
		}
		if err := u.settlementRepo.InsertIntent(ctx, tx, intent); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.bookingRepo.SetPaymentIntent(ctx, tx, b.ID(), intent.ID()); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.settlementRepo.RecordTransaction(ctx, tx, b.ID(), intent.ID(), txnKindCreated, fees.GrossCents, u.clock.Now()); err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return intentToView(intent), nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ReconcileCapture applies a processor capture outcome. Deliveries are
// at-least-once, so every path here must tolerate a replay: the intent state
// compare-and-set decides exactly one winner and replays fall through to
// no-op success.
func (u *settlementUseCaseImpl) ReconcileCapture(ctx context.Context, notice CaptureNotice) error {
	intent, err := u.settlementRepo.FindIntentByID(ctx, u.pool, notice.IntentID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrIntentNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	b, err := u.bookingRepo.FindByID(ctx, u.pool, intent.BookingID())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	// The domain entity rules on the outcome first: a contradictory outcome
	// for a settled intent is a processor inconsistency, acknowledged but
	// never applied.
	prior := intent.State()
	var stateErr error
	if notice.Status == payment.CaptureSucceeded {
		stateErr = intent.MarkCaptured(notice.ProcessorTxnID, u.clock.Now())
	} else {
		stateErr = intent.MarkFailed(u.clock.Now())
	}
	if stateErr != nil {
		slog.Warn("capture outcome contradicts settled intent",
			"intent_id", intent.ID(),
			"intent_state", string(prior),
			"outcome", string(notice.Status),
		)
		return nil
	}
	// Same outcome already applied: duplicate delivery, nothing to redo.
	if prior.IsTerminal() {
		return nil
	}

	// The booking can reach a terminal state without this capture, e.g. the
	// payment window elapsed and the sweeper cancelled it. The money movement
	// is then an operational concern, not a state machine one.
	if b.State().IsTerminal() && b.State() != booking.StateConfirmed {
		slog.Warn("capture outcome for terminally resolved booking",
			"booking_id", b.ID(),
			"booking_state", b.State().String(),
			"intent_id", intent.ID(),
			"outcome", string(notice.Status),
		)
		return nil
	}

	if notice.Status == payment.CaptureSucceeded {
		return u.applyCapture(ctx, b, intent, notice.ProcessorTxnID)
	}
	return u.applyFailure(ctx, b, intent)
}

// Delivery retries can race each other on the same intent row; the retry
// wrapper absorbs deadlocks, and the CAS decides the single winner.
func (u *settlementUseCaseImpl) applyCapture(ctx context.Context, b *booking.Booking, intent *settlement.Intent, txnID string) error {
	applied, err := shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (bool, error) {
		moved, err := u.settlementRepo.UpdateIntentState(ctx, tx, intent.ID(),
			settlement.IntentCreated, settlement.IntentCaptured, &txnID, u.clock.Now())
		if err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !moved {
			// A concurrent delivery won; its transaction owns the follow-up.
			return false, nil
		}
		moved, err = u.bookingRepo.UpdateState(ctx, tx, b.ID(),
			booking.StateAwaitingPayment, booking.StateConfirmed, "payment captured", u.clock.Now())
		if err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !moved {
			// The sweeper (or a cancel) resolved the booking between our
			// precheck and this transaction. The intent move must roll back
			// with it, otherwise the intent reads captured for a booking that
			// never confirmed.
			return false, errBookingResolvedConcurrently
		}
		if err := u.bookingRepo.SetProcessorTxn(ctx, tx, b.ID(), txnID); err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := u.settlementRepo.RecordTransaction(ctx, tx, b.ID(), intent.ID(),
			txnKindCaptured, intent.Fees().GrossCents, u.clock.Now()); err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return true, nil
	})
	if errs.Is(err, errBookingResolvedConcurrently) {
		slog.Warn("capture lost the booking state race, outcome dropped",
			"booking_id", b.ID(),
			"intent_id", intent.ID(),
		)
		return nil
	}
	if err != nil || !applied {
		return err
	}

	for _, recipient := range []uuid.UUID{b.RenterID(), b.OwnerID()} {
		u.dispatcher.Dispatch(ctx, notifier.Event{
			Type:        notifier.EventBookingConfirmed,
			BookingID:   b.ID(),
			ListingID:   b.ListingID(),
			RecipientID: recipient,
		})
	}
	return nil
}

func (u *settlementUseCaseImpl) applyFailure(ctx context.Context, b *booking.Booking, intent *settlement.Intent) error {
	applied, err := shared.WithDefaultRetry(ctx, u.pool, func(tx db.DBTX) (bool, error) {
		moved, err := u.settlementRepo.UpdateIntentState(ctx, tx, intent.ID(),
			settlement.IntentCreated, settlement.IntentFailed, nil, u.clock.Now())
		if err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !moved {
			return false, nil
		}
		moved, err = u.bookingRepo.UpdateState(ctx, tx, b.ID(),
			booking.StateAwaitingPayment, booking.StateCancelled, "payment failed", u.clock.Now())
		if err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !moved {
			return false, errBookingResolvedConcurrently
		}
		if err := u.settlementRepo.RecordTransaction(ctx, tx, b.ID(), intent.ID(),
			txnKindFailed, intent.Fees().GrossCents, u.clock.Now()); err != nil {
			return false, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return true, nil
	})
	if errs.Is(err, errBookingResolvedConcurrently) {
		slog.Warn("failure outcome lost the booking state race, outcome dropped",
			"booking_id", b.ID(),
			"intent_id", intent.ID(),
		)
		return nil
	}
	if err != nil || !applied {
		return err
	}

	u.dispatcher.Dispatch(ctx, notifier.Event{
		Type:        notifier.EventPaymentFailed,
		BookingID:   b.ID(),
		ListingID:   b.ListingID(),
		RecipientID: b.RenterID(),
		Reason:      "payment failed",
	})
	return nil
}

func intentToView(intent *settlement.Intent) *IntentView {
	fees := intent.Fees()
	return &IntentView{
		IntentID:         intent.ID(),
		BookingID:        intent.BookingID(),
		GrossCents:       fees.GrossCents,
		PlatformFeeCents: fees.PlatformFeeCents,
		OwnerNetCents:    fees.OwnerNetCents,
		State:            string(intent.State()),
	}
}
