package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentspace/internal/domain/booking"
	"rentspace/internal/domain/listing"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"
	"rentspace/internal/infra/notifier"
	"rentspace/internal/pkg/clock"
	"rentspace/internal/pkg/config"
	"rentspace/internal/pkg/errs"
	"rentspace/internal/usecase/queries"
	"rentspace/internal/usecase/shared"
)

const overdueBatchSize = 100

// DateConflictError reports exactly which days and bookings stand in the way
// of a rejected request, so the caller can offer alternatives.
type DateConflictError struct {
	BlockedDays []time.Time
	Conflicts   []booking.Ref
}

func (e *DateConflictError) Error() string {
	return fmt.Sprintf("dates unavailable: %d blocked days, %d conflicting bookings",
		len(e.BlockedDays), len(e.Conflicts))
}

type CreateBookingCommand struct {
	ListingID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, cmd CreateBookingCommand, renterID uuid.UUID) (*queries.BookingView, error)
	RejectBooking(ctx context.Context, bookingID, ownerID uuid.UUID, reason string) error
	CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, reason string) error
	ExpireOverdue(ctx context.Context) (int, error)
}

type bookingUseCaseImpl struct {
	bookingRepo    BookingRepository
	listingRepo    ListingRepository
	calendarRepo   CalendarRepository
	bookingQueries queries.BookingQueries
	dispatcher     EventDispatcher
	pool           *pgxpool.Pool
	clock          clock.Clock
	policy         config.BookingConfig
}

func NewBookingUseCase(
	bookingRepo BookingRepository,
	listingRepo ListingRepository,
	calendarRepo CalendarRepository,
	bookingQueries queries.BookingQueries,
	dispatcher EventDispatcher,
	pool *pgxpool.Pool,
	clk clock.Clock,
	policy config.BookingConfig,
) BookingCommands {
	return &bookingUseCaseImpl{
		bookingRepo:    bookingRepo,
		listingRepo:    listingRepo,
		calendarRepo:   calendarRepo,
		bookingQueries: bookingQueries,
		dispatcher:     dispatcher,
		pool:           pool,
		clock:          clk,
		policy:         policy,
	}
}

// CreateBooking validates the request against the listing, quotes the total
// server-side, and inserts the booking behind the range exclusion constraint.
// The blocked-date check runs again inside the transaction; the advisory read
// before it only exists to fail fast with occupant details.
func (u *bookingUseCaseImpl) CreateBooking(ctx context.Context, cmd CreateBookingCommand, renterID uuid.UUID) (*queries.BookingView, error) {
	lst, err := u.loadActiveListing(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if lst.OwnerID() == renterID {
		return nil, errs.ErrSelfBooking
	}

	dateRange, err := booking.NewDateRange(cmd.StartDate, cmd.EndDate, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidDateRange)
	}

	if conflictErr, err := u.checkAvailability(ctx, u.pool, cmd.ListingID, dateRange); err != nil {
		return nil, err
	} else if conflictErr != nil {
		return nil, errs.Mark(conflictErr, errs.ErrDateConflict)
	}

	total := lst.Quote(dateRange.Days())
	entity, err := booking.New(cmd.ListingID, renterID, lst.OwnerID(), dateRange, total, u.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := u.insertGuarded(ctx, entity); err != nil {
		return nil, err
	}

	u.dispatcher.Dispatch(ctx, notifier.Event{
		Type:        notifier.EventBookingRequested,
		BookingID:   entity.ID(),
		ListingID:   entity.ListingID(),
		RecipientID: entity.OwnerID(),
	})

	return u.bookingQueries.GetByID(ctx, renterID, entity.ID())
}

// insertGuarded runs the transactional insert with the in-tx blocked-date
// re-read. An exclusion conflict gets one retry: the occupying booking may
// have been cancelled between our advisory read and the insert.
func (u *bookingUseCaseImpl) insertGuarded(ctx context.Context, entity *booking.Booking) error {
	const attempts = 2
	var lastErr error

	for i := 0; i < attempts; i++ {
		_, err := shared.RunInTx(ctx, u.pool, func(tx db.DBTX) (struct{}, error) {
			conflictErr, err := u.checkAvailability(ctx, tx, entity.ListingID(), entity.Range())
			if err != nil {
				return struct{}{}, err
			}
			if conflictErr != nil {
				return struct{}{}, errs.Mark(conflictErr, errs.ErrDateConflict)
			}
			return struct{}{}, u.bookingRepo.Insert(ctx, tx, entity)
		})
		if err == nil {
			return nil
		}
		if !infra.IsKind(err, infra.KindConflict) {
			return err
		}
		lastErr = err
	}

	// Both attempts hit the exclusion constraint. Read the occupants outside
	// the failed transaction to report what is actually in the way.
	conflictErr, err := u.checkAvailability(ctx, u.pool, entity.ListingID(), entity.Range())
	if err == nil && conflictErr != nil {
		return errs.Mark(conflictErr, errs.ErrDateConflict)
	}
	return errs.Mark(lastErr, errs.ErrDateConflict)
}

func (u *bookingUseCaseImpl) checkAvailability(ctx context.Context, dbtx db.DBTX, listingID uuid.UUID, dateRange booking.DateRange) (*DateConflictError, error) {
	blockedDays, err := u.calendarRepo.ListBlockedDays(ctx, dbtx, listingID, dateRange)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	occupying, err := u.bookingRepo.ListOccupying(ctx, dbtx, listingID, dateRange)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if len(blockedDays) == 0 && len(occupying) == 0 {
		return nil, nil
	}
	return &DateConflictError{BlockedDays: blockedDays, Conflicts: occupying}, nil
}

func (u *bookingUseCaseImpl) loadActiveListing(ctx context.Context, listingID uuid.UUID) (*listing.Listing, error) {
	lst, err := u.listingRepo.FindByID(ctx, u.pool, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrListingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !lst.IsActive() {
		return nil, errs.ErrListingUnavailable
	}
	return lst, nil
}

func (u *bookingUseCaseImpl) RejectBooking(ctx context.Context, bookingID, ownerID uuid.UUID, reason string) error {
	if reason == "" {
		reason = "rejected by owner"
	}
	b, err := u.transition(ctx, bookingID, ownerID, actorOwner, booking.StateRejected, reason)
	if err != nil {
		return err
	}
	if b != nil {
		u.dispatcher.Dispatch(ctx, notifier.Event{
			Type:        notifier.EventBookingRejected,
			BookingID:   b.ID(),
			ListingID:   b.ListingID(),
			RecipientID: b.RenterID(),
			Reason:      reason,
		})
	}
	return nil
}

// CancelBooking is available to either party while the booking still holds
// dates. The counterparty is notified.
func (u *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID, actorID uuid.UUID, reason string) error {
	if reason == "" {
		reason = "cancelled"
	}
	b, err := u.transition(ctx, bookingID, actorID, actorEitherParty, booking.StateCancelled, reason)
	if err != nil {
		return err
	}
	if b != nil {
		recipient := b.OwnerID()
		if actorID == b.OwnerID() {
			recipient = b.RenterID()
		}
		u.dispatcher.Dispatch(ctx, notifier.Event{
			Type:        notifier.EventBookingCancelled,
			BookingID:   b.ID(),
			ListingID:   b.ListingID(),
			RecipientID: recipient,
			Reason:      reason,
		})
	}
	return nil
}

type actorRule int

const (
	actorOwner actorRule = iota
	actorEitherParty
)

// transition loads the booking, authorizes the actor, and applies the state
// change through the store-side compare-and-set. Re-applying the state the
// booking already holds is a no-op success and returns a nil booking so
// callers skip duplicate notifications.
func (u *bookingUseCaseImpl) transition(ctx context.Context, bookingID, actorID uuid.UUID, rule actorRule, next booking.State, reason string) (*booking.Booking, error) {
	b, err := u.bookingRepo.FindByID(ctx, u.pool, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := authorize(b, actorID, rule); err != nil {
		return nil, err
	}

	if b.State() == next {
		return nil, nil
	}
	if !booking.CanTransition(b.State(), next) {
		return nil, errs.Mark(
			errs.Newf("cannot move booking from %s to %s", b.State(), next),
			errs.ErrInvalidTransition)
	}

	moved, err := u.bookingRepo.UpdateState(ctx, u.pool, bookingID, b.State(), next, reason, u.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !moved {
		// Lost the race. Re-read: if the other writer landed the same state
		// this call is a duplicate and succeeds quietly.
		current, err := u.bookingRepo.FindByID(ctx, u.pool, bookingID)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if current.State() == next {
			return nil, nil
		}
		return nil, errs.Mark(
			errs.Newf("booking moved to %s concurrently", current.State()),
			errs.ErrInvalidTransition)
	}
	return b, nil
}

func authorize(b *booking.Booking, actorID uuid.UUID, rule actorRule) error {
	switch rule {
	case actorOwner:
		if b.OwnerID() != actorID {
			return errs.Mark(errs.New("only the listing owner may do this"), errs.ErrBookingNotFound)
		}
	case actorEitherParty:
		if b.OwnerID() != actorID && b.RenterID() != actorID {
			return errs.Mark(errs.New("not a party to this booking"), errs.ErrBookingNotFound)
		}
	}
	return nil
}

// ExpireOverdue sweeps bookings that overstayed a hold window: pending past
// the approval window become expired, awaiting_payment past the payment
// window become cancelled. Each booking goes through the normal transition
// path so a concurrent approval or capture wins cleanly.
func (u *bookingUseCaseImpl) ExpireOverdue(ctx context.Context) (int, error) {
	now := u.clock.Now()
	swept := 0

	sweeps := []struct {
		from   booking.State
		to     booking.State
		cutoff time.Time
		reason string
		event  notifier.EventType
	}{
		{booking.StatePending, booking.StateExpired, now.Add(-u.policy.ApprovalWindow), "approval window elapsed", notifier.EventBookingExpired},
		{booking.StateAwaitingPayment, booking.StateCancelled, now.Add(-u.policy.PaymentWindow), "payment window elapsed", notifier.EventBookingCancelled},
	}

	for _, sweep := range sweeps {
		ids, err := u.bookingRepo.ListOverdue(ctx, u.pool, sweep.from, sweep.cutoff, overdueBatchSize)
		if err != nil {
			return swept, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, id := range ids {
			moved, err := u.bookingRepo.UpdateState(ctx, u.pool, id, sweep.from, sweep.to, sweep.reason, u.clock.Now())
			if err != nil {
				return swept, errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if !moved {
				continue
			}
			swept++
			b, err := u.bookingRepo.FindByID(ctx, u.pool, id)
			if err != nil {
				slog.Warn("swept booking but could not load it for notification",
					"booking_id", id, "error", err)
				continue
			}
			u.dispatcher.Dispatch(ctx, notifier.Event{
				Type:        sweep.event,
				BookingID:   b.ID(),
				ListingID:   b.ListingID(),
				RecipientID: b.RenterID(),
				Reason:      sweep.reason,
			})
		}
	}
	return swept, nil
}
