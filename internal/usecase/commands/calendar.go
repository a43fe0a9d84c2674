package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"rentspace/internal/domain/booking"
	"rentspace/internal/infra"
	"rentspace/internal/pkg/clock"
	"rentspace/internal/pkg/errs"
)

type CalendarCommands interface {
	BlockDate(ctx context.Context, listingID, ownerID uuid.UUID, day time.Time) error
	UnblockDate(ctx context.Context, listingID, ownerID uuid.UUID, day time.Time) error
}

type calendarUseCaseImpl struct {
	calendarRepo CalendarRepository
	listingRepo  ListingRepository
	pool         *pgxpool.Pool
	clock        clock.Clock
}

func NewCalendarUseCase(
	calendarRepo CalendarRepository,
	listingRepo ListingRepository,
	pool *pgxpool.Pool,
	clk clock.Clock,
) CalendarCommands {
	return &calendarUseCaseImpl{
		calendarRepo: calendarRepo,
		listingRepo:  listingRepo,
		pool:         pool,
		clock:        clk,
	}
}

// BlockDate marks a calendar day unavailable. Blocking does not touch
// existing bookings on that day; availability reads account for both.
// Re-blocking an already blocked day succeeds quietly.
func (u *calendarUseCaseImpl) BlockDate(ctx context.Context, listingID, ownerID uuid.UUID, day time.Time) error {
	if err := u.authorizeOwner(ctx, listingID, ownerID); err != nil {
		return err
	}
	if booking.Day(day).Before(booking.Day(u.clock.Now())) {
		return errs.Mark(errs.New("cannot block a past day"), errs.ErrInvalidDateRange)
	}
	if err := u.calendarRepo.Block(ctx, u.pool, listingID, day); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

// UnblockDate is idempotent; removing an unblocked day is a success.
func (u *calendarUseCaseImpl) UnblockDate(ctx context.Context, listingID, ownerID uuid.UUID, day time.Time) error {
	if err := u.authorizeOwner(ctx, listingID, ownerID); err != nil {
		return err
	}
	if err := u.calendarRepo.Unblock(ctx, u.pool, listingID, day); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (u *calendarUseCaseImpl) authorizeOwner(ctx context.Context, listingID, ownerID uuid.UUID) error {
	lst, err := u.listingRepo.FindByID(ctx, u.pool, listingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrListingNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if lst.OwnerID() != ownerID {
		return errs.Mark(errs.New("only the listing owner may edit the calendar"), errs.ErrListingNotFound)
	}
	return nil
}
