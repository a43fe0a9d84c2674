package repository

import (
	"context"
	"errors"
	"time"

	"rentspace/internal/domain/settlement"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SettlementRepository persists payment intents and the append-only
// transaction audit trail.
type SettlementRepository struct{}

func NewSettlementRepository() *SettlementRepository {
	return &SettlementRepository{}
}

const insertIntentSQL = `
INSERT INTO payment_intents (
	id, booking_id, gross_cents, platform_fee_cents, owner_net_cents,
	state, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

// InsertIntent links the processor-assigned intent 1:1 to its booking; a
// second intent for the same booking violates the uniqueness constraint and
// comes back as KindDuplicateKey.
func (r *SettlementRepository) InsertIntent(ctx context.Context, dbtx db.DBTX, intent *settlement.Intent) error {
	fees := intent.Fees()
	_, err := dbtx.Exec(ctx, insertIntentSQL,
		intent.ID(), intent.BookingID(),
		fees.GrossCents, fees.PlatformFeeCents, fees.OwnerNetCents,
		string(intent.State()), intent.CreatedAt(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("booking already has a payment intent", err, infra.KindDuplicateKey)
			case pgErrCodeForeignKeyViolated:
				return infra.WrapRepoErr("unknown booking", err, infra.KindForeignKeyViolated)
			}
		}
		return infra.WrapRepoErr("failed to insert payment intent", err)
	}
	return nil
}

const selectIntentSQL = `
SELECT id, booking_id, gross_cents, platform_fee_cents, owner_net_cents,
       state, processor_txn_id, created_at, updated_at
FROM payment_intents
WHERE id = $1`

func (r *SettlementRepository) FindIntentByID(ctx context.Context, dbtx db.DBTX, intentID string) (*settlement.Intent, error) {
	var (
		id                      string
		bookingID               uuid.UUID
		gross, fee, net         int64
		state                   string
		processorTxnID          *string
		createdAt, updatedAt    time.Time
	)
	err := dbtx.QueryRow(ctx, selectIntentSQL, intentID).Scan(
		&id, &bookingID, &gross, &fee, &net, &state, &processorTxnID, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent", err)
	}

	return settlement.ReconstructIntent(
		id, bookingID,
		settlement.FeeBreakdown{GrossCents: gross, PlatformFeeCents: fee, OwnerNetCents: net},
		settlement.IntentState(state), processorTxnID, createdAt, updatedAt,
	), nil
}

func (r *SettlementRepository) FindIntentByBooking(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID) (*settlement.Intent, error) {
	var intentID string
	err := dbtx.QueryRow(ctx,
		`SELECT id FROM payment_intents WHERE booking_id = $1`, bookingID,
	).Scan(&intentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("payment intent not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment intent by booking", err)
	}
	return r.FindIntentByID(ctx, dbtx, intentID)
}

const updateIntentStateSQL = `
UPDATE payment_intents
SET state = $3, processor_txn_id = COALESCE($4, processor_txn_id), updated_at = $5
WHERE id = $1 AND state = $2`

// UpdateIntentState is the compare-and-set for intent lifecycle; false means
// the intent already left the expected state (a duplicate delivery).
func (r *SettlementRepository) UpdateIntentState(ctx context.Context, dbtx db.DBTX, intentID string, expected, next settlement.IntentState, processorTxnID *string, now time.Time) (bool, error) {
	tag, err := dbtx.Exec(ctx, updateIntentStateSQL,
		intentID, string(expected), string(next), processorTxnID, now.UTC())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update payment intent state", err)
	}
	return tag.RowsAffected() == 1, nil
}

const insertTransactionSQL = `
INSERT INTO transactions (id, booking_id, intent_id, kind, amount_cents, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

// RecordTransaction appends one audit row per settlement event.
func (r *SettlementRepository) RecordTransaction(ctx context.Context, dbtx db.DBTX, bookingID uuid.UUID, intentID, kind string, amountCents int64, now time.Time) error {
	_, err := dbtx.Exec(ctx, insertTransactionSQL,
		uuid.New(), bookingID, intentID, kind, amountCents, now.UTC())
	if err != nil {
		return infra.WrapRepoErr("failed to record transaction", err)
	}
	return nil
}
