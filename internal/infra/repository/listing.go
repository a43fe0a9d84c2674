package repository

import (
	"context"
	"errors"

	"rentspace/internal/domain/listing"
	"rentspace/internal/infra"
	"rentspace/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListingRepository reads the marketplace-owned listing rows. The booking
// core never writes them.
type ListingRepository struct{}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{}
}

const selectListingSQL = `
SELECT id, owner_id, price_per_day_cents, status
FROM listings
WHERE id = $1`

func (r *ListingRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*listing.Listing, error) {
	var (
		listingID, ownerID uuid.UUID
		priceCents         int64
		status             string
	)
	err := dbtx.QueryRow(ctx, selectListingSQL, id).Scan(&listingID, &ownerID, &priceCents, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing by id", err)
	}

	l, err := listing.New(listingID, ownerID, priceCents, listing.Status(status))
	if err != nil {
		return nil, infra.WrapRepoErr("invalid listing row", err)
	}
	return l, nil
}
