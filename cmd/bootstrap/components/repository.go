package components

import (
	"rentspace/internal/infra/db"
	"rentspace/internal/infra/readstore"
	repo_impl "rentspace/internal/infra/repository"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewListingRepository,
			fx.As(new(commands.ListingRepository)),
		),
		fx.Annotate(
			repo_impl.NewCalendarRepository,
			fx.As(new(commands.CalendarRepository)),
		),
		fx.Annotate(
			repo_impl.NewSettlementRepository,
			fx.As(new(commands.SettlementRepository)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingViewRepo)),
			fx.As(new(queries.AvailabilityViewRepo)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
