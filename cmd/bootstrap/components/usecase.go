package components

import (
	"rentspace/internal/domain/settlement"
	"rentspace/internal/pkg/clock"
	"rentspace/internal/pkg/config"
	"rentspace/internal/usecase"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewFeePolicy,
	NewBookingPolicy,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
		commands.NewSettlementUseCase,
		commands.NewCalendarUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewFeePolicy(cfg config.Config) (settlement.FeePolicy, error) {
	return settlement.NewFeePolicy(cfg.Fees.RenterPct, cfg.Fees.ListerPct)
}

func NewBookingPolicy(cfg config.Config) config.BookingConfig {
	return cfg.Booking
}
