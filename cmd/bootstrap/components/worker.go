package components

import (
	"context"
	"log/slog"

	"rentspace/internal/pkg/config"
	"rentspace/internal/usecase/commands"
	"rentspace/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(StartSweeper),
)

func NewSweeper(bookings commands.BookingCommands, cfg config.Config, logger *slog.Logger) *worker.Sweeper {
	return worker.NewSweeper(bookings, cfg.Booking.SweepInterval, logger)
}

func StartSweeper(lc fx.Lifecycle, sweeper *worker.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go sweeper.Run(context.Background())
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
