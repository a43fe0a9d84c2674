package worker

import (
	"context"
	"log/slog"
	"time"

	"rentspace/internal/usecase/commands"
)

// Sweeper periodically expires bookings that overstayed their hold window.
// The work itself lives in the booking usecase; this loop only paces it.
type Sweeper struct {
	bookings commands.BookingCommands
	interval time.Duration
	logger   *slog.Logger
	done     chan struct{}
}

func NewSweeper(bookings commands.BookingCommands, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		bookings: bookings,
		interval: interval,
		logger:   logger.With("component", "sweeper"),
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled or Stop is called. One sweep failure is
// logged and the loop keeps going; the next tick retries from scratch.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped", "reason", ctx.Err())
			return
		case <-s.done:
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.done)
}

func (s *Sweeper) sweep(ctx context.Context) {
	swept, err := s.bookings.ExpireOverdue(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "swept", swept, "error", err)
		return
	}
	if swept > 0 {
		s.logger.Info("swept overdue bookings", "count", swept)
	}
}
