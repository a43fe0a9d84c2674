package notifier

import (
	"context"
	"log/slog"

	"rentspace/internal/pkg/clock"
)

// Dispatcher fans booking lifecycle events out to the configured sink.
// Delivery is fire and forget: it runs outside the caller's transaction and
// request lifetime, and failures are logged without affecting the booking
// operation that produced the event.
type Dispatcher struct {
	sink   Sink
	clock  clock.Clock
	logger *slog.Logger
}

func NewDispatcher(sink Sink, clk clock.Clock, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{sink: sink, clock: clk, logger: logger}
}

// Dispatch stamps and delivers the event asynchronously. The detached context
// keeps delivery alive after the originating request completes.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	event.OccurredAt = d.clock.Now()
	go func(ctx context.Context) {
		if err := d.sink.Deliver(ctx, event); err != nil {
			d.logger.Error("notification delivery failed",
				"type", string(event.Type),
				"booking_id", event.BookingID,
				"recipient_id", event.RecipientID,
				"error", err,
			)
		}
	}(context.WithoutCancel(ctx))
}
