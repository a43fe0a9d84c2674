//go:build unit

package notifier

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentspace/internal/pkg/clock"
)

type captureSink struct {
	events chan Event
	err    error
}

func (s *captureSink) Deliver(_ context.Context, event Event) error {
	s.events <- event
	return s.err
}

func TestDispatcher_StampsOccurredAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sink := &captureSink{events: make(chan Event, 1)}
	d := NewDispatcher(sink, clock.NewMockClock(now), slog.Default())

	d.Dispatch(context.Background(), Event{
		Type:        EventBookingRequested,
		BookingID:   uuid.New(),
		RecipientID: uuid.New(),
	})

	select {
	case got := <-sink.events:
		assert.Equal(t, now, got.OccurredAt)
		assert.Equal(t, EventBookingRequested, got.Type)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestDispatcher_SurvivesCancelledCaller(t *testing.T) {
	sink := &captureSink{events: make(chan Event, 1)}
	d := NewDispatcher(sink, clock.NewMockClock(time.Now()), slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, Event{Type: EventBookingConfirmed, BookingID: uuid.New()})

	select {
	case got := <-sink.events:
		assert.Equal(t, EventBookingConfirmed, got.Type)
	case <-time.After(time.Second):
		t.Fatal("delivery should not depend on caller context")
	}
}

func TestDispatcher_DeliveryErrorDoesNotPanic(t *testing.T) {
	sink := &captureSink{events: make(chan Event, 1), err: errors.New("broker down")}
	d := NewDispatcher(sink, clock.NewMockClock(time.Now()), slog.Default())

	require.NotPanics(t, func() {
		d.Dispatch(context.Background(), Event{Type: EventBookingExpired})
		<-sink.events
	})
}
