//go:build unit

package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rentspace/internal/usecase/commands"
	"rentspace/internal/usecase/queries"

	"github.com/google/uuid"
)

type stubBookingCommands struct {
	sweeps atomic.Int32
	err    error
}

func (s *stubBookingCommands) CreateBooking(context.Context, commands.CreateBookingCommand, uuid.UUID) (*queries.BookingView, error) {
	return nil, nil
}
func (s *stubBookingCommands) RejectBooking(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (s *stubBookingCommands) CancelBooking(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
func (s *stubBookingCommands) ExpireOverdue(context.Context) (int, error) {
	s.sweeps.Add(1)
	return 0, s.err
}

func TestSweeper_TicksUntilContextCancelled(t *testing.T) {
	stub := &stubBookingCommands{}
	sweeper := NewSweeper(stub, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	sweeper.Run(ctx)

	assert.GreaterOrEqual(t, stub.sweeps.Load(), int32(2))
}

func TestSweeper_StopEndsLoop(t *testing.T) {
	stub := &stubBookingCommands{}
	sweeper := NewSweeper(stub, 5*time.Millisecond, slog.Default())

	finished := make(chan struct{})
	go func() {
		sweeper.Run(context.Background())
		close(finished)
	}()

	time.Sleep(30 * time.Millisecond)
	sweeper.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestSweeper_KeepsRunningAfterSweepError(t *testing.T) {
	stub := &stubBookingCommands{err: errors.New("db down")}
	sweeper := NewSweeper(stub, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()
	sweeper.Run(ctx)

	assert.GreaterOrEqual(t, stub.sweeps.Load(), int32(2), "loop should survive sweep errors")
}
