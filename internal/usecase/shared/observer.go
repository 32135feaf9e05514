package shared

import (
	"context"
	"time"

	"hotel-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// TransitionEvent describes one committed booking transition.
type TransitionEvent struct {
	BookingID        uuid.UUID
	RoomID           uuid.UUID
	UserID           uuid.UUID
	ConfirmationCode string
	From             booking.Status
	To               booking.Status
	OccurredAt       time.Time
}

// TransitionObserver is notified after each committed transition. Observers
// must tolerate being called concurrently and must not fail the operation;
// metrics and event publishing both live behind this interface instead of
// ambient globals.
type TransitionObserver interface {
	BookingTransitioned(ctx context.Context, event TransitionEvent)
}

type NopObserver struct{}

func (NopObserver) BookingTransitioned(context.Context, TransitionEvent) {}

// MultiObserver fans an event out to every registered observer in order.
type MultiObserver []TransitionObserver

func (m MultiObserver) BookingTransitioned(ctx context.Context, event TransitionEvent) {
	for _, o := range m {
		o.BookingTransitioned(ctx, event)
	}
}
