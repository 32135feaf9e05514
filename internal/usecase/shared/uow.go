package shared

import (
	"context"
	"time"

	"hotel-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// UnitOfWork runs the authoritative critical section: overlap check, guard
// check and write commit or roll back together. Collaborator side effects are
// never inside it; they ride the outbox written in the same transaction.
type UnitOfWork interface {
	// Within: full transaction for write operations with retry on
	// serialization/deadlock failures
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Outbox() OutboxRepository
}

type BookingRepository interface {
	// Create inserts the booking, regenerating the confirmation code a bounded
	// number of times if the unique-code constraint fires.
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// LockRoom serializes bookings per room for the rest of the transaction.
	LockRoom(ctx context.Context, roomID uuid.UUID) error
	// HasOverlap reports whether any active booking for the room intersects the
	// half-open stay; excludeID lets an update ignore its own record.
	HasOverlap(ctx context.Context, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) (bool, error)
	// FindDueNoShows returns CONFIRMED bookings whose check-in date is before today.
	FindDueNoShows(ctx context.Context, today time.Time, limit int32) ([]*booking.Booking, error)
}

// OutboxRepository records best-effort side effects in the booking's own
// transaction; the worker dispatches them after commit.
type OutboxRepository interface {
	Enqueue(ctx context.Context, job OutboxJob) error
}

type OutboxJob struct {
	Kind    string
	Payload []byte
	RunAt   time.Time
}

// Outbox job kinds the dispatcher understands.
const (
	JobRoomStatus    = "room_status"
	JobCreatePayment = "create_payment"
)

// RoomSnapshot is the room collaborator's answer at a point in time. Rate and
// occupancy are trusted at creation; Status is best-effort only.
type RoomSnapshot struct {
	ID           uuid.UUID
	RoomNumber   string
	NightlyRate  int64
	MaxOccupancy int
	Status       booking.RoomStatus
}
