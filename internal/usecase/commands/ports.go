package commands

import (
	"context"
	"time"

	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Collaborator ports the lifecycle engine consumes. Implementations live in
// internal/infra/gateway; tests substitute fakes.

type RoomGateway interface {
	// GetRoom fails with an infra NOT_FOUND kind when the room does not exist.
	GetRoom(ctx context.Context, roomID uuid.UUID) (*shared.RoomSnapshot, error)
}

type UserGateway interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

type CreateBookingParams struct {
	RoomID          uuid.UUID
	UserID          uuid.UUID
	CheckInDate     time.Time
	CheckOutDate    time.Time
	NumberOfGuests  int
	SpecialRequests string
}

// UpdateBookingParams carries a partial update; nil means "leave unchanged".
type UpdateBookingParams struct {
	CheckInDate     *time.Time
	CheckOutDate    *time.Time
	NumberOfGuests  *int
	SpecialRequests *string
	PaymentMethod   *string
}

type ConfirmBookingParams struct {
	AmountCents   int64
	PaymentMethod string
}
