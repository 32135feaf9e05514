package shared

import (
	"hotel-booking/internal/domain/booking"

	"github.com/google/uuid"
)

// Payloads carried by outbox jobs. The engine encodes them inside the booking
// transaction; the worker decodes and dispatches them after commit.

type RoomStatusJobPayload struct {
	RoomID uuid.UUID          `json:"room_id"`
	Status booking.RoomStatus `json:"status"`
}

type CreatePaymentJobPayload struct {
	BookingID        uuid.UUID `json:"booking_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	AmountCents      int64     `json:"amount_cents"`
	PaymentMethod    string    `json:"payment_method"`
}
