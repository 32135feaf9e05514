package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingView is the read model every exposed operation returns.
// NumberOfNights is derived by the read store, not persisted.
type BookingView struct {
	ID                 uuid.UUID  `json:"id"`
	RoomID             uuid.UUID  `json:"room_id"`
	UserID             uuid.UUID  `json:"user_id"`
	CheckInDate        time.Time  `json:"check_in_date"`
	CheckOutDate       time.Time  `json:"check_out_date"`
	NumberOfNights     int        `json:"number_of_nights"`
	NumberOfGuests     int        `json:"number_of_guests"`
	TotalPriceCents    int64      `json:"total_price_cents"`
	Status             string     `json:"status"`
	SpecialRequests    *string    `json:"special_requests,omitempty"`
	ConfirmationCode   string     `json:"confirmation_code"`
	PaymentStatus      string     `json:"payment_status"`
	PaymentMethod      *string    `json:"payment_method,omitempty"`
	PaidAmountCents    *int64     `json:"paid_amount_cents,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetByConfirmationCode(ctx context.Context, code string) (*BookingView, error)
	// ListByUser is ordered by creation time, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
	// ListActiveByUser filters by the active-status predicate.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*BookingView, error)
	// ListByRoom is ordered by check-in date, earliest first.
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*BookingView, error)
	// ListUpcoming returns PENDING and CONFIRMED bookings with a future
	// check-in date, soonest first.
	ListUpcoming(ctx context.Context) ([]*BookingView, error)
	// ListTodayCheckIns returns CONFIRMED bookings arriving today.
	ListTodayCheckIns(ctx context.Context) ([]*BookingView, error)
	// ListTodayCheckOuts returns CHECKED_IN bookings leaving today.
	ListTodayCheckOuts(ctx context.Context) ([]*BookingView, error)
}
