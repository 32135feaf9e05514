package response

import (
	"time"

	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const dateLayout = "2006-01-02"

type BookingResponse struct {
	ID                 uuid.UUID  `json:"id"`
	RoomID             uuid.UUID  `json:"roomId"`
	UserID             uuid.UUID  `json:"userId"`
	CheckInDate        string     `json:"checkInDate"`
	CheckOutDate       string     `json:"checkOutDate"`
	NumberOfNights     int        `json:"numberOfNights"`
	NumberOfGuests     int        `json:"numberOfGuests"`
	TotalPriceCents    int64      `json:"totalPriceCents"`
	Status             string     `json:"status"`
	SpecialRequests    *string    `json:"specialRequests,omitempty"`
	ConfirmationCode   string     `json:"confirmationCode"`
	PaymentStatus      string     `json:"paymentStatus"`
	PaymentMethod      *string    `json:"paymentMethod,omitempty"`
	PaidAmountCents    *int64     `json:"paidAmountCents,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	// Field names line up except the date strings, copier carries the rest.
	_ = copier.Copy(resp, view)
	resp.CheckInDate = view.CheckInDate.Format(dateLayout)
	resp.CheckOutDate = view.CheckOutDate.Format(dateLayout)
	return resp
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	out := make([]*BookingResponse, len(views))
	for i, v := range views {
		out[i] = FromBookingView(v)
	}
	return out
}
