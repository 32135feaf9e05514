package request

import (
	"strings"
	"time"

	"hotel-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Dates travel as plain "YYYY-MM-DD" strings; stays are date-ranged, never
// timestamped.

type CreateBookingRequest struct {
	RoomID          uuid.UUID `json:"room_id" binding:"required"`
	UserID          uuid.UUID `json:"user_id" binding:"required"`
	CheckInDate     string    `json:"check_in_date" binding:"required"`
	CheckOutDate    string    `json:"check_out_date" binding:"required"`
	NumberOfGuests  int       `json:"number_of_guests" binding:"required"`
	SpecialRequests *string   `json:"special_requests,omitempty"`
}

func (r CreateBookingRequest) ToParams() (commands.CreateBookingParams, error) {
	checkIn, err := parseDate(r.CheckInDate)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}
	checkOut, err := parseDate(r.CheckOutDate)
	if err != nil {
		return commands.CreateBookingParams{}, err
	}

	requests := ""
	if r.SpecialRequests != nil {
		requests = strings.TrimSpace(*r.SpecialRequests)
	}

	return commands.CreateBookingParams{
		RoomID:          r.RoomID,
		UserID:          r.UserID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		NumberOfGuests:  r.NumberOfGuests,
		SpecialRequests: requests,
	}, nil
}

type UpdateBookingRequest struct {
	CheckInDate     *string `json:"check_in_date,omitempty"`
	CheckOutDate    *string `json:"check_out_date,omitempty"`
	NumberOfGuests  *int    `json:"number_of_guests,omitempty"`
	SpecialRequests *string `json:"special_requests,omitempty"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
}

func (r UpdateBookingRequest) ToParams() (commands.UpdateBookingParams, error) {
	params := commands.UpdateBookingParams{
		NumberOfGuests:  r.NumberOfGuests,
		SpecialRequests: r.SpecialRequests,
		PaymentMethod:   r.PaymentMethod,
	}

	if r.CheckInDate != nil {
		checkIn, err := parseDate(*r.CheckInDate)
		if err != nil {
			return commands.UpdateBookingParams{}, err
		}
		params.CheckInDate = &checkIn
	}
	if r.CheckOutDate != nil {
		checkOut, err := parseDate(*r.CheckOutDate)
		if err != nil {
			return commands.UpdateBookingParams{}, err
		}
		params.CheckOutDate = &checkOut
	}
	return params, nil
}

type ConfirmBookingRequest struct {
	AmountCents   int64  `json:"amount_cents" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

func (r ConfirmBookingRequest) ToParams() commands.ConfirmBookingParams {
	return commands.ConfirmBookingParams{
		AmountCents:   r.AmountCents,
		PaymentMethod: r.PaymentMethod,
	}
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}
