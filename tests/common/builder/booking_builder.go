package builder

import (
	"time"

	"hotel-booking/internal/domain/booking"
	reqdto "hotel-booking/internal/handler/dto/request"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingBuilder assembles a valid PENDING booking for tests; mutate the
// defaults per case.
type BookingBuilder struct {
	roomID          uuid.UUID
	userID          uuid.UUID
	checkIn         time.Time
	checkOut        time.Time
	today           time.Time
	guests          int
	nightlyRate     int64
	specialRequests string
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		roomID:      uuid.New(),
		userID:      uuid.New(),
		checkIn:     booking.Date(2025, time.March, 1),
		checkOut:    booking.Date(2025, time.March, 4),
		today:       booking.Date(2025, time.February, 1),
		guests:      2,
		nightlyRate: 12000,
	}
}

func (b *BookingBuilder) WithRoomID(id uuid.UUID) *BookingBuilder {
	b.roomID = id
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.userID = id
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.checkIn = checkIn
	b.checkOut = checkOut
	return b
}

func (b *BookingBuilder) WithToday(today time.Time) *BookingBuilder {
	b.today = today
	return b
}

func (b *BookingBuilder) WithGuests(n int) *BookingBuilder {
	b.guests = n
	return b
}

func (b *BookingBuilder) WithNightlyRate(cents int64) *BookingBuilder {
	b.nightlyRate = cents
	return b
}

func (b *BookingBuilder) WithSpecialRequests(s string) *BookingBuilder {
	b.specialRequests = s
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := booking.NewStayPeriod(b.checkIn, b.checkOut, b.today)
	if err != nil {
		return nil, err
	}
	guests, err := booking.NewGuestCount(b.guests)
	if err != nil {
		return nil, err
	}
	rate, err := booking.NewMoney(b.nightlyRate)
	if err != nil {
		return nil, err
	}
	return booking.NewBooking(
		b.roomID,
		b.userID,
		stay,
		guests,
		rate,
		b.specialRequests,
		booking.NewConfirmationCode(),
		b.today,
	), nil
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	nights := int(b.checkOut.Sub(b.checkIn).Hours() / 24)
	view := &queries.BookingView{
		ID:               uuid.New(),
		RoomID:           b.roomID,
		UserID:           b.userID,
		CheckInDate:      b.checkIn,
		CheckOutDate:     b.checkOut,
		NumberOfNights:   nights,
		NumberOfGuests:   b.guests,
		TotalPriceCents:  b.nightlyRate * int64(nights),
		Status:           booking.StatusPending.String(),
		ConfirmationCode: booking.NewConfirmationCode(),
		PaymentStatus:    booking.PaymentPending.String(),
		CreatedAt:        b.today,
		UpdatedAt:        b.today,
	}
	if b.specialRequests != "" {
		requests := b.specialRequests
		view.SpecialRequests = &requests
	}
	return view
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	req := reqdto.CreateBookingRequest{
		RoomID:         b.roomID,
		UserID:         b.userID,
		CheckInDate:    b.checkIn.Format("2006-01-02"),
		CheckOutDate:   b.checkOut.Format("2006-01-02"),
		NumberOfGuests: b.guests,
	}
	if b.specialRequests != "" {
		requests := b.specialRequests
		req.SpecialRequests = &requests
	}
	return req
}

func (b *BookingBuilder) BuildRoomSnapshot() *shared.RoomSnapshot {
	return &shared.RoomSnapshot{
		ID:           b.roomID,
		RoomNumber:   "204",
		NightlyRate:  b.nightlyRate,
		MaxOccupancy: 4,
		Status:       booking.RoomAvailable,
	}
}
