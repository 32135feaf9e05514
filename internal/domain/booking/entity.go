package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotPending        = errors.New("only pending bookings can be confirmed")
	ErrNotConfirmed      = errors.New("only confirmed bookings can be checked in")
	ErrNotCheckedIn      = errors.New("only checked-in bookings can be checked out")
	ErrNotCancellable    = errors.New("booking cannot be cancelled in its current status")
	ErrNotUpdatable      = errors.New("cannot update a cancelled or checked-out booking")
	ErrTooEarlyToCheckIn = errors.New("cannot check in before the check-in date")
	ErrNoShowNotDue      = errors.New("booking is not due for no-show")
)

// Booking is the aggregate the lifecycle engine drives. All state changes go
// through the transition methods; the store persists whatever they produce.
type Booking struct {
	id                 uuid.UUID
	roomID             uuid.UUID
	userID             uuid.UUID
	stay               StayPeriod
	guests             GuestCount
	totalPrice         Money
	status             Status
	specialRequests    string
	confirmationCode   string
	paymentStatus      PaymentStatus
	paymentMethod      *string
	paidAmount         *Money
	cancelledAt        *time.Time
	cancellationReason *string
	createdAt          time.Time
	updatedAt          time.Time
}

// NewBooking creates a PENDING booking. The total price is the room's nightly
// rate at this moment times the number of nights; it is never recomputed when
// the room's rate later changes.
func NewBooking(
	roomID, userID uuid.UUID,
	stay StayPeriod,
	guests GuestCount,
	nightlyRate Money,
	specialRequests string,
	confirmationCode string,
	now time.Time,
) *Booking {
	return &Booking{
		id:               uuid.New(),
		roomID:           roomID,
		userID:           userID,
		stay:             stay,
		guests:           guests,
		totalPrice:       nightlyRate.MultiplyNights(stay.Nights()),
		status:           StatusPending,
		specialRequests:  specialRequests,
		confirmationCode: confirmationCode,
		paymentStatus:    PaymentPending,
		createdAt:        now,
		updatedAt:        now,
	}
}

func Reconstruct(
	id, roomID, userID uuid.UUID,
	stay StayPeriod,
	guests GuestCount,
	totalPrice Money,
	status Status,
	specialRequests string,
	confirmationCode string,
	paymentStatus PaymentStatus,
	paymentMethod *string,
	paidAmount *Money,
	cancelledAt *time.Time,
	cancellationReason *string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                 id,
		roomID:             roomID,
		userID:             userID,
		stay:               stay,
		guests:             guests,
		totalPrice:         totalPrice,
		status:             status,
		specialRequests:    specialRequests,
		confirmationCode:   confirmationCode,
		paymentStatus:      paymentStatus,
		paymentMethod:      paymentMethod,
		paidAmount:         paidAmount,
		cancelledAt:        cancelledAt,
		cancellationReason: cancellationReason,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Confirm moves PENDING → CONFIRMED and records the payment.
func (b *Booking) Confirm(amount Money, method string, now time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	b.status = StatusConfirmed
	b.paymentStatus = PaymentPaid
	b.paymentMethod = &method
	b.paidAmount = &amount
	b.updatedAt = now
	return nil
}

// CheckIn moves CONFIRMED → CHECKED_IN once the check-in date has arrived.
func (b *Booking) CheckIn(today, now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrNotConfirmed
	}
	if b.stay.CheckIn().After(today) {
		return ErrTooEarlyToCheckIn
	}
	b.status = StatusCheckedIn
	b.updatedAt = now
	return nil
}

// CheckOut moves CHECKED_IN → CHECKED_OUT.
func (b *Booking) CheckOut(now time.Time) error {
	if b.status != StatusCheckedIn {
		return ErrNotCheckedIn
	}
	b.status = StatusCheckedOut
	b.updatedAt = now
	return nil
}

func (b *Booking) CanBeCancelled() bool {
	return b.status == StatusPending || b.status == StatusConfirmed
}

// Cancel moves PENDING or CONFIRMED to CANCELLED and records when and why.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if !b.CanBeCancelled() {
		return ErrNotCancellable
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	if reason != "" {
		b.cancellationReason = &reason
	}
	b.updatedAt = now
	return nil
}

// MarkNoShow moves a CONFIRMED booking whose check-in date has passed to
// NO_SHOW. Intended for a scheduler sweeping stale bookings.
func (b *Booking) MarkNoShow(today, now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrNoShowNotDue
	}
	if !b.stay.CheckIn().Before(today) {
		return ErrNoShowNotDue
	}
	b.status = StatusNoShow
	b.updatedAt = now
	return nil
}

func (b *Booking) CanBeUpdated() bool {
	return b.status != StatusCancelled && b.status != StatusCheckedOut
}

// Reschedule replaces the stay and reprices the booking from the rate the room
// carries now. Callers must have re-verified availability for the new range.
func (b *Booking) Reschedule(stay StayPeriod, nightlyRate Money, now time.Time) error {
	if !b.CanBeUpdated() {
		return ErrNotUpdatable
	}
	b.stay = stay
	b.totalPrice = nightlyRate.MultiplyNights(stay.Nights())
	b.updatedAt = now
	return nil
}

func (b *Booking) ChangeGuests(guests GuestCount, now time.Time) error {
	if !b.CanBeUpdated() {
		return ErrNotUpdatable
	}
	b.guests = guests
	b.updatedAt = now
	return nil
}

func (b *Booking) ChangeSpecialRequests(requests string, now time.Time) error {
	if !b.CanBeUpdated() {
		return ErrNotUpdatable
	}
	b.specialRequests = requests
	b.updatedAt = now
	return nil
}

func (b *Booking) ChangePaymentMethod(method string, now time.Time) error {
	if !b.CanBeUpdated() {
		return ErrNotUpdatable
	}
	b.paymentMethod = &method
	b.updatedAt = now
	return nil
}

// IsActive delegates to the status predicate; an active booking blocks its
// room's dates and refuses deletion.
func (b *Booking) IsActive() bool {
	return b.status.IsActive()
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) RoomID() uuid.UUID           { return b.roomID }
func (b *Booking) UserID() uuid.UUID           { return b.userID }
func (b *Booking) Stay() StayPeriod            { return b.stay }
func (b *Booking) Guests() GuestCount          { return b.guests }
func (b *Booking) TotalPrice() Money           { return b.totalPrice }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) SpecialRequests() string     { return b.specialRequests }
func (b *Booking) ConfirmationCode() string    { return b.confirmationCode }
func (b *Booking) PaymentStatus() PaymentStatus { return b.paymentStatus }
func (b *Booking) PaymentMethod() *string      { return b.paymentMethod }
func (b *Booking) PaidAmount() *Money          { return b.paidAmount }
func (b *Booking) CancelledAt() *time.Time     { return b.cancelledAt }
func (b *Booking) CancellationReason() *string { return b.cancellationReason }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }

// RegenerateConfirmationCode is used only by the store when an insert hits the
// unique-code constraint; a persisted code never changes.
func (b *Booking) RegenerateConfirmationCode() {
	b.confirmationCode = NewConfirmationCode()
}
