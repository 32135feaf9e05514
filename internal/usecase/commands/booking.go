package commands

import (
	"context"
	"encoding/json"
	"log/slog"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingCommands is the booking lifecycle engine. Every mutation runs its
// overlap/guard checks and its write as one atomic unit; room and payment
// side effects are committed as outbox jobs in that same unit and dispatched
// after commit, so a dead collaborator can never fail or roll back a booking.
type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateBookingParams) (*queries.BookingView, error)
	Confirm(ctx context.Context, id uuid.UUID, params ConfirmBookingParams) (*queries.BookingView, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*queries.BookingView, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	CheckOut(ctx context.Context, id uuid.UUID) (*queries.BookingView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// SweepNoShows marks CONFIRMED bookings whose check-in date has passed as
	// NO_SHOW and returns how many were swept. Intended for a scheduler.
	SweepNoShows(ctx context.Context) (int, error)
}

type bookingCommandsImpl struct {
	uow            shared.UnitOfWork
	roomGateway    RoomGateway
	userGateway    UserGateway
	bookingQueries queries.BookingQueries
	observer       shared.TransitionObserver
	clock          clock.Clock
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	roomGateway RoomGateway,
	userGateway UserGateway,
	bookingQueries queries.BookingQueries,
	observer shared.TransitionObserver,
	clk clock.Clock,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:            uow,
		roomGateway:    roomGateway,
		userGateway:    userGateway,
		bookingQueries: bookingQueries,
		observer:       observer,
		clock:          clk,
	}
}

const sweepBatchSize = 100

func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) (*queries.BookingView, error) {
	stay, err := booking.NewStayPeriod(params.CheckInDate, params.CheckOutDate, clock.Today(c.clock))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidStayPeriod)
	}
	guests, err := booking.NewGuestCount(params.NumberOfGuests)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidGuestCount)
	}

	exists, err := c.userGateway.Exists(ctx, params.UserID)
	if err != nil {
		return nil, errs.Wrap(err, "user existence check failed")
	}
	if !exists {
		return nil, errs.ErrUserNotFound
	}

	room, err := c.fetchRoom(ctx, params.RoomID)
	if err != nil {
		return nil, err
	}
	// Best-effort pre-check only. The room flag is maintained by a separate
	// service and may be stale; overlap safety comes from the store below.
	if room.Status != booking.RoomAvailable {
		return nil, errs.ErrRoomNotAvailable
	}
	if guests.Value() > room.MaxOccupancy {
		return nil, errs.ErrGuestsExceedRoom
	}
	rate, err := booking.NewMoney(room.NightlyRate)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	entity := booking.NewBooking(
		params.RoomID,
		params.UserID,
		stay,
		guests,
		rate,
		params.SpecialRequests,
		booking.NewConfirmationCode(),
		c.clock.Now(),
	)

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Bookings().LockRoom(ctx, params.RoomID); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		overlaps, err := tx.Bookings().HasOverlap(ctx, params.RoomID, stay, nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if overlaps {
			return errs.ErrBookingConflict
		}
		if err := tx.Bookings().Create(ctx, entity); err != nil {
			switch {
			case infra.IsKind(err, infra.KindConflict):
				return errs.ErrBookingConflict
			case infra.IsKind(err, infra.KindDuplicateKey):
				return errs.Mark(err, errs.ErrConfirmationCodeExhausted)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return c.enqueueRoomStatus(ctx, tx, params.RoomID, booking.RoomReserved)
	})
	if err != nil {
		return nil, err
	}

	c.notify(ctx, entity, "", booking.StatusPending)
	return c.bookingQueries.GetByID(ctx, entity.ID())
}

func (c *bookingCommandsImpl) Update(ctx context.Context, id uuid.UUID, params UpdateBookingParams) (*queries.BookingView, error) {
	datesChange := params.CheckInDate != nil || params.CheckOutDate != nil

	var entity *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entity, err = c.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if !entity.CanBeUpdated() {
			return errs.Mark(booking.ErrNotUpdatable, errs.ErrInvalidTransition)
		}

		var room *shared.RoomSnapshot

		if datesChange {
			newCheckIn := entity.Stay().CheckIn()
			if params.CheckInDate != nil {
				newCheckIn = *params.CheckInDate
			}
			newCheckOut := entity.Stay().CheckOut()
			if params.CheckOutDate != nil {
				newCheckOut = *params.CheckOutDate
			}
			stay, err := booking.NewStayPeriod(newCheckIn, newCheckOut, clock.Today(c.clock))
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidStayPeriod)
			}

			if err := tx.Bookings().LockRoom(ctx, entity.RoomID()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			excludeID := entity.ID()
			overlaps, err := tx.Bookings().HasOverlap(ctx, entity.RoomID(), stay, &excludeID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			if overlaps {
				return errs.ErrBookingConflict
			}

			// Repricing uses the room's rate at this moment, mirroring create.
			// The gateway call is timeout-bounded, so the room lock is never
			// held longer than one bounded lookup.
			room, err = c.fetchRoom(ctx, entity.RoomID())
			if err != nil {
				return err
			}
			rate, err := booking.NewMoney(room.NightlyRate)
			if err != nil {
				return errs.Mark(err, errs.ErrDomainValidation)
			}
			if err := entity.Reschedule(stay, rate, c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}

		if params.NumberOfGuests != nil {
			guests, err := booking.NewGuestCount(*params.NumberOfGuests)
			if err != nil {
				return errs.Mark(err, errs.ErrInvalidGuestCount)
			}
			if room == nil {
				room, err = c.fetchRoom(ctx, entity.RoomID())
				if err != nil {
					return err
				}
			}
			if guests.Value() > room.MaxOccupancy {
				return errs.ErrGuestsExceedRoom
			}
			if err := entity.ChangeGuests(guests, c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}
		if params.SpecialRequests != nil {
			if err := entity.ChangeSpecialRequests(*params.SpecialRequests, c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}
		if params.PaymentMethod != nil {
			if err := entity.ChangePaymentMethod(*params.PaymentMethod, c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrInvalidTransition)
			}
		}

		return c.updateBooking(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	return c.bookingQueries.GetByID(ctx, id)
}

func (c *bookingCommandsImpl) Confirm(ctx context.Context, id uuid.UUID, params ConfirmBookingParams) (*queries.BookingView, error) {
	amount, err := booking.NewMoney(params.AmountCents)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	entity, from, err := c.transition(ctx, id, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.Confirm(amount, params.PaymentMethod, c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		payload, err := json.Marshal(shared.CreatePaymentJobPayload{
			BookingID:        b.ID(),
			ConfirmationCode: b.ConfirmationCode(),
			AmountCents:      amount.Cents(),
			PaymentMethod:    params.PaymentMethod,
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode payment job")
		}
		return tx.Outbox().Enqueue(ctx, shared.OutboxJob{
			Kind:    shared.JobCreatePayment,
			Payload: payload,
			RunAt:   c.clock.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	c.notify(ctx, entity, from, booking.StatusConfirmed)
	return c.bookingQueries.GetByID(ctx, id)
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	entity, from, err := c.transition(ctx, id, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.CheckIn(clock.Today(c.clock), c.clock.Now()); err != nil {
			if errs.Is(err, booking.ErrTooEarlyToCheckIn) {
				return errs.Mark(err, errs.ErrCheckInTooEarly)
			}
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		return c.enqueueRoomStatus(ctx, tx, b.RoomID(), booking.RoomOccupied)
	})
	if err != nil {
		return nil, err
	}

	c.notify(ctx, entity, from, booking.StatusCheckedIn)
	return c.bookingQueries.GetByID(ctx, id)
}

func (c *bookingCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	entity, from, err := c.transition(ctx, id, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.CheckOut(c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		return c.enqueueRoomStatus(ctx, tx, b.RoomID(), booking.RoomAvailable)
	})
	if err != nil {
		return nil, err
	}

	c.notify(ctx, entity, from, booking.StatusCheckedOut)
	return c.bookingQueries.GetByID(ctx, id)
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, reason string) (*queries.BookingView, error) {
	entity, from, err := c.transition(ctx, id, func(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
		if err := b.Cancel(reason, c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidTransition)
		}
		return c.enqueueRoomStatus(ctx, tx, b.RoomID(), booking.RoomAvailable)
	})
	if err != nil {
		return nil, err
	}

	c.notify(ctx, entity, from, booking.StatusCancelled)
	return c.bookingQueries.GetByID(ctx, id)
}

func (c *bookingCommandsImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entity, err := c.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if entity.IsActive() {
			return errs.ErrBookingActive
		}
		if err := tx.Bookings().Delete(ctx, id); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *bookingCommandsImpl) SweepNoShows(ctx context.Context) (int, error) {
	var swept []*booking.Booking

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		swept = swept[:0]
		due, err := tx.Bookings().FindDueNoShows(ctx, clock.Today(c.clock), sweepBatchSize)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		for _, b := range due {
			if err := b.MarkNoShow(clock.Today(c.clock), c.clock.Now()); err != nil {
				// The query and the guard share the same due condition; a
				// mismatch here means the row changed, skip it.
				slog.Warn("skipping no-show candidate", "booking_id", b.ID(), "error", err.Error())
				continue
			}
			if err := c.updateBooking(ctx, tx, b); err != nil {
				return err
			}
			if err := c.enqueueRoomStatus(ctx, tx, b.RoomID(), booking.RoomAvailable); err != nil {
				return err
			}
			swept = append(swept, b)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, b := range swept {
		c.notify(ctx, b, booking.StatusConfirmed, booking.StatusNoShow)
	}
	return len(swept), nil
}

// transition runs the find → guard → mutate → persist sequence shared by the
// single-booking state changes, returning the prior status for observers.
func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	mutate func(ctx context.Context, tx shared.Tx, b *booking.Booking) error,
) (*booking.Booking, booking.Status, error) {
	var entity *booking.Booking
	var from booking.Status

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entity, err = c.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		from = entity.Status()
		if err := mutate(ctx, tx, entity); err != nil {
			return err
		}
		return c.updateBooking(ctx, tx, entity)
	})
	if err != nil {
		return nil, "", err
	}
	return entity, from, nil
}

func (c *bookingCommandsImpl) findBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	entity, err := tx.Bookings().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return entity, nil
}

func (c *bookingCommandsImpl) updateBooking(ctx context.Context, tx shared.Tx, b *booking.Booking) error {
	if err := tx.Bookings().Update(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.ErrBookingConflict
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *bookingCommandsImpl) fetchRoom(ctx context.Context, roomID uuid.UUID) (*shared.RoomSnapshot, error) {
	room, err := c.roomGateway.GetRoom(ctx, roomID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrRoomNotFound
		}
		return nil, errs.Wrap(err, "room lookup failed")
	}
	return room, nil
}

func (c *bookingCommandsImpl) enqueueRoomStatus(ctx context.Context, tx shared.Tx, roomID uuid.UUID, status booking.RoomStatus) error {
	payload, err := json.Marshal(shared.RoomStatusJobPayload{RoomID: roomID, Status: status})
	if err != nil {
		return errs.Wrap(err, "failed to encode room status job")
	}
	return tx.Outbox().Enqueue(ctx, shared.OutboxJob{
		Kind:    shared.JobRoomStatus,
		Payload: payload,
		RunAt:   c.clock.Now(),
	})
}

func (c *bookingCommandsImpl) notify(ctx context.Context, b *booking.Booking, from, to booking.Status) {
	c.observer.BookingTransitioned(ctx, shared.TransitionEvent{
		BookingID:        b.ID(),
		RoomID:           b.RoomID(),
		UserID:           b.UserID(),
		ConfirmationCode: b.ConfirmationCode(),
		From:             from,
		To:               to,
		OccurredAt:       c.clock.Now(),
	})
}
