package readstore

import (
	"context"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/pkg/pgconv"
	"hotel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingReadStore serves the exposed read operations straight from the store;
// views are plain rows plus the derived number of nights.
type BookingReadStore struct {
	db    db.DBTX
	clock clock.Clock
}

func NewBookingReadStore(dbtx db.DBTX, clk clock.Clock) *BookingReadStore {
	return &BookingReadStore{db: dbtx, clock: clk}
}

const selectViewSQL = `
SELECT
	id, room_id, user_id, check_in_date, check_out_date,
	number_of_guests, total_price_cents, status, special_requests,
	confirmation_code, payment_status, payment_method, paid_amount_cents,
	cancelled_at, cancellation_reason, created_at, updated_at
FROM bookings`

func (r *BookingReadStore) GetByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, selectViewSQL+` WHERE id = $1`, id)
	view, err := scanView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return view, nil
}

func (r *BookingReadStore) GetByConfirmationCode(ctx context.Context, code string) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, selectViewSQL+` WHERE confirmation_code = $1`, code)
	view, err := scanView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.ErrBookingNotFound
		}
		return nil, infra.WrapRepoErr("failed to find booking by confirmation code", err)
	}
	return view, nil
}

func (r *BookingReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return collectViews(rows)
}

func (r *BookingReadStore) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE user_id = $1 AND NOT (status = ANY($2)) ORDER BY check_in_date`,
		userID, inactiveStatusStrings())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings by user", err)
	}
	return collectViews(rows)
}

func (r *BookingReadStore) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE room_id = $1 ORDER BY check_in_date`, roomID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by room", err)
	}
	return collectViews(rows)
}

// ListUpcoming returns PENDING and CONFIRMED bookings whose check-in date is
// strictly after today, soonest first.
func (r *BookingReadStore) ListUpcoming(ctx context.Context) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE check_in_date > $1 AND status = ANY($2) ORDER BY check_in_date`,
		pgconv.DateToPgtype(clock.Today(r.clock)),
		[]string{booking.StatusPending.String(), booking.StatusConfirmed.String()})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list upcoming bookings", err)
	}
	return collectViews(rows)
}

// ListTodayCheckIns returns CONFIRMED bookings arriving today, oldest first.
func (r *BookingReadStore) ListTodayCheckIns(ctx context.Context) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE check_in_date = $1 AND status = $2 ORDER BY created_at`,
		pgconv.DateToPgtype(clock.Today(r.clock)), booking.StatusConfirmed.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list today's check-ins", err)
	}
	return collectViews(rows)
}

// ListTodayCheckOuts returns CHECKED_IN bookings leaving today, oldest first.
func (r *BookingReadStore) ListTodayCheckOuts(ctx context.Context) ([]*queries.BookingView, error) {
	rows, err := r.db.Query(ctx,
		selectViewSQL+` WHERE check_out_date = $1 AND status = $2 ORDER BY created_at`,
		pgconv.DateToPgtype(clock.Today(r.clock)), booking.StatusCheckedIn.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list today's check-outs", err)
	}
	return collectViews(rows)
}

func inactiveStatusStrings() []string {
	inactive := booking.InactiveStatuses()
	out := make([]string, len(inactive))
	for i, s := range inactive {
		out[i] = s.String()
	}
	return out
}

func collectViews(rows pgx.Rows) ([]*queries.BookingView, error) {
	defer rows.Close()

	result := []*queries.BookingView{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking views", err)
	}
	return result, nil
}

func scanView(row pgx.Row) (*queries.BookingView, error) {
	var (
		view                 queries.BookingView
		checkIn, checkOut    pgtype.Date
		guests               int32
		specialRequests      pgtype.Text
		paymentMethod        pgtype.Text
		paidAmountCents      pgtype.Int8
		cancelledAt          pgtype.Timestamptz
		cancellationReason   pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&view.ID, &view.RoomID, &view.UserID, &checkIn, &checkOut,
		&guests, &view.TotalPriceCents, &view.Status, &specialRequests,
		&view.ConfirmationCode, &view.PaymentStatus, &paymentMethod, &paidAmountCents,
		&cancelledAt, &cancellationReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	view.CheckInDate = pgconv.DateFromPgtype(checkIn)
	view.CheckOutDate = pgconv.DateFromPgtype(checkOut)
	view.NumberOfNights = int(view.CheckOutDate.Sub(view.CheckInDate).Hours() / 24)
	view.NumberOfGuests = int(guests)
	view.SpecialRequests = pgconv.StringPtrFromPgtype(specialRequests)
	view.PaymentMethod = pgconv.StringPtrFromPgtype(paymentMethod)
	view.PaidAmountCents = pgconv.Int64PtrFromPgtype(paidAmountCents)
	view.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	view.CancellationReason = pgconv.StringPtrFromPgtype(cancellationReason)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &view, nil
}
