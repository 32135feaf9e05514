package repository

import (
	"context"
	"errors"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/infra/db"
	"hotel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"

	confirmationCodeConstraint = "bookings_confirmation_code_key"
	overlapConstraint          = "bookings_no_overlap"

	// Bounded regenerate-and-retry when a fresh confirmation code collides.
	maxCodeAttempts = 3
)

// BookingRepository is the write side of the booking store. All methods run on
// the DBTX they were constructed with, which inside a unit of work is the
// transaction carrying the overlap check.
type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

const insertBookingSQL = `
INSERT INTO bookings (
	id, room_id, user_id, check_in_date, check_out_date,
	number_of_guests, total_price_cents, status, special_requests,
	confirmation_code, payment_status, payment_method, paid_amount_cents,
	cancelled_at, cancellation_reason, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		err := r.insertOnce(ctx, b)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch {
			case pgErr.Code == pgErrCodeUniqueViolation && pgErr.ConstraintName == confirmationCodeConstraint:
				b.RegenerateConfirmationCode()
				continue
			case pgErr.Code == pgErrCodeExclusionViolation && pgErr.ConstraintName == overlapConstraint:
				return infra.WrapRepoErr("booking dates overlap an existing booking", err, infra.KindConflict)
			case pgErr.Code == pgErrCodeUniqueViolation:
				return infra.WrapRepoErr("duplicate booking", err, infra.KindDuplicateKey)
			}
		}
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return infra.WrapRepoErr("confirmation code collisions exhausted retries", nil, infra.KindDuplicateKey)
}

// insertOnce runs one INSERT attempt inside a savepoint when the repository is
// on a transaction. Without it the first constraint violation aborts the
// surrounding transaction and every retry would fail with 25P02.
func (r *BookingRepository) insertOnce(ctx context.Context, b *booking.Booking) error {
	tx, ok := r.db.(pgx.Tx)
	if !ok {
		_, err := r.db.Exec(ctx, insertBookingSQL, insertArgs(b)...)
		return err
	}

	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := sp.Exec(ctx, insertBookingSQL, insertArgs(b)...); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

const updateBookingSQL = `
UPDATE bookings SET
	check_in_date = $2,
	check_out_date = $3,
	number_of_guests = $4,
	total_price_cents = $5,
	status = $6,
	special_requests = $7,
	payment_status = $8,
	payment_method = $9,
	paid_amount_cents = $10,
	cancelled_at = $11,
	cancellation_reason = $12,
	updated_at = $13
WHERE id = $1`

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	var paidAmount *int64
	if b.PaidAmount() != nil {
		cents := b.PaidAmount().Cents()
		paidAmount = &cents
	}

	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(),
		pgconv.DateToPgtype(b.Stay().CheckIn()),
		pgconv.DateToPgtype(b.Stay().CheckOut()),
		int32(b.Guests().Value()),
		b.TotalPrice().Cents(),
		b.Status().String(),
		nullableString(b.SpecialRequests()),
		b.PaymentStatus().String(),
		pgconv.StringPtrToPgtype(b.PaymentMethod()),
		pgconv.Int64PtrToPgtype(paidAmount),
		pgconv.TimePtrToPgtype(b.CancelledAt()),
		pgconv.StringPtrToPgtype(b.CancellationReason()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrCodeExclusionViolation {
			return infra.WrapRepoErr("booking dates overlap an existing booking", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const selectBookingColumns = `
	id, room_id, user_id, check_in_date, check_out_date,
	number_of_guests, total_price_cents, status, special_requests,
	confirmation_code, payment_status, payment_method, paid_amount_cents,
	cancelled_at, cancellation_reason, created_at, updated_at`

// FindByID takes a row lock so concurrent transitions on the same booking
// serialize on the guard check.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+selectBookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return b, nil
}

// LockRoom serializes the check-and-write critical section per room for the
// remainder of the transaction.
func (r *BookingRepository) LockRoom(ctx context.Context, roomID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, roomID)
	if err != nil {
		return infra.WrapRepoErr("failed to acquire room lock", err)
	}
	return nil
}

const overlapSQL = `
SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE room_id = $1
	  AND NOT (status = ANY($2))
	  AND check_in_date < $3
	  AND check_out_date > $4
	  AND ($5::uuid IS NULL OR id <> $5)
)`

// HasOverlap answers the availability oracle's question with half-open
// interval semantics: [a,b) and [c,d) overlap iff a < d and c < b.
func (r *BookingRepository) HasOverlap(ctx context.Context, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) (bool, error) {
	inactive := booking.InactiveStatuses()
	statuses := make([]string, len(inactive))
	for i, s := range inactive {
		statuses[i] = s.String()
	}

	var exclude pgtype.UUID
	if excludeID != nil {
		exclude = pgtype.UUID{Bytes: *excludeID, Valid: true}
	}

	var exists bool
	err := r.db.QueryRow(ctx, overlapSQL,
		roomID,
		statuses,
		pgconv.DateToPgtype(stay.CheckOut()),
		pgconv.DateToPgtype(stay.CheckIn()),
		exclude,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

const dueNoShowsSQL = `
SELECT` + selectBookingColumns + `
FROM bookings
WHERE status = $1 AND check_in_date < $2
ORDER BY check_in_date
LIMIT $3
FOR UPDATE SKIP LOCKED`

func (r *BookingRepository) FindDueNoShows(ctx context.Context, today time.Time, limit int32) ([]*booking.Booking, error) {
	rows, err := r.db.Query(ctx, dueNoShowsSQL,
		booking.StatusConfirmed.String(),
		pgconv.DateToPgtype(today),
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find due no-shows", err)
	}
	defer rows.Close()

	var result []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan due no-show", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate due no-shows", err)
	}
	return result, nil
}

func insertArgs(b *booking.Booking) []any {
	var paidAmount *int64
	if b.PaidAmount() != nil {
		cents := b.PaidAmount().Cents()
		paidAmount = &cents
	}
	return []any{
		b.ID(),
		b.RoomID(),
		b.UserID(),
		pgconv.DateToPgtype(b.Stay().CheckIn()),
		pgconv.DateToPgtype(b.Stay().CheckOut()),
		int32(b.Guests().Value()),
		b.TotalPrice().Cents(),
		b.Status().String(),
		nullableString(b.SpecialRequests()),
		b.ConfirmationCode(),
		b.PaymentStatus().String(),
		pgconv.StringPtrToPgtype(b.PaymentMethod()),
		pgconv.Int64PtrToPgtype(paidAmount),
		pgconv.TimePtrToPgtype(b.CancelledAt()),
		pgconv.StringPtrToPgtype(b.CancellationReason()),
		pgconv.TimeToPgtype(b.CreatedAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, roomID, userID   uuid.UUID
		checkIn, checkOut    pgtype.Date
		guests               int32
		totalPriceCents      int64
		status               string
		specialRequests      pgtype.Text
		confirmationCode     string
		paymentStatus        string
		paymentMethod        pgtype.Text
		paidAmountCents      pgtype.Int8
		cancelledAt          pgtype.Timestamptz
		cancellationReason   pgtype.Text
		createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &roomID, &userID, &checkIn, &checkOut,
		&guests, &totalPriceCents, &status, &specialRequests,
		&confirmationCode, &paymentStatus, &paymentMethod, &paidAmountCents,
		&cancelledAt, &cancellationReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	guestCount, err := booking.NewGuestCount(int(guests))
	if err != nil {
		return nil, err
	}
	totalPrice, err := booking.NewMoney(totalPriceCents)
	if err != nil {
		return nil, err
	}
	var paidAmount *booking.Money
	if amount := pgconv.Int64PtrFromPgtype(paidAmountCents); amount != nil {
		m, err := booking.NewMoney(*amount)
		if err != nil {
			return nil, err
		}
		paidAmount = &m
	}

	special := ""
	if s := pgconv.StringPtrFromPgtype(specialRequests); s != nil {
		special = *s
	}

	return booking.Reconstruct(
		id, roomID, userID,
		booking.ReconstructStayPeriod(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut)),
		guestCount,
		totalPrice,
		booking.Status(status),
		special,
		confirmationCode,
		booking.PaymentStatus(paymentStatus),
		pgconv.StringPtrFromPgtype(paymentMethod),
		paidAmount,
		pgconv.TimePtrFromPgtype(cancelledAt),
		pgconv.StringPtrFromPgtype(cancellationReason),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimeFromPgtype(updatedAt),
	), nil
}

func nullableString(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
