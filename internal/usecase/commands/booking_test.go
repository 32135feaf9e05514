//go:build unit

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"hotel-booking/internal/domain/booking"
	"hotel-booking/internal/infra"
	"hotel-booking/internal/pkg/clock"
	"hotel-booking/internal/pkg/errs"
	"hotel-booking/internal/usecase/queries"
	"hotel-booking/internal/usecase/shared"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory unit of work. Transactions are simulated by snapshotting the
// booking map and restoring it when the callback fails.

type fakeTx struct {
	bookings *fakeBookingRepo
	outbox   *fakeOutbox
}

func (t *fakeTx) Bookings() shared.BookingRepository { return t.bookings }
func (t *fakeTx) Outbox() shared.OutboxRepository    { return t.outbox }

type fakeUoW struct {
	tx *fakeTx
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := u.tx.bookings.snapshot()
	outboxLen := len(u.tx.outbox.jobs)
	if err := fn(ctx, u.tx); err != nil {
		u.tx.bookings.restore(snapshot)
		u.tx.outbox.jobs = u.tx.outbox.jobs[:outboxLen]
		return err
	}
	return nil
}

type fakeBookingRepo struct {
	store       map[uuid.UUID]*booking.Booking
	lockedRooms []uuid.UUID
	createErr   error
	deleted     []uuid.UUID
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{store: map[uuid.UUID]*booking.Booking{}}
}

func (r *fakeBookingRepo) snapshot() map[uuid.UUID]*booking.Booking {
	out := make(map[uuid.UUID]*booking.Booking, len(r.store))
	for k, v := range r.store {
		clone := *v
		out[k] = &clone
	}
	return out
}

func (r *fakeBookingRepo) restore(snapshot map[uuid.UUID]*booking.Booking) {
	r.store = snapshot
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.store {
		if existing.ConfirmationCode() == b.ConfirmationCode() {
			return infra.WrapRepoErr("duplicate confirmation code", nil, infra.KindDuplicateKey)
		}
	}
	r.store[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, ok := r.store[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	r.store[b.ID()] = b
	return nil
}

func (r *fakeBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.store, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.store[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (r *fakeBookingRepo) LockRoom(_ context.Context, roomID uuid.UUID) error {
	r.lockedRooms = append(r.lockedRooms, roomID)
	return nil
}

func (r *fakeBookingRepo) HasOverlap(_ context.Context, roomID uuid.UUID, stay booking.StayPeriod, excludeID *uuid.UUID) (bool, error) {
	for id, b := range r.store {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.RoomID() != roomID || !b.IsActive() {
			continue
		}
		if b.Stay().Overlaps(stay) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindDueNoShows(_ context.Context, today time.Time, limit int32) ([]*booking.Booking, error) {
	var due []*booking.Booking
	for _, b := range r.store {
		if b.Status() == booking.StatusConfirmed && b.Stay().CheckIn().Before(today) {
			due = append(due, b)
		}
		if int32(len(due)) >= limit {
			break
		}
	}
	return due, nil
}

type fakeOutbox struct {
	jobs []shared.OutboxJob
}

func (o *fakeOutbox) Enqueue(_ context.Context, job shared.OutboxJob) error {
	o.jobs = append(o.jobs, job)
	return nil
}

func (o *fakeOutbox) kinds() []string {
	out := make([]string, len(o.jobs))
	for i, j := range o.jobs {
		out[i] = j.Kind
	}
	return out
}

type fakeRoomGateway struct {
	rooms map[uuid.UUID]*shared.RoomSnapshot
	err   error
}

func (g *fakeRoomGateway) GetRoom(_ context.Context, roomID uuid.UUID) (*shared.RoomSnapshot, error) {
	if g.err != nil {
		return nil, g.err
	}
	room, ok := g.rooms[roomID]
	if !ok {
		return nil, infra.WrapRepoErr("room not found", nil, infra.KindNotFound)
	}
	return room, nil
}

type fakeUserGateway struct {
	exists bool
	err    error
}

func (g *fakeUserGateway) Exists(context.Context, uuid.UUID) (bool, error) {
	return g.exists, g.err
}

// fakeQueries serves GetByID from the write store so command results reflect
// the committed state.
type fakeQueries struct {
	repo *fakeBookingRepo
}

func (q *fakeQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.repo.store[id]
	if !ok {
		return nil, errs.ErrBookingNotFound
	}
	return &queries.BookingView{
		ID:               b.ID(),
		RoomID:           b.RoomID(),
		UserID:           b.UserID(),
		CheckInDate:      b.Stay().CheckIn(),
		CheckOutDate:     b.Stay().CheckOut(),
		NumberOfNights:   b.Stay().Nights(),
		NumberOfGuests:   b.Guests().Value(),
		TotalPriceCents:  b.TotalPrice().Cents(),
		Status:           b.Status().String(),
		ConfirmationCode: b.ConfirmationCode(),
		PaymentStatus:    b.PaymentStatus().String(),
	}, nil
}

func (q *fakeQueries) GetByConfirmationCode(context.Context, string) (*queries.BookingView, error) {
	return nil, errs.ErrBookingNotFound
}
func (q *fakeQueries) ListByUser(context.Context, uuid.UUID) ([]*queries.BookingView, error) {
	return nil, nil
}
func (q *fakeQueries) ListActiveByUser(context.Context, uuid.UUID) ([]*queries.BookingView, error) {
	return nil, nil
}
func (q *fakeQueries) ListByRoom(context.Context, uuid.UUID) ([]*queries.BookingView, error) {
	return nil, nil
}
func (q *fakeQueries) ListUpcoming(context.Context) ([]*queries.BookingView, error) {
	return nil, nil
}
func (q *fakeQueries) ListTodayCheckIns(context.Context) ([]*queries.BookingView, error) {
	return nil, nil
}
func (q *fakeQueries) ListTodayCheckOuts(context.Context) ([]*queries.BookingView, error) {
	return nil, nil
}

type recordingObserver struct {
	events []shared.TransitionEvent
}

func (o *recordingObserver) BookingTransitioned(_ context.Context, event shared.TransitionEvent) {
	o.events = append(o.events, event)
}

// Fixture wires the engine against the fakes with a frozen clock.

type fixture struct {
	commands BookingCommands
	repo     *fakeBookingRepo
	outbox   *fakeOutbox
	rooms    *fakeRoomGateway
	users    *fakeUserGateway
	observer *recordingObserver
	clock    *clock.MockClock
	roomID   uuid.UUID
	userID   uuid.UUID
}

func newFixture() *fixture {
	repo := newFakeBookingRepo()
	outbox := &fakeOutbox{}
	roomID := uuid.New()
	rooms := &fakeRoomGateway{rooms: map[uuid.UUID]*shared.RoomSnapshot{
		roomID: {
			ID:           roomID,
			RoomNumber:   "204",
			NightlyRate:  12000,
			MaxOccupancy: 4,
			Status:       booking.RoomAvailable,
		},
	}}
	users := &fakeUserGateway{exists: true}
	observer := &recordingObserver{}
	clk := clock.NewMockClock(time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC))
	q := &fakeQueries{repo: repo}

	return &fixture{
		commands: NewBookingCommands(&fakeUoW{tx: &fakeTx{bookings: repo, outbox: outbox}}, rooms, users, q, observer, clk),
		repo:     repo,
		outbox:   outbox,
		rooms:    rooms,
		users:    users,
		observer: observer,
		clock:    clk,
		roomID:   roomID,
		userID:   uuid.New(),
	}
}

func (f *fixture) createParams() CreateBookingParams {
	return CreateBookingParams{
		RoomID:         f.roomID,
		UserID:         f.userID,
		CheckInDate:    booking.Date(2025, time.March, 1),
		CheckOutDate:   booking.Date(2025, time.March, 4),
		NumberOfGuests: 2,
	}
}

func (f *fixture) createBooking(t *testing.T) *queries.BookingView {
	t.Helper()
	view, err := f.commands.Create(context.Background(), f.createParams())
	require.NoError(t, err)
	return view
}

func (f *fixture) confirmBooking(t *testing.T, id uuid.UUID) {
	t.Helper()
	_, err := f.commands.Confirm(context.Background(), id, ConfirmBookingParams{
		AmountCents:   36000,
		PaymentMethod: "CREDIT_CARD",
	})
	require.NoError(t, err)
}

// ================================================================================
// Create
// ================================================================================

func TestCreate_Succeeds(t *testing.T) {
	f := newFixture()

	view := f.createBooking(t)

	assert.Equal(t, booking.StatusPending.String(), view.Status)
	assert.Equal(t, int64(36000), view.TotalPriceCents)
	assert.Equal(t, 3, view.NumberOfNights)
	assert.Contains(t, view.ConfirmationCode, "BK-")

	require.Len(t, f.outbox.jobs, 1)
	assert.Equal(t, shared.JobRoomStatus, f.outbox.jobs[0].Kind)
	var payload shared.RoomStatusJobPayload
	require.NoError(t, json.Unmarshal(f.outbox.jobs[0].Payload, &payload))
	assert.Equal(t, booking.RoomReserved, payload.Status)

	require.Len(t, f.observer.events, 1)
	assert.Equal(t, booking.StatusPending, f.observer.events[0].To)

	assert.Equal(t, []uuid.UUID{f.roomID}, f.repo.lockedRooms)
}

func TestCreate_RejectsOverlap(t *testing.T) {
	f := newFixture()
	f.createBooking(t)

	overlapping := f.createParams()
	overlapping.CheckInDate = booking.Date(2025, time.March, 3)
	overlapping.CheckOutDate = booking.Date(2025, time.March, 6)

	_, err := f.commands.Create(context.Background(), overlapping)
	require.ErrorIs(t, err, errs.ErrBookingConflict)
	assert.Len(t, f.repo.store, 1)
	// The rejected attempt leaves no side effect jobs behind.
	assert.Len(t, f.outbox.jobs, 1)
}

func TestCreate_AllowsBackToBackStays(t *testing.T) {
	f := newFixture()
	f.createBooking(t)

	// Checkout day equals the next check-in day; half-open ranges do not touch.
	adjacent := f.createParams()
	adjacent.CheckInDate = booking.Date(2025, time.March, 4)
	adjacent.CheckOutDate = booking.Date(2025, time.March, 7)

	_, err := f.commands.Create(context.Background(), adjacent)
	require.NoError(t, err)
	assert.Len(t, f.repo.store, 2)
}

func TestCreate_ReleasedDatesAreRebookable(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	_, err := f.commands.Cancel(context.Background(), view.ID, "plans changed")
	require.NoError(t, err)

	_, err = f.commands.Create(context.Background(), f.createParams())
	require.NoError(t, err)
}

func TestCreate_ValidationFailures(t *testing.T) {
	f := newFixture()

	t.Run("check-out not after check-in", func(t *testing.T) {
		params := f.createParams()
		params.CheckOutDate = params.CheckInDate
		_, err := f.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrInvalidStayPeriod)
	})

	t.Run("check-in in the past", func(t *testing.T) {
		params := f.createParams()
		params.CheckInDate = booking.Date(2025, time.January, 20)
		params.CheckOutDate = booking.Date(2025, time.January, 22)
		_, err := f.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrInvalidStayPeriod)
	})

	t.Run("zero guests", func(t *testing.T) {
		params := f.createParams()
		params.NumberOfGuests = 0
		_, err := f.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrInvalidGuestCount)
	})

	t.Run("guests exceed room capacity", func(t *testing.T) {
		params := f.createParams()
		params.NumberOfGuests = 5
		_, err := f.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrGuestsExceedRoom)
	})

	t.Run("unknown user", func(t *testing.T) {
		f.users.exists = false
		defer func() { f.users.exists = true }()
		_, err := f.commands.Create(context.Background(), f.createParams())
		require.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("unknown room", func(t *testing.T) {
		params := f.createParams()
		params.RoomID = uuid.New()
		_, err := f.commands.Create(context.Background(), params)
		require.ErrorIs(t, err, errs.ErrRoomNotFound)
	})

	t.Run("room under maintenance", func(t *testing.T) {
		f.rooms.rooms[f.roomID].Status = booking.RoomMaintenance
		defer func() { f.rooms.rooms[f.roomID].Status = booking.RoomAvailable }()
		_, err := f.commands.Create(context.Background(), f.createParams())
		require.ErrorIs(t, err, errs.ErrRoomNotAvailable)
	})
}

func TestCreate_PriceIsComputedAtCreation(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	require.Equal(t, int64(36000), view.TotalPriceCents)

	// A later rate change never reprices an existing booking.
	f.rooms.rooms[f.roomID].NightlyRate = 99000
	f.confirmBooking(t, view.ID)

	after, err := f.commands.CheckIn(context.Background(), view.ID)
	require.Error(t, err) // too early, price still untouched
	_ = after

	current, err := f.repo.FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(36000), current.TotalPrice().Cents())
}

// ================================================================================
// Lifecycle transitions
// ================================================================================

func TestConfirm_RecordsPaymentAndEnqueuesJob(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	confirmed, err := f.commands.Confirm(context.Background(), view.ID, ConfirmBookingParams{
		AmountCents:   36000,
		PaymentMethod: "CREDIT_CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed.String(), confirmed.Status)

	assert.Equal(t, []string{shared.JobRoomStatus, shared.JobCreatePayment}, f.outbox.kinds())
	var payload shared.CreatePaymentJobPayload
	require.NoError(t, json.Unmarshal(f.outbox.jobs[1].Payload, &payload))
	want := shared.CreatePaymentJobPayload{
		BookingID:        view.ID,
		ConfirmationCode: view.ConfirmationCode,
		AmountCents:      36000,
		PaymentMethod:    "CREDIT_CARD",
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payment job payload mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, f.observer.events, 2)
	assert.Equal(t, booking.StatusPending, f.observer.events[1].From)
	assert.Equal(t, booking.StatusConfirmed, f.observer.events[1].To)
}

func TestConfirm_TwiceFails(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	f.confirmBooking(t, view.ID)

	_, err := f.commands.Confirm(context.Background(), view.ID, ConfirmBookingParams{
		AmountCents:   36000,
		PaymentMethod: "CREDIT_CARD",
	})
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestCheckIn_RespectsCheckInDate(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	f.confirmBooking(t, view.ID)

	_, err := f.commands.CheckIn(context.Background(), view.ID)
	require.ErrorIs(t, err, errs.ErrCheckInTooEarly)

	f.clock.Set(time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC))
	checkedIn, err := f.commands.CheckIn(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedIn.String(), checkedIn.Status)

	// Room flips to occupied via the outbox.
	kinds := f.outbox.kinds()
	assert.Equal(t, shared.JobRoomStatus, kinds[len(kinds)-1])
}

func TestCheckOut_ReleasesRoom(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	f.confirmBooking(t, view.ID)
	f.clock.Set(time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC))
	_, err := f.commands.CheckIn(context.Background(), view.ID)
	require.NoError(t, err)

	f.clock.Set(time.Date(2025, 3, 4, 11, 0, 0, 0, time.UTC))
	checkedOut, err := f.commands.CheckOut(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedOut.String(), checkedOut.Status)

	last := f.outbox.jobs[len(f.outbox.jobs)-1]
	var payload shared.RoomStatusJobPayload
	require.NoError(t, json.Unmarshal(last.Payload, &payload))
	assert.Equal(t, booking.RoomAvailable, payload.Status)
}

func TestCancel_FromCheckedInFails(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	f.confirmBooking(t, view.ID)
	f.clock.Set(time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC))
	_, err := f.commands.CheckIn(context.Background(), view.ID)
	require.NoError(t, err)

	_, err = f.commands.Cancel(context.Background(), view.ID, "too late")
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestTransitions_TerminalStatesRefuseEverything(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	_, err := f.commands.Cancel(context.Background(), view.ID, "no longer needed")
	require.NoError(t, err)

	_, err = f.commands.Confirm(context.Background(), view.ID, ConfirmBookingParams{AmountCents: 36000, PaymentMethod: "CASH"})
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.commands.CheckIn(context.Background(), view.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.commands.CheckOut(context.Background(), view.ID)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = f.commands.Cancel(context.Background(), view.ID, "again")
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestTransition_UnknownBooking(t *testing.T) {
	f := newFixture()
	_, err := f.commands.CheckIn(context.Background(), uuid.New())
	require.ErrorIs(t, err, errs.ErrBookingNotFound)
}

// ================================================================================
// Update
// ================================================================================

func TestUpdate_ReschedulesAndReprices(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	f.rooms.rooms[f.roomID].NightlyRate = 15000
	newCheckOut := booking.Date(2025, time.March, 6)

	updated, err := f.commands.Update(context.Background(), view.ID, UpdateBookingParams{
		CheckOutDate: &newCheckOut,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.NumberOfNights)
	assert.Equal(t, int64(75000), updated.TotalPriceCents)
}

func TestUpdate_OverlapWithOtherBookingFails(t *testing.T) {
	f := newFixture()
	first := f.createBooking(t)

	second := f.createParams()
	second.CheckInDate = booking.Date(2025, time.March, 10)
	second.CheckOutDate = booking.Date(2025, time.March, 12)
	secondView, err := f.commands.Create(context.Background(), second)
	require.NoError(t, err)

	// Slide the second booking onto the first one's dates.
	newCheckIn := booking.Date(2025, time.March, 2)
	newCheckOut := booking.Date(2025, time.March, 5)
	_, err = f.commands.Update(context.Background(), secondView.ID, UpdateBookingParams{
		CheckInDate:  &newCheckIn,
		CheckOutDate: &newCheckOut,
	})
	require.ErrorIs(t, err, errs.ErrBookingConflict)

	// Excluding itself, shrinking within its own dates is fine.
	newCheckOut = booking.Date(2025, time.March, 11)
	_, err = f.commands.Update(context.Background(), secondView.ID, UpdateBookingParams{
		CheckOutDate: &newCheckOut,
	})
	require.NoError(t, err)
	_ = first
}

func TestUpdate_GuestsOnlyDoesNotTouchDates(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	guests := 3
	updated, err := f.commands.Update(context.Background(), view.ID, UpdateBookingParams{
		NumberOfGuests: &guests,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.NumberOfGuests)
	assert.Equal(t, view.TotalPriceCents, updated.TotalPriceCents)
	assert.Empty(t, f.repo.lockedRooms[1:], "no room lock for non-date updates")
}

func TestUpdate_GuestsExceedRoomCapacityFails(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	guests := 10
	_, err := f.commands.Update(context.Background(), view.ID, UpdateBookingParams{
		NumberOfGuests: &guests,
	})
	require.ErrorIs(t, err, errs.ErrGuestsExceedRoom)

	b, err := f.repo.FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Guests().Value())
}

func TestUpdate_CancelledBookingRefuses(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	_, err := f.commands.Cancel(context.Background(), view.ID, "")
	require.NoError(t, err)

	guests := 3
	_, err = f.commands.Update(context.Background(), view.ID, UpdateBookingParams{NumberOfGuests: &guests})
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

// ================================================================================
// Delete
// ================================================================================

func TestDelete_ActiveBookingRefuses(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)

	err := f.commands.Delete(context.Background(), view.ID)
	require.ErrorIs(t, err, errs.ErrBookingActive)
	assert.Empty(t, f.repo.deleted)
}

func TestDelete_InactiveBookingSucceeds(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	_, err := f.commands.Cancel(context.Background(), view.ID, "")
	require.NoError(t, err)

	require.NoError(t, f.commands.Delete(context.Background(), view.ID))
	assert.Equal(t, []uuid.UUID{view.ID}, f.repo.deleted)
}

// ================================================================================
// SweepNoShows
// ================================================================================

func TestSweepNoShows_MarksOverdueConfirmed(t *testing.T) {
	f := newFixture()
	view := f.createBooking(t)
	f.confirmBooking(t, view.ID)

	// Day after the stay began with no check-in.
	f.clock.Set(time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC))

	swept, err := f.commands.SweepNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	b, err := f.repo.FindByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusNoShow, b.Status())

	last := f.observer.events[len(f.observer.events)-1]
	assert.Equal(t, booking.StatusNoShow, last.To)
}

func TestSweepNoShows_SkipsPendingAndFuture(t *testing.T) {
	f := newFixture()
	pending := f.createBooking(t)

	confirmedFuture := f.createParams()
	confirmedFuture.CheckInDate = booking.Date(2025, time.April, 1)
	confirmedFuture.CheckOutDate = booking.Date(2025, time.April, 3)
	view, err := f.commands.Create(context.Background(), confirmedFuture)
	require.NoError(t, err)
	f.confirmBooking(t, view.ID)

	f.clock.Set(time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC))
	swept, err := f.commands.SweepNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, swept)

	b, err := f.repo.FindByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b.Status())
}

// ================================================================================
// Failure isolation
// ================================================================================

func TestCreate_FailedTransactionLeavesNoTrace(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("connection reset")

	_, err := f.commands.Create(context.Background(), f.createParams())
	require.Error(t, err)
	assert.Empty(t, f.repo.store)
	assert.Empty(t, f.outbox.jobs)
	assert.Empty(t, f.observer.events)
}

func TestCreate_UserServiceErrorSurfaces(t *testing.T) {
	f := newFixture()
	f.users.err = errors.New("user service timeout")

	_, err := f.commands.Create(context.Background(), f.createParams())
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrUserNotFound)
}
