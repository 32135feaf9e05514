package booking

import (
	"errors"
	"time"
)

const maxStayNights = 30

var (
	ErrCheckOutNotAfterCheckIn = errors.New("check-out date must be after check-in date")
	ErrCheckInInPast           = errors.New("check-in date cannot be in the past")
	ErrStayTooLong             = errors.New("stay cannot exceed 30 nights")
	ErrNotADate                = errors.New("check-in and check-out must be calendar dates")
)

// StayPeriod is a half-open calendar date range [checkIn, checkOut). Half-open
// semantics let one guest's check-out day be another guest's check-in day.
type StayPeriod struct {
	checkIn  time.Time
	checkOut time.Time
}

// NewStayPeriod validates a stay against today (a UTC midnight date).
// It enforces the creation-time rules: check-out strictly after check-in,
// check-in not in the past, at most 30 nights.
func NewStayPeriod(checkIn, checkOut, today time.Time) (StayPeriod, error) {
	if !isMidnightUTC(checkIn) || !isMidnightUTC(checkOut) {
		return StayPeriod{}, ErrNotADate
	}
	if !checkOut.After(checkIn) {
		return StayPeriod{}, ErrCheckOutNotAfterCheckIn
	}
	if checkIn.Before(today) {
		return StayPeriod{}, ErrCheckInInPast
	}
	sp := StayPeriod{checkIn: checkIn, checkOut: checkOut}
	if sp.Nights() > maxStayNights {
		return StayPeriod{}, ErrStayTooLong
	}
	return sp, nil
}

// ReconstructStayPeriod rebuilds a stored stay without re-running the
// creation-time rules; a persisted booking may legitimately start in the past.
func ReconstructStayPeriod(checkIn, checkOut time.Time) StayPeriod {
	return StayPeriod{checkIn: checkIn.UTC(), checkOut: checkOut.UTC()}
}

func (sp StayPeriod) CheckIn() time.Time {
	return sp.checkIn
}

func (sp StayPeriod) CheckOut() time.Time {
	return sp.checkOut
}

func (sp StayPeriod) Nights() int {
	return int(sp.checkOut.Sub(sp.checkIn).Hours() / 24)
}

// Overlaps reports whether two half-open ranges intersect: a < d && c < b.
// Touching ranges (one's check-out equals the other's check-in) do not overlap.
func (sp StayPeriod) Overlaps(other StayPeriod) bool {
	return sp.checkIn.Before(other.checkOut) && other.checkIn.Before(sp.checkOut)
}

func (sp StayPeriod) IsZero() bool {
	return sp.checkIn.IsZero() && sp.checkOut.IsZero()
}

func isMidnightUTC(t time.Time) bool {
	h, m, s := t.Clock()
	return t.Location() == time.UTC && h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0
}

// Date builds a UTC calendar date, the only time representation StayPeriod accepts.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var ErrNegativeMoney = errors.New("money cannot be negative")

// Money is an amount in cents.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) MultiplyNights(nights int) Money {
	return Money{cents: m.cents * int64(nights)}
}

func (m Money) Equals(other Money) bool {
	return m.cents == other.cents
}

const maxGuestsHardLimit = 20

var ErrGuestCountOutOfRange = errors.New("guest count out of range")

// GuestCount is validated against a hard sanity limit here; the per-room
// occupancy cap is checked by the lifecycle engine against the room snapshot.
type GuestCount struct {
	value int
}

func NewGuestCount(n int) (GuestCount, error) {
	if n < 1 || n > maxGuestsHardLimit {
		return GuestCount{}, ErrGuestCountOutOfRange
	}
	return GuestCount{value: n}, nil
}

func (g GuestCount) Value() int {
	return g.value
}
