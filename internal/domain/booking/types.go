package booking

// Status is the booking lifecycle state. The happy path is
// PENDING → CONFIRMED → CHECKED_IN → CHECKED_OUT; CANCELLED and NO_SHOW are
// alternate terminal states reachable from PENDING or CONFIRMED.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsActive is the single active-booking predicate: it decides both which
// bookings block a room's dates and which bookings refuse deletion. Keep the
// overlap query's exclusion list derived from this, never duplicated inline.
func (s Status) IsActive() bool {
	switch s {
	case StatusCancelled, StatusCheckedOut, StatusNoShow:
		return false
	default:
		return true
	}
}

// InactiveStatuses is the NOT IN list for the overlap and active-list queries,
// derived from IsActive so the two call sites cannot drift.
func InactiveStatuses() []Status {
	all := []Status{
		StatusPending, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCancelled, StatusNoShow,
	}
	out := make([]Status, 0, len(all))
	for _, s := range all {
		if !s.IsActive() {
			out = append(out, s)
		}
	}
	return out
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentRefunded      PaymentStatus = "REFUNDED"
	PaymentFailed        PaymentStatus = "FAILED"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartiallyPaid, PaymentRefunded, PaymentFailed:
		return true
	default:
		return false
	}
}

// RoomStatus is the room service's coarse occupancy flag. It is best-effort
// signaling only; overlap safety always comes from the booking store.
type RoomStatus string

const (
	RoomAvailable    RoomStatus = "AVAILABLE"
	RoomOccupied     RoomStatus = "OCCUPIED"
	RoomReserved     RoomStatus = "RESERVED"
	RoomMaintenance  RoomStatus = "MAINTENANCE"
	RoomOutOfService RoomStatus = "OUT_OF_SERVICE"
)

func (s RoomStatus) String() string {
	return string(s)
}
