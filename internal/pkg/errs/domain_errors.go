package errs

import "errors"

// Sentinel errors shared by the booking usecase layers. Handlers map these to
// HTTP statuses; anything unmarked surfaces as an internal error.
var (
	// Not-found errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrUserNotFound    = errors.New("user not found")

	// Validation errors
	ErrInvalidStayPeriod = errors.New("invalid stay period")
	ErrInvalidGuestCount = errors.New("invalid guest count")
	ErrGuestsExceedRoom  = errors.New("guest count exceeds room occupancy")
	ErrDomainValidation  = errors.New("domain validation error")

	// Conflict errors
	ErrBookingConflict           = errors.New("booking dates conflict")
	ErrRoomNotAvailable          = errors.New("room not available")
	ErrBookingActive             = errors.New("booking is still active")
	ErrConfirmationCodeExhausted = errors.New("confirmation code generation exhausted")

	// Invalid-state errors
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrCheckInTooEarly   = errors.New("check-in date not reached")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
