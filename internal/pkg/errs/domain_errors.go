package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Listing errors
	ErrListingNotFound    = errors.New("listing not found")
	ErrListingUnavailable = errors.New("listing is not active")

	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrSelfBooking       = errors.New("renter and owner must differ")
	ErrDateConflict      = errors.New("date conflict")
	ErrInvalidTransition = errors.New("invalid state transition")

	// Settlement errors
	ErrIntentNotFound   = errors.New("payment intent not found")
	ErrPaymentProcessor = errors.New("payment processor error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
