package errs

import "errors"

// Domain errors
var (
	// Not found
	ErrMovieNotFound       = errors.New("movie not found")
	ErrTheaterNotFound     = errors.New("theater not found")
	ErrSeatNotFound        = errors.New("seat not found")
	ErrShowtimeNotFound    = errors.New("showtime not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrPaymentNotFound     = errors.New("payment not found")

	// Validation
	ErrEmptySeatSelection      = errors.New("at least one seat must be selected")
	ErrDuplicateSeatIDs        = errors.New("seat ids contain duplicates")
	ErrSeatNotInTheater        = errors.New("seat does not belong to the showtime's theater")
	ErrInvalidTimeWindow       = errors.New("end time must be after start time")
	ErrInvalidPrice            = errors.New("price cannot be negative")
	ErrTheaterHasShowtimes     = errors.New("theater has scheduled showtimes")
	ErrMovieHasShowtimes       = errors.New("movie has scheduled showtimes")
	ErrSeatHasReservations     = errors.New("seat is referenced by active reservations")
	ErrShowtimeHasReservations = errors.New("showtime has active reservations")

	// Conflict
	ErrSeatsAlreadyReserved = errors.New("one or more seats already reserved")
	ErrShowtimeOverlap      = errors.New("overlaps an existing show in this theater")
	ErrDuplicateSeatLabel   = errors.New("seat label already exists in this theater")
	ErrDuplicateTheaterName = errors.New("theater name already exists")

	// Forbidden
	ErrNotReservationOwner = errors.New("reservation belongs to a different user")

	// Invalid state
	ErrShowtimeAlreadyStarted  = errors.New("showtime has already started")
	ErrReservationNotHeld      = errors.New("reservation is not in a held state")
	ErrReservationTerminal     = errors.New("reservation is in a terminal state")
	ErrHoldExpired             = errors.New("hold has expired")
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")
)

// IsNotFound reports whether err is a missing-resource error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMovieNotFound) ||
		errors.Is(err, ErrTheaterNotFound) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrShowtimeNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsValidation reports whether err is a non-retryable input error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptySeatSelection) ||
		errors.Is(err, ErrDuplicateSeatIDs) ||
		errors.Is(err, ErrSeatNotInTheater) ||
		errors.Is(err, ErrInvalidTimeWindow) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrTheaterHasShowtimes) ||
		errors.Is(err, ErrMovieHasShowtimes) ||
		errors.Is(err, ErrSeatHasReservations) ||
		errors.Is(err, ErrShowtimeHasReservations)
}

// IsConflict reports whether err means the request lost a race and the
// client should refresh state and retry with a new selection.
func IsConflict(err error) bool {
	return errors.Is(err, ErrSeatsAlreadyReserved) ||
		errors.Is(err, ErrShowtimeOverlap) ||
		errors.Is(err, ErrDuplicateSeatLabel) ||
		errors.Is(err, ErrDuplicateTheaterName)
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotReservationOwner)
}

// IsInvalidState reports whether err is a lifecycle violation.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrShowtimeAlreadyStarted) ||
		errors.Is(err, ErrReservationNotHeld) ||
		errors.Is(err, ErrReservationTerminal) ||
		errors.Is(err, ErrHoldExpired) ||
		errors.Is(err, ErrPaymentAlreadyProcessed)
}
