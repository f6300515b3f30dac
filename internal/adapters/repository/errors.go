package repository

import "errors"

// Sentinel kinds for results store errors.
var (
	// ErrSourceUnavailable is returned when match records cannot be read,
	// either because the backend is unreachable or a row is malformed.
	ErrSourceUnavailable = errors.New("match source unavailable")
	// ErrSinkUnavailable is returned when the ranking cannot be written.
	ErrSinkUnavailable = errors.New("ranking sink unavailable")
)
