package rating

import "errors"

// Sentinel kinds for rating errors.
var (
	// ErrInsufficientData is returned when fewer than two players are found
	// or the dominance matrix has no usable principal eigenvector.
	ErrInsufficientData = errors.New("insufficient data for ranking")
)
