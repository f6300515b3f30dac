package model

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord marks match data that is missing a field or cannot be parsed.
var ErrMalformedRecord = errors.New("malformed match record")

// RecordError annotates a malformed record with its position in the log.
type RecordError struct {
	// Row is the 1-based data row (header excluded).
	Row int
	// Field names the offending column, if known.
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, field %s: %v", e.Row, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
