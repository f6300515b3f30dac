// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

// DateLayout is the calendar date format used by match logs.
const DateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// MatchRecord is one played match as read from the match log.
type MatchRecord struct {
	HomePlayer string    `validate:"required"`
	AwayPlayer string    `validate:"required"`
	HomeScore  float64   `validate:"gte=0"`
	AwayScore  float64   `validate:"gte=0"`
	Date       time.Time `validate:"required"` // calendar date, midnight UTC
}

// Validate reports whether the record can be ranked. The row is only used
// to annotate the returned *RecordError.
func (m MatchRecord) Validate(row int) error {
	if math.IsInf(m.HomeScore, 0) || math.IsInf(m.AwayScore, 0) {
		return &RecordError{Row: row, Field: "score", Err: fmt.Errorf("%w: score is not finite", ErrMalformedRecord)}
	}
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &RecordError{Row: row, Field: fe.Field(), Err: fmt.Errorf("%w: failed %q", ErrMalformedRecord, fe.Tag())}
		}
		return &RecordError{Row: row, Err: fmt.Errorf("%w: %w", ErrMalformedRecord, err)}
	}
	return nil
}

// NormalizeName trims a player name and puts it in Unicode NFC form so that
// the same name typed on different devices maps to one player.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ParseDate parses a YYYY-MM-DD calendar date into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return d, nil
}

// CalendarDate returns the calendar date of t, as seen in t's location,
// expressed as midnight UTC.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
