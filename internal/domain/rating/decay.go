package rating

import (
	"math"
	"time"

	"github.com/okian/pacpong/internal/domain/model"
)

const hoursPerDay = 24

// DaysBetween returns the number of whole calendar days from date to
// reference. Both are reduced to calendar dates first.
func DaysBetween(date, reference time.Time) int {
	d := model.CalendarDate(date)
	r := model.CalendarDate(reference)
	return int(math.Round(r.Sub(d).Hours() / hoursPerDay))
}

// DecayFactor weighs a match that is days old. It is 1 for today, falls
// linearly, and is 0 from decayDays onwards. Matches dated after the
// reference day count as today.
func DecayFactor(days, decayDays int) float64 {
	f := 1 - float64(days)/float64(decayDays)
	return math.Max(0, math.Min(1, f))
}
