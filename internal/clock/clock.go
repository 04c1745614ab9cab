package clock

import (
	"math"
	"time"
)

// Day is the fixed 24h unit used for every horizon and day count.
const Day = 24 * time.Hour

// Clock supplies "now". Handlers and services take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// AddDays moves t forward by n fixed days (not calendar days).
func AddDays(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * Day)
}

// DaysUntil returns ceil((exp - now) / 1 day). A partial day remaining counts as a full day;
// the result is negative once exp is more than a full day in the past.
func DaysUntil(exp, now time.Time) int {
	d := math.Ceil(exp.Sub(now).Hours() / 24)
	if d == 0 {
		// normalise -0
		return 0
	}
	return int(d)
}
