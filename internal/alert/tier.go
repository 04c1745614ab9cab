package alert

import (
	"time"

	"github.com/username/fleet-compliance-api/internal/clock"
)

// TierFor picks the single alert tier for an expiration date, most severe first.
// It returns false when the document is more than 30 days out.
func TierFor(exp time.Time, now time.Time) (Type, bool) {
	switch {
	case exp.Before(now):
		return TypeExpired, true
	case !exp.After(clock.AddDays(now, 7)):
		return TypeExpiring7, true
	case !exp.After(clock.AddDays(now, 15)):
		return TypeExpiring15, true
	case !exp.After(clock.AddDays(now, 30)):
		return TypeExpiring30, true
	}
	return "", false
}
