package docstatus

import (
	"time"

	"github.com/username/fleet-compliance-api/internal/clock"
)

// Status is the derived (never persisted) state of a document.
type Status string

const (
	Valid    Status = "valid"
	Expiring Status = "expiring"
	Expired  Status = "expired"
	// Missing only appears when a requirement has no matching document at all.
	Missing Status = "missing"
)

// ExpiringWindowDays is how far ahead a document starts counting as expiring.
const ExpiringWindowDays = 30

// Result is the classifier output for one document.
type Result struct {
	Status              Status `json:"status"`
	DaysUntilExpiration *int   `json:"days_until_expiration,omitempty"`
}

// Classify maps an expiration date to a status relative to now.
//
// No date means the document never expires and is valid. An expiration at or before now is
// expired; anything up to and including now+30d is expiring.
func Classify(exp *time.Time, now time.Time) Result {
	if exp == nil {
		return Result{Status: Valid}
	}

	days := clock.DaysUntil(*exp, now)
	res := Result{DaysUntilExpiration: &days}

	switch {
	case !exp.After(now):
		res.Status = Expired
	case !exp.After(clock.AddDays(now, ExpiringWindowDays)):
		res.Status = Expiring
	default:
		res.Status = Valid
	}
	return res
}

// Magnitude returns the unsigned day count for display ("3 days overdue", "in 3 days").
func (r Result) Magnitude() (int, bool) {
	if r.DaysUntilExpiration == nil {
		return 0, false
	}
	d := *r.DaysUntilExpiration
	if d < 0 {
		d = -d
	}
	return d, true
}

// severity orders statuses for rollups; higher is worse.
func severity(s Status) int {
	switch s {
	case Expired:
		return 3
	case Missing:
		return 2
	case Expiring:
		return 1
	default:
		return 0
	}
}

// Worse reports whether a is more severe than b.
func Worse(a, b Status) bool {
	return severity(a) > severity(b)
}
