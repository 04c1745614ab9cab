package docstatus

import "time"

// Summary is the per-entity rollup shown on fleet and personnel listings.
type Summary struct {
	NextExpiration *time.Time `json:"next_expiration"`
	GlobalStatus   Status     `json:"global_status"`
	CriticalCount  int        `json:"critical_count"`
}

// Rollup folds the expiration dates of one entity's active documents.
// The next expiration is the earliest date present, overdue ones included; the global status
// is the worst document status. An entity without documents rolls up to valid.
func Rollup(dates []*time.Time, now time.Time) Summary {
	sum := Summary{GlobalStatus: Valid}
	for _, exp := range dates {
		res := Classify(exp, now)
		if Worse(res.Status, sum.GlobalStatus) {
			sum.GlobalStatus = res.Status
		}
		if res.Status == Expired || res.Status == Expiring {
			sum.CriticalCount++
		}
		if exp == nil {
			continue
		}
		if sum.NextExpiration == nil || exp.Before(*sum.NextExpiration) {
			e := *exp
			sum.NextExpiration = &e
		}
	}
	return sum
}

// Counts is the dashboard tally of active documents by status.
type Counts struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

func Tally(dates []*time.Time, now time.Time) Counts {
	var c Counts
	for _, exp := range dates {
		c.Total++
		switch Classify(exp, now).Status {
		case Expired:
			c.Expired++
		case Expiring:
			c.Expiring++
		default:
			c.Valid++
		}
	}
	return c
}
