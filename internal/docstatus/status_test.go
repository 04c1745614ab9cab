package docstatus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/fleet-compliance-api/internal/clock"
)

var now = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func at(days int) *time.Time {
	t := clock.AddDays(now, days)
	return &t
}

func TestClassify_NoExpirationIsValid(t *testing.T) {
	res := Classify(nil, now)
	assert.Equal(t, Valid, res.Status)
	assert.Nil(t, res.DaysUntilExpiration)
}

func TestClassify_ExactlyThirtyDaysIsExpiring(t *testing.T) {
	res := Classify(at(30), now)
	assert.Equal(t, Expiring, res.Status)
	require.NotNil(t, res.DaysUntilExpiration)
	assert.Equal(t, 30, *res.DaysUntilExpiration)
}

func TestClassify_JustPastThirtyDaysIsValid(t *testing.T) {
	exp := clock.AddDays(now, 30).Add(time.Second)
	assert.Equal(t, Valid, Classify(&exp, now).Status)
}

func TestClassify_ExpirationEqualToNowIsExpired(t *testing.T) {
	exp := now
	res := Classify(&exp, now)
	assert.Equal(t, Expired, res.Status)
	assert.Equal(t, 0, *res.DaysUntilExpiration)
}

func TestClassify_OverdueIsNegative(t *testing.T) {
	res := Classify(at(-1), now)
	assert.Equal(t, Expired, res.Status)
	assert.Equal(t, -1, *res.DaysUntilExpiration)

	mag, ok := res.Magnitude()
	assert.True(t, ok)
	assert.Equal(t, 1, mag)
}

func TestClassify_FiveDaysIsExpiring(t *testing.T) {
	res := Classify(at(5), now)
	assert.Equal(t, Expiring, res.Status)
	assert.Equal(t, 5, *res.DaysUntilExpiration)
}

func TestRollup(t *testing.T) {
	sum := Rollup([]*time.Time{at(90), nil, at(10), at(-3)}, now)
	assert.Equal(t, Expired, sum.GlobalStatus)
	assert.Equal(t, 2, sum.CriticalCount)
	require.NotNil(t, sum.NextExpiration)
	assert.True(t, sum.NextExpiration.Equal(*at(-3)))

	empty := Rollup(nil, now)
	assert.Equal(t, Valid, empty.GlobalStatus)
	assert.Nil(t, empty.NextExpiration)
}

func TestTally(t *testing.T) {
	c := Tally([]*time.Time{nil, at(40), at(20), at(0), at(-8)}, now)
	assert.Equal(t, Counts{Total: 5, Valid: 2, Expiring: 1, Expired: 2}, c)
}
