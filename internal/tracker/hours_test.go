package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/strideapp/stride-cli/internal/settings"
	"github.com/strideapp/stride-cli/internal/tracker"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestIntervalContainsSimpleRange(t *testing.T) {
	t.Parallel()
	iv := settings.HoursInterval{StartMinutes: 9 * 60, EndMinutes: 17 * 60}

	assert.True(t, tracker.IntervalContains(iv, 9*60), "start boundary is inclusive")
	assert.True(t, tracker.IntervalContains(iv, 17*60), "end boundary is inclusive")
	assert.True(t, tracker.IntervalContains(iv, 12*60))
	assert.False(t, tracker.IntervalContains(iv, 9*60-1))
	assert.False(t, tracker.IntervalContains(iv, 17*60+1))
}

func TestIntervalContainsWraparound(t *testing.T) {
	t.Parallel()
	// 22:00 through 06:00 the next morning.
	iv := settings.HoursInterval{StartMinutes: 22 * 60, EndMinutes: 6 * 60}

	assert.True(t, tracker.IntervalContains(iv, 22*60), "start boundary")
	assert.True(t, tracker.IntervalContains(iv, 6*60), "end boundary")
	assert.True(t, tracker.IntervalContains(iv, 23*60+30))
	assert.True(t, tracker.IntervalContains(iv, 2*60))
	// Midpoint of the excluded range (06:00..22:00 is excluded, midpoint 14:00).
	assert.False(t, tracker.IntervalContains(iv, 14*60))
}

func TestWithinActiveHours(t *testing.T) {
	t.Parallel()
	intervals := []settings.HoursInterval{
		{StartMinutes: 9 * 60, EndMinutes: 12 * 60},
		{StartMinutes: 22 * 60, EndMinutes: 1 * 60},
	}

	assert.True(t, tracker.WithinActiveHours(intervals, at(10, 30)))
	assert.True(t, tracker.WithinActiveHours(intervals, at(23, 45)))
	assert.True(t, tracker.WithinActiveHours(intervals, at(0, 30)))
	assert.False(t, tracker.WithinActiveHours(intervals, at(15, 0)))
}

func TestWithinActiveHoursEmptySetNeverMatches(t *testing.T) {
	t.Parallel()
	assert.False(t, tracker.WithinActiveHours(nil, at(12, 0)))
	assert.False(t, tracker.WithinActiveHours([]settings.HoursInterval{}, at(0, 0)))
}
