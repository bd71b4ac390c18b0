package tracker

import (
	"time"

	"github.com/strideapp/stride-cli/internal/settings"
)

// MinuteOfDay converts a wall-clock instant to minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IntervalContains reports whether a minute-of-day falls inside the
// interval. Start > End means the interval wraps midnight, so membership is
// minute >= start OR minute <= end.
func IntervalContains(iv settings.HoursInterval, minute int) bool {
	if iv.StartMinutes <= iv.EndMinutes {
		return minute >= iv.StartMinutes && minute <= iv.EndMinutes
	}
	return minute >= iv.StartMinutes || minute <= iv.EndMinutes
}

// WithinActiveHours reports whether any configured interval contains the
// instant. No intervals configured means reminders are never permitted.
func WithinActiveHours(intervals []settings.HoursInterval, at time.Time) bool {
	minute := MinuteOfDay(at)
	for _, iv := range intervals {
		if IntervalContains(iv, minute) {
			return true
		}
	}
	return false
}
