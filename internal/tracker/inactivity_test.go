package tracker_test

import (
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/notify"
	"github.com/strideapp/stride-cli/internal/settings"
	"github.com/strideapp/stride-cli/internal/tracker"
)

func inactivityConfig() settings.Settings {
	cfg := settings.Default()
	cfg.RemindersEnabled = true
	cfg.InactivityThresholdMin = 30
	cfg.MinSpacingSec = 60
	cfg.ActiveHours = []settings.HoursInterval{{StartMinutes: 9 * 60, EndMinutes: 17 * 60}}
	return cfg
}

// newInactivityFixture seeds movement at 09:00 so the threshold clock starts
// from a known instant.
func newInactivityFixture(t *testing.T) (*tracker.InactivityScheduler, *tracker.ActivityClock, *notify.Queue, *clock.Mock) {
	t.Helper()
	sqldb := newTestDB(t)
	mock := newMockAt(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	activity := newActivityClock(t, sqldb, mock)
	require.True(t, activity.ObserveStepCount(100))

	queue := notify.NewQueue(mock)
	sched := tracker.NewInactivityScheduler(queue, activity, inactivityConfig(), zap.NewNop())
	return sched, activity, queue, mock
}

func countKind(items []notify.Scheduled, kind model.NotificationKind) int {
	n := 0
	for _, item := range items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

func TestRearmSchedulesSingleCheckAtThreshold(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	sched.Rearm(mock.Now())
	assert.Equal(t, tracker.StateArmed, sched.State())
	next, ok := sched.NextCheck()
	require.True(t, ok)
	assert.Equal(t, mock.Now().Add(30*time.Minute), next)
	assert.Empty(t, queue.Pending())
}

func TestRearmIsIdempotent(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	sched.Rearm(mock.Now())
	first, ok := sched.NextCheck()
	require.True(t, ok)

	sched.Rearm(mock.Now())
	second, ok := sched.NextCheck()
	require.True(t, ok)

	assert.Equal(t, first, second, "re-evaluation with no state change must not drift the check")
	assert.Empty(t, queue.Pending(), "no duplicate pending reminders")
}

func TestEvaluateBeforeThresholdEmitsNothing(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	mock.Add(29 * time.Minute)
	sched.Evaluate(mock.Now())

	assert.Empty(t, queue.Pending())
	assert.Equal(t, tracker.StateArmed, sched.State())
	next, ok := sched.NextCheck()
	require.True(t, ok)
	assert.Equal(t, mock.Now().Add(time.Minute), next, "check lands exactly when the threshold does")
}

func TestEvaluatePastThresholdWithinHoursEmitsOnce(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	sched.Evaluate(mock.Now())

	pending := queue.Pending()
	assert.Equal(t, 1, countKind(pending, model.KindInactivity))
	assert.Equal(t, tracker.MaxRepeatReminders, countKind(pending, model.KindRepeatedInactivity))
	assert.Equal(t, tracker.StateRepeatArmed, sched.State())
	_, ok := sched.NextCheck()
	assert.False(t, ok, "repeat series replaces the single check")

	// The immediate reminder fires now; follow-ups land every threshold.
	due := queue.Due(mock.Now())
	require.Len(t, due, 1)
	assert.Equal(t, model.KindInactivity, due[0].Kind)
	assert.True(t, strings.HasPrefix(due[0].Identifier, "inactivity-"))

	repeats := queue.Pending()
	require.Len(t, repeats, tracker.MaxRepeatReminders)
	for k, item := range repeats {
		assert.Equal(t, mock.Now().Add(time.Duration(k+1)*30*time.Minute), item.FireAt)
	}
}

func TestEvaluateTwicePastThresholdKeepsSingleSeries(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	sched.Evaluate(mock.Now())
	require.Len(t, queue.Pending(), 1+tracker.MaxRepeatReminders)

	// A resume with an unchanged step count re-evaluates before anything
	// has been delivered; the old series must be replaced, not stacked.
	sched.Evaluate(mock.Now())

	pending := queue.Pending()
	assert.Len(t, pending, 1+tracker.MaxRepeatReminders)
	assert.Equal(t, 1, countKind(pending, model.KindInactivity))
	assert.Equal(t, tracker.MaxRepeatReminders, countKind(pending, model.KindRepeatedInactivity))
}

func TestEvaluateGuardFailureClearsStaleSeries(t *testing.T) {
	t.Parallel()
	sched, activity, queue, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	sched.Evaluate(mock.Now())
	require.NotEmpty(t, queue.Pending())

	// A reminder lands, then a check runs inside the spacing floor: the
	// scheduler steps back to Armed and the queued series goes with it.
	activity.NoteNotificationSent(mock.Now())
	mock.Add(10 * time.Second)
	sched.Evaluate(mock.Now())

	assert.Empty(t, queue.Pending(), "downgrading must not strand the old series")
	assert.Equal(t, tracker.StateArmed, sched.State())
}

func TestEvaluateOutsideActiveHoursSkipsSilently(t *testing.T) {
	t.Parallel()
	sched, activity, queue, mock := newInactivityFixture(t)

	// Movement at 17:45, check at 18:16: threshold exceeded but outside
	// the 09:00-17:00 whitelist.
	mock.Set(time.Date(2026, 3, 2, 17, 45, 0, 0, time.UTC))
	require.True(t, activity.ObserveStepCount(5000))
	mock.Set(time.Date(2026, 3, 2, 18, 16, 0, 0, time.UTC))

	sched.Evaluate(mock.Now())
	assert.Empty(t, queue.Pending())
	assert.Equal(t, tracker.StateArmed, sched.State())
}

func TestEvaluateRespectsSpacingFloor(t *testing.T) {
	t.Parallel()
	sched, activity, queue, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	activity.NoteNotificationSent(mock.Now().Add(-30 * time.Second))

	sched.Evaluate(mock.Now())
	assert.Empty(t, queue.Pending(), "a reminder 30s ago blocks another burst")
}

func TestBecameActiveCancelsRepeatSeries(t *testing.T) {
	t.Parallel()
	sched, activity, queue, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	sched.Evaluate(mock.Now())
	require.NotEmpty(t, queue.Pending())

	mock.Add(5 * time.Minute)
	require.True(t, activity.ObserveStepCount(900))
	sched.Rearm(mock.Now())

	assert.Empty(t, queue.Pending(), "movement cancels every pending reminder")
	assert.Equal(t, tracker.StateArmed, sched.State())
	next, ok := sched.NextCheck()
	require.True(t, ok)
	assert.Equal(t, mock.Now().Add(30*time.Minute), next)
}

func TestDisabledSchedulerDoesNothing(t *testing.T) {
	t.Parallel()
	sched, _, queue, mock := newInactivityFixture(t)

	cfg := inactivityConfig()
	cfg.RemindersEnabled = false
	sched.ApplySettings(cfg, mock.Now())

	assert.Equal(t, tracker.StateDisabled, sched.State())
	_, ok := sched.NextCheck()
	assert.False(t, ok)

	mock.Add(2 * time.Hour)
	sched.Evaluate(mock.Now())
	assert.Empty(t, queue.Pending())
}

func TestGuardsAllowRejectsAfterMovement(t *testing.T) {
	t.Parallel()
	sched, activity, _, mock := newInactivityFixture(t)

	mock.Add(31 * time.Minute)
	assert.True(t, sched.GuardsAllow(mock.Now()))

	require.True(t, activity.ObserveStepCount(2000))
	assert.False(t, sched.GuardsAllow(mock.Now()), "fresh movement invalidates a stale fire")
}
