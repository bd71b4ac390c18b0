package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/tracker"
)

func TestObserveStepCountOnlyStrictIncreaseSignals(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock := newMockAt(t, start)
	activity := newActivityClock(t, sqldb, mock)

	assert.True(t, activity.ObserveStepCount(100), "first positive count is movement")
	firstActivity := activity.State().LastActivityTime
	assert.Equal(t, start, firstActivity)

	mock.Add(10 * time.Minute)
	assert.False(t, activity.ObserveStepCount(100), "equal count is not movement")
	assert.False(t, activity.ObserveStepCount(40), "lower count is not movement")
	assert.Equal(t, firstActivity, activity.State().LastActivityTime)
	assert.Equal(t, 100, activity.State().LastStepCount)

	mock.Add(5 * time.Minute)
	assert.True(t, activity.ObserveStepCount(101))
	assert.Equal(t, mock.Now(), activity.State().LastActivityTime)
}

func TestNotificationSendNeverMovesActivityTime(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock := newMockAt(t, start)
	activity := newActivityClock(t, sqldb, mock)

	require.True(t, activity.ObserveStepCount(500))
	activityTime := activity.State().LastActivityTime

	mock.Add(45 * time.Minute)
	activity.NoteNotificationSent(mock.Now())

	state := activity.State()
	assert.Equal(t, activityTime, state.LastActivityTime, "reminder must not reset activity time")
	assert.Equal(t, mock.Now(), state.LastNotificationTime)
	assert.Equal(t, 45*time.Minute, activity.TimeSinceLastActivity(mock.Now()))
}

func TestActivityStateSurvivesRestart(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock := newMockAt(t, start)
	activity := newActivityClock(t, sqldb, mock)
	require.True(t, activity.ObserveStepCount(1234))

	reloaded, err := tracker.NewActivityClock(sqldb, mock, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1234, reloaded.State().LastStepCount)
	assert.Equal(t, start, reloaded.State().LastActivityTime)
}

func TestTimeSinceLastActivityZeroBeforeFirstMovement(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	mock := newMockAt(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	activity := newActivityClock(t, sqldb, mock)

	assert.Zero(t, activity.TimeSinceLastActivity(mock.Now()))
}
