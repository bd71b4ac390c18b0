package tracker

import (
	"database/sql"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/settings"
)

// ActivityClock tracks the last observed step count and the last moment real
// movement was seen. Persistence is best effort: a failed write is logged
// and the in-memory state stays authoritative.
type ActivityClock struct {
	db    *sql.DB
	clock clock.Clock
	log   *zap.Logger
	state settings.ActivityState
}

func NewActivityClock(db *sql.DB, c clock.Clock, log *zap.Logger) (*ActivityClock, error) {
	state, err := settings.LoadActivityState(db)
	if err != nil {
		return nil, err
	}
	return &ActivityClock{db: db, clock: c, log: log, state: state}, nil
}

// ObserveStepCount reports whether the observation signals movement: only a
// strictly greater count moves LastActivityTime forward.
func (a *ActivityClock) ObserveStepCount(newCount int) bool {
	if newCount <= a.state.LastStepCount {
		return false
	}
	a.state.LastStepCount = newCount
	a.state.LastActivityTime = a.clock.Now()
	a.persist()
	return true
}

// TimeSinceLastActivity is zero until the first movement is observed, so a
// fresh install does not start out "inactive forever".
func (a *ActivityClock) TimeSinceLastActivity(now time.Time) time.Duration {
	if a.state.LastActivityTime.IsZero() {
		return 0
	}
	return now.Sub(a.state.LastActivityTime)
}

// NoteNotificationSent records the send time. It must never touch
// LastActivityTime: a reminder that counted as activity would keep
// postponing its own follow-ups.
func (a *ActivityClock) NoteNotificationSent(at time.Time) {
	a.state.LastNotificationTime = at
	a.persist()
}

func (a *ActivityClock) State() settings.ActivityState {
	return a.state
}

func (a *ActivityClock) persist() {
	if err := settings.SaveActivityState(a.db, a.state); err != nil {
		a.log.Warn("persist activity state failed, keeping in-memory state",
			zap.Error(err))
	}
}
