package tracker

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/notify"
	"github.com/strideapp/stride-cli/internal/settings"
)

// MaxRepeatReminders caps the follow-up series after a triggered inactivity
// reminder: one follow-up per threshold interval, stopping after twelve.
const MaxRepeatReminders = 12

type InactivityState int

const (
	StateDisabled InactivityState = iota
	StateArmed
	StateRepeatArmed
)

func (s InactivityState) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateArmed:
		return "armed"
	case StateRepeatArmed:
		return "repeat_armed"
	}
	return "unknown"
}

// InactivityScheduler owns a single authoritative next-check time,
// recomputed from state instead of chained timer callbacks. Re-arming always
// cancels every pending inactivity notification first, so duplicates cannot
// fire.
type InactivityScheduler struct {
	deliverer notify.Deliverer
	activity  *ActivityClock
	log       *zap.Logger

	cfg       settings.Settings
	state     InactivityState
	nextCheck time.Time
}

func NewInactivityScheduler(deliverer notify.Deliverer, activity *ActivityClock, cfg settings.Settings, log *zap.Logger) *InactivityScheduler {
	return &InactivityScheduler{
		deliverer: deliverer,
		activity:  activity,
		log:       log,
		cfg:       cfg,
		state:     StateDisabled,
	}
}

// ApplySettings swaps the configuration and re-arms from scratch.
func (s *InactivityScheduler) ApplySettings(cfg settings.Settings, now time.Time) {
	s.cfg = cfg
	s.Rearm(now)
}

// Rearm cancels all pending inactivity reminders and recomputes the next
// check from current state. Called on became-active signals, settings
// changes, and foreground resumes.
func (s *InactivityScheduler) Rearm(now time.Time) {
	s.cancelPending()
	s.nextCheck = time.Time{}

	if !s.cfg.RemindersEnabled {
		s.state = StateDisabled
		return
	}

	since := s.activity.TimeSinceLastActivity(now)
	threshold := s.cfg.InactivityThreshold()
	if since < threshold {
		s.state = StateArmed
		s.nextCheck = now.Add(threshold - since)
		return
	}
	s.Evaluate(now)
}

// Evaluate runs the trigger at a check point. Any previously scheduled
// series is cancelled up front, so re-evaluating with no intervening state
// change replaces the pending reminders instead of stacking a second set.
// A failing guard skips the reminder silently and schedules the next check
// one threshold out.
func (s *InactivityScheduler) Evaluate(now time.Time) {
	s.cancelPending()
	if !s.cfg.RemindersEnabled {
		s.state = StateDisabled
		s.nextCheck = time.Time{}
		return
	}

	threshold := s.cfg.InactivityThreshold()
	since := s.activity.TimeSinceLastActivity(now)
	if since < threshold {
		s.state = StateArmed
		s.nextCheck = now.Add(threshold - since)
		return
	}

	if !s.spacingSatisfied(now) || !WithinActiveHours(s.cfg.ActiveHours, now) {
		s.state = StateArmed
		s.nextCheck = now.Add(threshold)
		return
	}

	s.emit(now, threshold)
	s.state = StateRepeatArmed
	s.nextCheck = time.Time{}
}

// NextCheck exposes the pending check, if any.
func (s *InactivityScheduler) NextCheck() (time.Time, bool) {
	return s.nextCheck, !s.nextCheck.IsZero()
}

func (s *InactivityScheduler) State() InactivityState {
	return s.state
}

// GuardsAllow re-checks the emission guards at delivery time; a follow-up
// scheduled an hour ago may land outside active hours or after movement.
func (s *InactivityScheduler) GuardsAllow(now time.Time) bool {
	if !s.cfg.RemindersEnabled {
		return false
	}
	if s.activity.TimeSinceLastActivity(now) < s.cfg.InactivityThreshold() {
		return false
	}
	return s.spacingSatisfied(now) && WithinActiveHours(s.cfg.ActiveHours, now)
}

func (s *InactivityScheduler) spacingSatisfied(now time.Time) bool {
	last := s.activity.State().LastNotificationTime
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= s.cfg.MinSpacing()
}

func (s *InactivityScheduler) cancelPending() {
	dropped := s.deliverer.CancelPrefix(notify.KindPrefix(model.KindInactivity))
	dropped += s.deliverer.CancelPrefix(notify.KindPrefix(model.KindRepeatedInactivity))
	if dropped > 0 {
		s.log.Debug("cancelled pending inactivity reminders", zap.Int("count", dropped))
	}
}

func (s *InactivityScheduler) emit(now time.Time, threshold time.Duration) {
	first := notify.Notification{
		Identifier: notify.NewIdentifier(model.KindInactivity),
		Kind:       model.KindInactivity,
		Title:      "Time to move",
		Body:       fmt.Sprintf("No steps in the last %d minutes.", int(threshold.Minutes())),
	}
	if err := s.deliverer.ScheduleAfter(first, 0); err != nil {
		s.log.Warn("schedule inactivity reminder failed", zap.Error(err))
		return
	}

	for k := 1; k <= MaxRepeatReminders; k++ {
		repeat := notify.Notification{
			Identifier: notify.NewIdentifier(model.KindRepeatedInactivity),
			Kind:       model.KindRepeatedInactivity,
			Title:      "Still sitting?",
			Body:       fmt.Sprintf("No steps for over %d minutes.", int(threshold.Minutes())*(k+1)),
		}
		if err := s.deliverer.ScheduleAfter(repeat, time.Duration(k)*threshold); err != nil {
			s.log.Warn("schedule repeat reminder failed",
				zap.Int("repeat", k), zap.Error(err))
			return
		}
	}
	s.log.Info("inactivity reminder emitted",
		zap.Duration("inactive_for", s.activity.TimeSinceLastActivity(now)),
		zap.Int("repeats_scheduled", MaxRepeatReminders))
}
