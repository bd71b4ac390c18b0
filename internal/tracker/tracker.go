// Package tracker is the activity and reminder policy engine: it watches
// step counts coming out of the health source, decides when inactivity and
// bedtime reminders fire, and records everything it sends.
package tracker

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/health"
	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/notify"
	"github.com/strideapp/stride-cli/internal/service"
	"github.com/strideapp/stride-cli/internal/settings"
)

type Tracker struct {
	db        *sql.DB
	clock     clock.Clock
	log       *zap.Logger
	source    health.Source
	deliverer notify.Deliverer

	// Events (step updates, timer checks, fired notifications, settings
	// changes) are serialized so each reaction runs to completion.
	mu         sync.Mutex
	cfg        settings.Settings
	activity   *ActivityClock
	inactivity *InactivityScheduler
	bedtime    *BedtimeScheduler

	// OnDeliver, when set, receives every reminder that passes its guards
	// at fire time. The watch command uses it for terminal output.
	OnDeliver func(notify.Scheduled)
}

func New(db *sql.DB, c clock.Clock, source health.Source, deliverer notify.Deliverer, log *zap.Logger) (*Tracker, error) {
	cfg, err := settings.LoadSettings(db)
	if err != nil {
		return nil, err
	}
	activity, err := NewActivityClock(db, c, log)
	if err != nil {
		return nil, err
	}

	// Retention is enforced on startup, mirroring the prune-on-load
	// contract of the notification history.
	if _, err := service.PruneHistory(db, c.Now()); err != nil {
		log.Warn("prune notification history failed", zap.Error(err))
	}

	t := &Tracker{
		db:         db,
		clock:      c,
		log:        log,
		source:     source,
		deliverer:  deliverer,
		cfg:        cfg,
		activity:   activity,
		inactivity: NewInactivityScheduler(deliverer, activity, cfg, log),
		bedtime:    NewBedtimeScheduler(deliverer, cfg, log),
	}
	t.inactivity.Rearm(c.Now())
	return t, nil
}

func (t *Tracker) Settings() settings.Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// ApplySettings persists the new configuration and re-arms both schedulers.
func (t *Tracker) ApplySettings(cfg settings.Settings) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := settings.SaveSettings(t.db, cfg); err != nil {
		return err
	}
	t.cfg = cfg
	now := t.clock.Now()
	t.inactivity.ApplySettings(cfg, now)
	t.bedtime.ApplySettings(cfg)
	return t.reevaluateBedtimeLocked(context.Background(), now)
}

// HandleStepUpdate processes a health-data change: observe the current
// total, re-arm on movement, and re-plan the bedtime reminder. Background
// and foreground deliveries take this same path.
func (t *Tracker) HandleStepUpdate(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()

	current, err := t.source.CurrentSteps(ctx, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	if t.activity.ObserveStepCount(current) {
		t.inactivity.Rearm(now)
	}
	return t.evaluateBedtimeLocked(now, current)
}

// Resume handles a return to foreground: fetch the authoritative count; an
// increase counts as retroactive movement, anything else is an immediate
// inactivity check.
func (t *Tracker) Resume(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()

	current, err := t.source.CurrentSteps(ctx, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	if t.activity.ObserveStepCount(current) {
		t.inactivity.Rearm(now)
	} else {
		t.inactivity.Evaluate(now)
	}
	return t.evaluateBedtimeLocked(now, current)
}

// Tick runs any due inactivity check. The watch loop calls this on a short
// cadence; calling it with no due check is a no-op.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()
	if next, ok := t.inactivity.NextCheck(); ok && !next.After(now) {
		t.inactivity.Evaluate(now)
	}
}

// HandleFired is the delivery sink: inactivity reminders re-check their
// guards at fire time, survivors are recorded and surfaced.
func (t *Tracker) HandleFired(s notify.Scheduled) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Now()

	switch s.Kind {
	case model.KindInactivity, model.KindRepeatedInactivity:
		if !t.inactivity.GuardsAllow(now) {
			t.log.Debug("dropping reminder at fire time",
				zap.String("kind", string(s.Kind)),
				zap.String("identifier", s.Identifier))
			return
		}
	}

	t.activity.NoteNotificationSent(now)
	if err := service.RecordNotification(t.db, service.RecordNotificationInput{
		Identifier: s.Identifier,
		Kind:       s.Kind,
		Message:    s.Body,
		SentAt:     now,
	}); err != nil {
		t.log.Warn("record notification failed", zap.Error(err))
	}
	t.log.Info("reminder delivered",
		zap.String("kind", string(s.Kind)),
		zap.String("body", s.Body))
	if t.OnDeliver != nil {
		t.OnDeliver(s)
	}
}

// InactivityState exposes the scheduler state for status output.
func (t *Tracker) InactivityState() (InactivityState, time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next, ok := t.inactivity.NextCheck()
	return t.inactivity.State(), next, ok
}

func (t *Tracker) ActivityState() settings.ActivityState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activity.State()
}

func (t *Tracker) evaluateBedtimeLocked(now time.Time, currentSteps int) error {
	target, err := service.TargetStepsForDate(t.db, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	t.bedtime.Evaluate(now, currentSteps, target)
	return nil
}

func (t *Tracker) reevaluateBedtimeLocked(ctx context.Context, now time.Time) error {
	current, err := t.source.CurrentSteps(ctx, now.Format("2006-01-02"))
	if err != nil {
		return err
	}
	return t.evaluateBedtimeLocked(now, current)
}

// Run drives the tracker against real time: a poll loop feeds step updates
// and due checks, and the queue goroutine delivers fired reminders back into
// HandleFired.
func (t *Tracker) Run(ctx context.Context, queue *notify.Queue, pollInterval time.Duration) error {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue.Run(ctx, t.HandleFired)
	}()

	if err := t.Resume(ctx); err != nil {
		t.log.Warn("initial step fetch failed", zap.Error(err))
	}

	ticker := t.clock.Ticker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-ticker.C:
			if err := t.HandleStepUpdate(ctx); err != nil {
				t.log.Warn("step update failed", zap.Error(err))
			}
			t.Tick()
		}
	}
}
