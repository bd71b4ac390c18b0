package tracker

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/model"
	"github.com/strideapp/stride-cli/internal/notify"
	"github.com/strideapp/stride-cli/internal/settings"
)

// BedtimeScheduler keeps at most one pending "steps remaining" reminder:
// every evaluation cancels the previous schedule before deciding anew.
type BedtimeScheduler struct {
	deliverer notify.Deliverer
	log       *zap.Logger
	cfg       settings.Settings
}

func NewBedtimeScheduler(deliverer notify.Deliverer, cfg settings.Settings, log *zap.Logger) *BedtimeScheduler {
	return &BedtimeScheduler{deliverer: deliverer, log: log, cfg: cfg}
}

func (b *BedtimeScheduler) ApplySettings(cfg settings.Settings) {
	b.cfg = cfg
}

// Evaluate re-plans the bedtime reminder against the latest step totals.
// Goal already met cancels any pending reminder; a notify time already in
// the past is skipped as no longer useful.
func (b *BedtimeScheduler) Evaluate(now time.Time, currentSteps, targetSteps int) {
	b.deliverer.CancelPrefix(notify.KindPrefix(model.KindBedtime))

	if !b.cfg.BedtimeEnabled {
		return
	}
	if currentSteps >= targetSteps {
		return
	}

	bedMinute, err := settings.ParseClock(b.cfg.Bedtime)
	if err != nil {
		b.log.Warn("invalid bedtime setting", zap.String("bedtime", b.cfg.Bedtime), zap.Error(err))
		return
	}

	bedAt := time.Date(now.Year(), now.Month(), now.Day(), bedMinute/60, bedMinute%60, 0, 0, now.Location())
	if !bedAt.After(now) {
		bedAt = bedAt.AddDate(0, 0, 1)
	}
	notifyAt := bedAt.Add(-b.cfg.BedtimeLead())
	if notifyAt.Before(now) {
		b.log.Debug("bedtime lead already passed, skipping reminder",
			zap.Time("notify_at", notifyAt))
		return
	}

	remaining := targetSteps - currentSteps
	n := notify.Notification{
		Identifier: notify.NewIdentifier(model.KindBedtime),
		Kind:       model.KindBedtime,
		Title:      "Goal check-in",
		Body:       fmt.Sprintf("%d steps to go before bedtime.", remaining),
	}
	if err := b.deliverer.ScheduleAt(n, notifyAt); err != nil {
		b.log.Warn("schedule bedtime reminder failed", zap.Error(err))
		return
	}
	b.log.Debug("bedtime reminder scheduled",
		zap.Time("notify_at", notifyAt),
		zap.Int("steps_remaining", remaining))
}
