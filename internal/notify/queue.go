package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Queue is the in-process Deliverer. The watch daemon runs it against the
// system clock; tests drive it with a mock clock and Due.
type Queue struct {
	clock clock.Clock

	mu    sync.Mutex
	items []Scheduled
	wake  chan struct{}
}

func NewQueue(c clock.Clock) *Queue {
	return &Queue{
		clock: c,
		wake:  make(chan struct{}, 1),
	}
}

func (q *Queue) ScheduleAt(n Notification, at time.Time) error {
	q.mu.Lock()
	q.items = append(q.items, Scheduled{Notification: n, FireAt: at})
	sort.SliceStable(q.items, func(i, j int) bool { return q.items[i].FireAt.Before(q.items[j].FireAt) })
	q.mu.Unlock()
	q.notifyWake()
	return nil
}

func (q *Queue) ScheduleAfter(n Notification, delay time.Duration) error {
	return q.ScheduleAt(n, q.clock.Now().Add(delay))
}

func (q *Queue) CancelPrefix(prefix string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	dropped := 0
	for _, item := range q.items {
		if hasPrefix(item.Identifier, prefix) {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	return dropped
}

func (q *Queue) Pending() []Scheduled {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Scheduled, len(q.items))
	copy(out, q.items)
	return out
}

// Due pops every notification whose fire time is at or before now.
func (q *Queue) Due(now time.Time) []Scheduled {
	q.mu.Lock()
	defer q.mu.Unlock()
	var due []Scheduled
	kept := q.items[:0]
	for _, item := range q.items {
		if !item.FireAt.After(now) {
			due = append(due, item)
			continue
		}
		kept = append(kept, item)
	}
	q.items = kept
	return due
}

// Run delivers due notifications to sink until the context is cancelled.
func (q *Queue) Run(ctx context.Context, sink func(Scheduled)) {
	for {
		timer := q.clock.Timer(q.untilNext())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-q.wake:
			timer.Stop()
		case <-timer.C:
			for _, item := range q.Due(q.clock.Now()) {
				sink(item)
			}
		}
	}
}

func (q *Queue) untilNext() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return time.Minute
	}
	d := q.items[0].FireAt.Sub(q.clock.Now())
	if d < 0 {
		return 0
	}
	return d
}

func (q *Queue) notifyWake() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
