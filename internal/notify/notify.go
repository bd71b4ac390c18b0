// Package notify is the local-notification port: reminders are scheduled at
// a delay or a calendar time, cancelled by identifier prefix, and queried
// while pending. The platform notification center is behind this interface
// so the schedulers can run against an in-memory queue and a mock clock.
package notify

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strideapp/stride-cli/internal/model"
)

type Notification struct {
	Identifier string
	Kind       model.NotificationKind
	Title      string
	Body       string
}

// Scheduled is a pending notification with its fire time.
type Scheduled struct {
	Notification
	FireAt time.Time
}

type Deliverer interface {
	ScheduleAt(n Notification, at time.Time) error
	ScheduleAfter(n Notification, delay time.Duration) error
	// CancelPrefix removes every pending notification whose identifier
	// starts with prefix and reports how many were dropped.
	CancelPrefix(prefix string) int
	Pending() []Scheduled
}

// NewIdentifier builds a kind-prefixed identifier so a whole reminder family
// can be cancelled with one CancelPrefix call.
func NewIdentifier(kind model.NotificationKind) string {
	return string(kind) + "-" + uuid.NewString()
}

// KindPrefix is the cancellation prefix covering all identifiers of a kind.
func KindPrefix(kind model.NotificationKind) string {
	return string(kind) + "-"
}

func hasPrefix(identifier, prefix string) bool {
	return strings.HasPrefix(identifier, prefix)
}
