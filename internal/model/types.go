package model

import "time"

// NotificationKind classifies an emitted reminder.
type NotificationKind string

const (
	KindInactivity         NotificationKind = "inactivity"
	KindRepeatedInactivity NotificationKind = "repeated_inactivity"
	KindBedtime            NotificationKind = "bedtime"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindInactivity, KindRepeatedInactivity, KindBedtime:
		return true
	}
	return false
}

type Goal struct {
	ID            int64
	Steps         int
	EffectiveDate string
	CreatedAt     time.Time
}

// StepSample is one observed per-hour step count for a calendar day.
type StepSample struct {
	ID         int64
	Day        string
	Hour       int
	Steps      int
	Source     string
	RecordedAt time.Time
}

type NotificationRecord struct {
	ID         int64
	Identifier string
	Kind       NotificationKind
	Message    string
	SentAt     time.Time
}

// DayActivity is the derived per-day view combining step samples,
// notification history, and the goal effective on that day.
type DayActivity struct {
	Date                 string
	PerHourSteps         [24]int
	PerHourNotifications [24]int
	TotalSteps           int
	TotalNotifications   int
	TargetSteps          int
}

type DaySteps struct {
	Date  string
	Steps int
}
