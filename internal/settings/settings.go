// Package settings persists the reminder configuration and activity state
// as versioned JSON blobs in the app_settings table. In-memory values stay
// authoritative when a write fails; callers log and move on.
package settings

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	settingsKey      = "settings"
	activityStateKey = "activity_state"

	// CurrentVersion is bumped whenever the Settings shape changes; Load
	// migrates older blobs forward before returning them.
	CurrentVersion = 2
)

// HoursInterval is a time-of-day window in minutes since midnight.
// Start > End means the window spans midnight.
type HoursInterval struct {
	StartMinutes int `json:"start_minutes"`
	EndMinutes   int `json:"end_minutes"`
}

func (iv HoursInterval) Validate() error {
	if iv.StartMinutes < 0 || iv.StartMinutes > 1439 {
		return fmt.Errorf("interval start %d out of range [0,1439]", iv.StartMinutes)
	}
	if iv.EndMinutes < 0 || iv.EndMinutes > 1439 {
		return fmt.Errorf("interval end %d out of range [0,1439]", iv.EndMinutes)
	}
	return nil
}

type Settings struct {
	Version                int             `json:"version"`
	RemindersEnabled       bool            `json:"reminders_enabled"`
	InactivityThresholdMin int             `json:"inactivity_threshold_min"`
	MinSpacingSec          int             `json:"min_spacing_sec"`
	ActiveHours            []HoursInterval `json:"active_hours"`
	BedtimeEnabled         bool            `json:"bedtime_enabled"`
	Bedtime                string          `json:"bedtime"`
	BedtimeLeadMin         int             `json:"bedtime_lead_min"`
}

func Default() Settings {
	return Settings{
		Version:                CurrentVersion,
		RemindersEnabled:       false,
		InactivityThresholdMin: 60,
		MinSpacingSec:          60,
		ActiveHours: []HoursInterval{
			{StartMinutes: 8 * 60, EndMinutes: 21 * 60},
		},
		BedtimeEnabled: false,
		Bedtime:        "22:30",
		BedtimeLeadMin: 120,
	}
}

func (s Settings) InactivityThreshold() time.Duration {
	return time.Duration(s.InactivityThresholdMin) * time.Minute
}

func (s Settings) MinSpacing() time.Duration {
	return time.Duration(s.MinSpacingSec) * time.Second
}

func (s Settings) BedtimeLead() time.Duration {
	return time.Duration(s.BedtimeLeadMin) * time.Minute
}

// ActivityState survives process restarts. LastNotificationTime is the only
// field a sent reminder may touch; LastActivityTime moves on real steps only.
type ActivityState struct {
	LastStepCount        int       `json:"last_step_count"`
	LastActivityTime     time.Time `json:"last_activity_time"`
	LastNotificationTime time.Time `json:"last_notification_time"`
}

func LoadSettings(db *sql.DB) (Settings, error) {
	raw, found, err := getBlob(db, settingsKey)
	if err != nil {
		return Settings{}, err
	}
	if !found {
		return Default(), nil
	}
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return migrate(s), nil
}

func SaveSettings(db *sql.DB, s Settings) error {
	s.Version = CurrentVersion
	for _, iv := range s.ActiveHours {
		if err := iv.Validate(); err != nil {
			return err
		}
	}
	if s.InactivityThresholdMin <= 0 {
		return fmt.Errorf("inactivity threshold must be > 0 minutes")
	}
	if _, err := ParseClock(s.Bedtime); err != nil {
		return err
	}
	return setBlob(db, settingsKey, s)
}

func LoadActivityState(db *sql.DB) (ActivityState, error) {
	raw, found, err := getBlob(db, activityStateKey)
	if err != nil {
		return ActivityState{}, err
	}
	if !found {
		return ActivityState{}, nil
	}
	var st ActivityState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return ActivityState{}, fmt.Errorf("decode activity state: %w", err)
	}
	return st, nil
}

func SaveActivityState(db *sql.DB, st ActivityState) error {
	return setBlob(db, activityStateKey, st)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(v string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(v, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q (expected HH:MM)", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q (expected HH:MM)", v)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func migrate(s Settings) Settings {
	switch s.Version {
	case 0, 1:
		// Version 1 blobs predate the bedtime reminder and spacing floor.
		if s.MinSpacingSec <= 0 {
			s.MinSpacingSec = 60
		}
		if s.Bedtime == "" {
			s.Bedtime = "22:30"
		}
		if s.BedtimeLeadMin <= 0 {
			s.BedtimeLeadMin = 120
		}
		s.Version = CurrentVersion
	}
	if s.InactivityThresholdMin <= 0 {
		s.InactivityThresholdMin = 60
	}
	return s
}

func getBlob(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func setBlob(db *sql.DB, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	_, err = db.Exec(`
INSERT INTO app_settings(key, value, updated_at)
VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
`, key, string(raw))
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
