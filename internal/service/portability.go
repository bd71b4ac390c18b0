package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/strideapp/stride-cli/internal/model"
)

const exportFormatVersion = 1

type ExportGoal struct {
	Steps         int    `json:"steps"`
	EffectiveDate string `json:"effective_date"`
}

type ExportSample struct {
	Day    string `json:"day"`
	Hour   int    `json:"hour"`
	Steps  int    `json:"steps"`
	Source string `json:"source"`
}

type ExportNotification struct {
	Identifier string `json:"identifier"`
	Kind       string `json:"kind"`
	Message    string `json:"message,omitempty"`
	SentAt     string `json:"sent_at"`
}

type ExportDocument struct {
	FormatVersion int                  `json:"format_version"`
	ExportedAt    string               `json:"exported_at"`
	Goals         []ExportGoal         `json:"goals"`
	Samples       []ExportSample       `json:"step_samples"`
	Notifications []ExportNotification `json:"notifications"`
}

func ExportAll(db *sql.DB, w io.Writer) error {
	doc := ExportDocument{
		FormatVersion: exportFormatVersion,
		ExportedAt:    time.Now().Format(time.RFC3339),
		Goals:         make([]ExportGoal, 0),
		Samples:       make([]ExportSample, 0),
		Notifications: make([]ExportNotification, 0),
	}

	goals, err := GoalHistory(db)
	if err != nil {
		return err
	}
	for _, g := range goals {
		doc.Goals = append(doc.Goals, ExportGoal{Steps: g.Steps, EffectiveDate: g.EffectiveDate})
	}

	rows, err := db.Query(`SELECT day, hour, steps, source FROM step_samples ORDER BY day, hour`)
	if err != nil {
		return fmt.Errorf("export step samples: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s ExportSample
		if err := rows.Scan(&s.Day, &s.Hour, &s.Steps, &s.Source); err != nil {
			return fmt.Errorf("scan exported sample: %w", err)
		}
		doc.Samples = append(doc.Samples, s)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate exported samples: %w", err)
	}

	notifs, err := ListNotifications(db, 1<<31-1)
	if err != nil {
		return err
	}
	for _, n := range notifs {
		doc.Notifications = append(doc.Notifications, ExportNotification{
			Identifier: n.Identifier,
			Kind:       string(n.Kind),
			Message:    n.Message,
			SentAt:     n.SentAt.Format(time.RFC3339),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export document: %w", err)
	}
	return nil
}

type ImportSummary struct {
	Goals         int `json:"goals"`
	Samples       int `json:"step_samples"`
	Notifications int `json:"notifications"`
}

// ImportAll merges an export document into the database. Existing (day, hour)
// samples and effective-date goals are overwritten; notification rows are
// appended and then pruned to the retention window.
func ImportAll(db *sql.DB, r io.Reader) (ImportSummary, error) {
	var out ImportSummary
	var doc ExportDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return out, fmt.Errorf("decode import document: %w", err)
	}
	if doc.FormatVersion != exportFormatVersion {
		return out, fmt.Errorf("unsupported export format version %d", doc.FormatVersion)
	}

	for _, g := range doc.Goals {
		if err := SetGoal(db, SetGoalInput{Steps: g.Steps, EffectiveDate: g.EffectiveDate}); err != nil {
			return out, err
		}
		out.Goals++
	}
	for _, s := range doc.Samples {
		if err := RecordSteps(db, RecordStepsInput{Day: s.Day, Hour: s.Hour, Steps: s.Steps, Source: s.Source}); err != nil {
			return out, err
		}
		out.Samples++
	}
	for _, n := range doc.Notifications {
		sentAt, err := time.Parse(time.RFC3339, n.SentAt)
		if err != nil {
			return out, fmt.Errorf("parse imported notification time %q: %w", n.SentAt, err)
		}
		if err := RecordNotification(db, RecordNotificationInput{
			Identifier: n.Identifier,
			Kind:       model.NotificationKind(n.Kind),
			Message:    n.Message,
			SentAt:     sentAt,
		}); err != nil {
			return out, err
		}
		out.Notifications++
	}

	if _, err := PruneHistory(db, time.Now()); err != nil {
		return out, err
	}
	return out, nil
}
