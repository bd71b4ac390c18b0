package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/strideapp/stride-cli/internal/model"
)

// HistoryRetentionDays bounds the notification log; older rows are dropped
// on each prune pass.
const HistoryRetentionDays = 35

type RecordNotificationInput struct {
	Identifier string
	Kind       model.NotificationKind
	Message    string
	SentAt     time.Time
}

func RecordNotification(db *sql.DB, in RecordNotificationInput) error {
	if !in.Kind.Valid() {
		return fmt.Errorf("invalid notification kind %q", in.Kind)
	}
	if strings.TrimSpace(in.Identifier) == "" {
		return fmt.Errorf("notification identifier is required")
	}
	if in.SentAt.IsZero() {
		return fmt.Errorf("notification sent time is required")
	}

	_, err := db.Exec(`
INSERT INTO notifications(identifier, kind, message, sent_at)
VALUES(?, ?, ?, ?)
`, in.Identifier, string(in.Kind), in.Message, in.SentAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// PruneHistory drops records older than the retention window. Pruning an
// already-empty window is not an error.
func PruneHistory(db *sql.DB, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -HistoryRetentionDays)
	res, err := db.Exec(`DELETE FROM notifications WHERE sent_at < ?`, cutoff.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("prune notification history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned notifications: %w", err)
	}
	return n, nil
}

func ListNotifications(db *sql.DB, limit int) ([]model.NotificationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
SELECT id, identifier, kind, IFNULL(message, ''), sent_at
FROM notifications
ORDER BY sent_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]model.NotificationRecord, 0)
	for rows.Next() {
		var item model.NotificationRecord
		var kind string
		var sentAtRaw string
		if err := rows.Scan(&item.ID, &item.Identifier, &kind, &item.Message, &sentAtRaw); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		sentAt, err := time.Parse(time.RFC3339, sentAtRaw)
		if err != nil {
			return nil, fmt.Errorf("parse sent_at: %w", err)
		}
		item.Kind = model.NotificationKind(kind)
		item.SentAt = sentAt
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, nil
}

// CountForDay returns how many reminders were sent on a calendar day.
func CountForDay(db *sql.DB, date string) (int, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return 0, err
	}
	var count int
	err = db.QueryRow(`
SELECT COUNT(1) FROM notifications WHERE substr(sent_at, 1, 10) = ?
`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notifications for %s: %w", date, err)
	}
	return count, nil
}

// CountForHour returns how many reminders were sent in one hour of one day.
func CountForHour(db *sql.DB, date string, hour int) (int, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return 0, err
	}
	if err := validateHour(hour); err != nil {
		return 0, err
	}
	var count int
	err = db.QueryRow(`
SELECT COUNT(1) FROM notifications
WHERE substr(sent_at, 1, 10) = ? AND CAST(substr(sent_at, 12, 2) AS INTEGER) = ?
`, date, hour).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count notifications for %s hour %d: %w", date, hour, err)
	}
	return count, nil
}

type HistoryStats struct {
	Total          int                            `json:"total"`
	MostActiveHour int                            `json:"most_active_hour"`
	AveragePerHour float64                        `json:"average_per_hour"`
	ByKind         map[model.NotificationKind]int `json:"by_kind"`
	ByHour         [24]int                        `json:"by_hour"`
}

// HistoryStatsAll aggregates the whole retained log. Most-active-hour ties
// resolve to the lowest-numbered hour.
func HistoryStatsAll(db *sql.DB) (HistoryStats, error) {
	out := HistoryStats{ByKind: make(map[model.NotificationKind]int)}

	rows, err := db.Query(`SELECT kind, CAST(substr(sent_at, 12, 2) AS INTEGER) FROM notifications`)
	if err != nil {
		return out, fmt.Errorf("query notification stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind string
		var hour int
		if err := rows.Scan(&kind, &hour); err != nil {
			return out, fmt.Errorf("scan notification stats: %w", err)
		}
		out.Total++
		out.ByKind[model.NotificationKind(kind)]++
		if hour >= 0 && hour <= 23 {
			out.ByHour[hour]++
		}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate notification stats: %w", err)
	}

	best := 0
	for hour := 1; hour < 24; hour++ {
		if out.ByHour[hour] > out.ByHour[best] {
			best = hour
		}
	}
	out.MostActiveHour = best
	out.AveragePerHour = float64(out.Total) / 24
	return out, nil
}
