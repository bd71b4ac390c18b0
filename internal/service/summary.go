package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/strideapp/stride-cli/internal/model"
)

// DayActivities builds the derived per-day view for [from, to]: hourly step
// counts, hourly reminder counts, and the goal effective on each day. Days
// without data are included with zeros so rate calculations stay honest.
func DayActivities(db *sql.DB, from, to time.Time) ([]model.DayActivity, error) {
	if from.After(to) {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	from = beginningOfDay(from)
	to = beginningOfDay(to)

	stepsByDay, err := loadHourlyStepsByDay(db, from, to)
	if err != nil {
		return nil, err
	}
	notifsByDay, err := loadHourlyNotificationsByDay(db, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]model.DayActivity, 0, inclusiveDayCount(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		day := model.DayActivity{Date: key}
		if hours, ok := stepsByDay[key]; ok {
			day.PerHourSteps = hours
		}
		if hours, ok := notifsByDay[key]; ok {
			day.PerHourNotifications = hours
		}
		for h := 0; h < 24; h++ {
			day.TotalSteps += day.PerHourSteps[h]
			day.TotalNotifications += day.PerHourNotifications[h]
		}
		target, err := TargetStepsForDate(db, key)
		if err != nil {
			return nil, err
		}
		day.TargetSteps = target
		out = append(out, day)
	}
	return out, nil
}

func loadHourlyStepsByDay(db *sql.DB, from, to time.Time) (map[string][24]int, error) {
	rows, err := db.Query(`
SELECT day, hour, steps
FROM step_samples
WHERE day >= ? AND day <= ?
`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query hourly steps by day: %w", err)
	}
	defer rows.Close()

	out := make(map[string][24]int)
	for rows.Next() {
		var day string
		var hour, steps int
		if err := rows.Scan(&day, &hour, &steps); err != nil {
			return nil, fmt.Errorf("scan hourly steps by day: %w", err)
		}
		if hour < 0 || hour > 23 {
			continue
		}
		hours := out[day]
		hours[hour] = steps
		out[day] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly steps by day: %w", err)
	}
	return out, nil
}

func loadHourlyNotificationsByDay(db *sql.DB, from, to time.Time) (map[string][24]int, error) {
	rows, err := db.Query(`
SELECT substr(sent_at, 1, 10), CAST(substr(sent_at, 12, 2) AS INTEGER), COUNT(1)
FROM notifications
WHERE substr(sent_at, 1, 10) >= ? AND substr(sent_at, 1, 10) <= ?
GROUP BY 1, 2
`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query hourly notifications by day: %w", err)
	}
	defer rows.Close()

	out := make(map[string][24]int)
	for rows.Next() {
		var day string
		var hour, count int
		if err := rows.Scan(&day, &hour, &count); err != nil {
			return nil, fmt.Errorf("scan hourly notifications by day: %w", err)
		}
		if hour < 0 || hour > 23 {
			continue
		}
		hours := out[day]
		hours[hour] = count
		out[day] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hourly notifications by day: %w", err)
	}
	return out, nil
}
