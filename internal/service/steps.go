package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/strideapp/stride-cli/internal/model"
)

type RecordStepsInput struct {
	Day    string
	Hour   int
	Steps  int
	Source string
}

// RecordSteps upserts the step count for one (day, hour) bucket. Health
// deliveries replay whole hours, so the latest observation wins.
func RecordSteps(db *sql.DB, in RecordStepsInput) error {
	day, err := normalizeDate(in.Day)
	if err != nil {
		return err
	}
	if err := validateHour(in.Hour); err != nil {
		return err
	}
	if err := validateNonNegativeInt("steps", in.Steps); err != nil {
		return err
	}
	source := strings.TrimSpace(strings.ToLower(in.Source))
	if source == "" {
		source = "manual"
	}

	_, err = db.Exec(`
INSERT INTO step_samples(day, hour, steps, source, recorded_at)
VALUES(?, ?, ?, ?, ?)
ON CONFLICT(day, hour) DO UPDATE SET
  steps=excluded.steps,
  source=excluded.source,
  recorded_at=excluded.recorded_at
`, day, in.Hour, in.Steps, source, time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record steps for %s hour %d: %w", day, in.Hour, err)
	}
	return nil
}

// HourlySteps returns the per-hour breakdown for a day. Hours without a
// sample report zero.
func HourlySteps(db *sql.DB, day string) ([24]int, error) {
	var out [24]int
	day, err := normalizeDate(day)
	if err != nil {
		return out, err
	}

	rows, err := db.Query(`SELECT hour, steps FROM step_samples WHERE day = ?`, day)
	if err != nil {
		return out, fmt.Errorf("query hourly steps for %s: %w", day, err)
	}
	defer rows.Close()

	for rows.Next() {
		var hour, steps int
		if err := rows.Scan(&hour, &steps); err != nil {
			return out, fmt.Errorf("scan hourly steps: %w", err)
		}
		if hour >= 0 && hour <= 23 {
			out[hour] = steps
		}
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate hourly steps: %w", err)
	}
	return out, nil
}

// DayTotal returns the summed steps for a day; zero when no samples exist.
func DayTotal(db *sql.DB, day string) (int, error) {
	day, err := normalizeDate(day)
	if err != nil {
		return 0, err
	}
	var total int
	err = db.QueryRow(`SELECT IFNULL(SUM(steps), 0) FROM step_samples WHERE day = ?`, day).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum steps for %s: %w", day, err)
	}
	return total, nil
}

// RangeDayTotals returns one entry per calendar day in [from, to], days
// without samples included as zero.
func RangeDayTotals(db *sql.DB, from, to time.Time) ([]model.DaySteps, error) {
	if from.After(to) {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	from = beginningOfDay(from)
	to = beginningOfDay(to)

	rows, err := db.Query(`
SELECT day, SUM(steps)
FROM step_samples
WHERE day >= ? AND day <= ?
GROUP BY day
`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("query day totals: %w", err)
	}
	defer rows.Close()

	byDay := make(map[string]int)
	for rows.Next() {
		var day string
		var steps int
		if err := rows.Scan(&day, &steps); err != nil {
			return nil, fmt.Errorf("scan day total: %w", err)
		}
		byDay[day] = steps
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day totals: %w", err)
	}

	out := make([]model.DaySteps, 0, inclusiveDayCount(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		out = append(out, model.DaySteps{Date: key, Steps: byDay[key]})
	}
	return out, nil
}

type WeekdayAverage struct {
	Weekday      time.Weekday `json:"weekday"`
	AverageSteps float64      `json:"average_steps"`
	ObservedDays int          `json:"observed_days"`
}

// WeekdayAverages computes the historical average daily total per weekday
// over all recorded samples.
func WeekdayAverages(db *sql.DB) ([]WeekdayAverage, error) {
	rows, err := db.Query(`
SELECT day, SUM(steps)
FROM step_samples
GROUP BY day
`)
	if err != nil {
		return nil, fmt.Errorf("query weekday totals: %w", err)
	}
	defer rows.Close()

	var totals [7]int
	var counts [7]int
	for rows.Next() {
		var day string
		var steps int
		if err := rows.Scan(&day, &steps); err != nil {
			return nil, fmt.Errorf("scan weekday total: %w", err)
		}
		parsed, err := time.Parse(dateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse sample day %q: %w", day, err)
		}
		wd := int(parsed.Weekday())
		totals[wd] += steps
		counts[wd]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekday totals: %w", err)
	}

	out := make([]WeekdayAverage, 0, 7)
	for wd := 0; wd < 7; wd++ {
		avg := WeekdayAverage{Weekday: time.Weekday(wd), ObservedDays: counts[wd]}
		if counts[wd] > 0 {
			avg.AverageSteps = float64(totals[wd]) / float64(counts[wd])
		}
		out = append(out, avg)
	}
	return out, nil
}
