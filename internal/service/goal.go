package service

import (
	"database/sql"
	"fmt"

	"github.com/strideapp/stride-cli/internal/model"
)

// DefaultGoalSteps applies when no goal row covers the queried date.
const DefaultGoalSteps = 10000

type SetGoalInput struct {
	Steps         int
	EffectiveDate string
}

func SetGoal(db *sql.DB, in SetGoalInput) error {
	if in.Steps <= 0 {
		return fmt.Errorf("goal steps must be > 0")
	}
	date, err := normalizeDate(in.EffectiveDate)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
INSERT INTO goals(steps, effective_date)
VALUES(?, ?)
ON CONFLICT(effective_date) DO UPDATE SET
  steps=excluded.steps
`, in.Steps, date)
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	return nil
}

// CurrentGoal resolves the goal in effect on date: the most recent entry
// whose effective date is <= date. Returns nil when no goal is configured.
func CurrentGoal(db *sql.DB, date string) (*model.Goal, error) {
	date, err := normalizeDate(date)
	if err != nil {
		return nil, err
	}

	var g model.Goal
	err = db.QueryRow(`
SELECT id, steps, effective_date, created_at
FROM goals
WHERE effective_date <= ?
ORDER BY effective_date DESC
LIMIT 1
`, date).Scan(&g.ID, &g.Steps, &g.EffectiveDate, &g.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("current goal for %s: %w", date, err)
	}
	return &g, nil
}

// TargetStepsForDate is CurrentGoal with the default applied.
func TargetStepsForDate(db *sql.DB, date string) (int, error) {
	goal, err := CurrentGoal(db, date)
	if err != nil {
		return 0, err
	}
	if goal == nil {
		return DefaultGoalSteps, nil
	}
	return goal.Steps, nil
}

func GoalHistory(db *sql.DB) ([]model.Goal, error) {
	rows, err := db.Query(`
SELECT id, steps, effective_date, created_at
FROM goals
ORDER BY effective_date DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list goal history: %w", err)
	}
	defer rows.Close()

	goals := make([]model.Goal, 0)
	for rows.Next() {
		var g model.Goal
		if err := rows.Scan(&g.ID, &g.Steps, &g.EffectiveDate, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goal history: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goal history: %w", err)
	}
	return goals, nil
}
