// Package insights derives display statistics from day activity summaries.
// Everything here is computed on demand; nothing is persisted.
package insights

import (
	"math"

	"github.com/strideapp/stride-cli/internal/model"
)

const (
	// Waking hours bound the windows considered for per-hour statistics.
	WakingHourStart = 6
	WakingHourEnd   = 23

	// ActiveHourStepThreshold is the per-hour step count an hour must
	// exceed to count toward the consistency score.
	ActiveHourStepThreshold = 250

	// consistencyDayFraction: an hour is "consistent" when it clears the
	// threshold on at least this share of observed days.
	consistencyDayFraction = 0.70
)

type HourWindow struct {
	Hour  int `json:"hour"`
	Total int `json:"total"`
}

type Report struct {
	Days                int        `json:"days"`
	TotalSteps          int        `json:"total_steps"`
	TotalNotifications  int        `json:"total_notifications"`
	MostActiveHour      HourWindow `json:"most_active_hour"`
	MostNotifiedHour    HourWindow `json:"most_notified_hour"`
	ConsistencyScore    int        `json:"consistency_score"`
	GoalAchievedDays    int        `json:"goal_achieved_days"`
	GoalAchievementRate float64    `json:"goal_achievement_rate"`
}

// Summarize aggregates a span of day activities. Hour ties resolve to the
// lowest-numbered hour.
func Summarize(days []model.DayActivity) Report {
	var report Report
	report.Days = len(days)
	if len(days) == 0 {
		return report
	}

	var stepsByHour [24]int
	var notifsByHour [24]int
	for _, day := range days {
		report.TotalSteps += day.TotalSteps
		report.TotalNotifications += day.TotalNotifications
		for h := 0; h < 24; h++ {
			stepsByHour[h] += day.PerHourSteps[h]
			notifsByHour[h] += day.PerHourNotifications[h]
		}
		if day.TargetSteps > 0 && day.TotalSteps >= day.TargetSteps {
			report.GoalAchievedDays++
		}
	}

	report.MostActiveHour = maxWakingHour(stepsByHour)
	report.MostNotifiedHour = maxWakingHour(notifsByHour)
	report.ConsistencyScore = consistencyScore(days)
	report.GoalAchievementRate = float64(report.GoalAchievedDays) / float64(len(days))
	return report
}

func maxWakingHour(totals [24]int) HourWindow {
	best := HourWindow{Hour: WakingHourStart, Total: totals[WakingHourStart]}
	for h := WakingHourStart + 1; h <= WakingHourEnd; h++ {
		if totals[h] > best.Total {
			best = HourWindow{Hour: h, Total: totals[h]}
		}
	}
	return best
}

// consistencyScore is the share of waking hours, scaled to 0-100, in which
// the step count cleared the hourly threshold on at least 70% of days.
func consistencyScore(days []model.DayActivity) int {
	wakingHours := WakingHourEnd - WakingHourStart + 1
	consistent := 0
	for h := WakingHourStart; h <= WakingHourEnd; h++ {
		cleared := 0
		for _, day := range days {
			if day.PerHourSteps[h] > ActiveHourStepThreshold {
				cleared++
			}
		}
		if float64(cleared)/float64(len(days)) >= consistencyDayFraction {
			consistent++
		}
	}
	return int(math.Round(100 * float64(consistent) / float64(wakingHours)))
}
