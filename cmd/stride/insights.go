package stride

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/insights"
	"github.com/strideapp/stride-cli/internal/service"
)

var insightsDays int

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize activity patterns over recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		if insightsDays <= 0 {
			return fmt.Errorf("--days must be > 0")
		}
		return withDB(func(sqldb *sql.DB) error {
			to := time.Now()
			from := to.AddDate(0, 0, -(insightsDays - 1))
			days, err := service.DayActivities(sqldb, from, to)
			if err != nil {
				return err
			}
			report := insights.Summarize(days)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Days analyzed: %d\n", report.Days)
			fmt.Fprintf(out, "Total steps: %d\n", report.TotalSteps)
			fmt.Fprintf(out, "Most active hour: %02d:00 (%d steps)\n", report.MostActiveHour.Hour, report.MostActiveHour.Total)
			if report.TotalNotifications > 0 {
				fmt.Fprintf(out, "Most reminded hour: %02d:00 (%d reminders)\n", report.MostNotifiedHour.Hour, report.MostNotifiedHour.Total)
			}
			fmt.Fprintf(out, "Consistency score: %d/100\n", report.ConsistencyScore)
			fmt.Fprintf(out, "Goal achieved: %d of %d days (%.0f%%)\n",
				report.GoalAchievedDays, report.Days, report.GoalAchievementRate*100)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.Flags().IntVar(&insightsDays, "days", 14, "Number of days to analyze")
}
