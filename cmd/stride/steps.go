package stride

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/health"
	"github.com/strideapp/stride-cli/internal/service"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "Record and inspect per-hour step counts",
}

var (
	stepsLogDate   string
	stepsLogHour   int
	stepsLogCount  int
	stepsLogSource string
)

var stepsLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Record steps for one hour of a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			in := service.RecordStepsInput{
				Day:    stepsLogDate,
				Hour:   stepsLogHour,
				Steps:  stepsLogCount,
				Source: stepsLogSource,
			}
			if err := service.RecordSteps(sqldb, in); err != nil {
				return err
			}
			day := stepsLogDate
			if day == "" {
				day = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d steps for %s hour %02d\n", stepsLogCount, day, stepsLogHour)
			return nil
		})
	},
}

var stepsTodayDate string

var stepsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show the hourly breakdown and total for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDateOrToday(stepsTodayDate)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			source := health.NewStoreSource(sqldb)
			hours, err := source.HourlySteps(cmd.Context(), date)
			if err != nil {
				return err
			}
			target, err := service.TargetStepsForDate(sqldb, date)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Date: %s\n", date)
			total := 0
			for hour, steps := range hours {
				total += steps
				if steps == 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%02d:00\t%d\n", hour, steps)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d / %d steps\n", total, target)
			return nil
		})
	},
}

var stepsHistoryDays int

var stepsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show daily totals over recent days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			to := time.Now()
			from := to.AddDate(0, 0, -(stepsHistoryDays - 1))
			totals, err := health.NewStoreSource(sqldb).DayTotals(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tSTEPS")
			for _, day := range totals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", day.Date, day.Steps)
			}
			return nil
		})
	},
}

var stepsWeekdaysCmd = &cobra.Command{
	Use:   "weekdays",
	Short: "Show average daily steps per weekday",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			averages, err := service.WeekdayAverages(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "WEEKDAY\tAVG STEPS\tDAYS")
			for _, avg := range averages {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.0f\t%d\n", avg.Weekday, avg.AverageSteps, avg.ObservedDays)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
	stepsCmd.AddCommand(stepsLogCmd, stepsTodayCmd, stepsHistoryCmd, stepsWeekdaysCmd)

	stepsLogCmd.Flags().StringVar(&stepsLogDate, "date", "", "Date YYYY-MM-DD (default today)")
	stepsLogCmd.Flags().IntVar(&stepsLogHour, "hour", 0, "Hour of day 0-23")
	stepsLogCmd.Flags().IntVar(&stepsLogCount, "count", 0, "Step count for the hour")
	stepsLogCmd.Flags().StringVar(&stepsLogSource, "source", "", "Sample source (default manual)")
	_ = stepsLogCmd.MarkFlagRequired("hour")
	_ = stepsLogCmd.MarkFlagRequired("count")

	stepsTodayCmd.Flags().StringVar(&stepsTodayDate, "date", "", "Date YYYY-MM-DD (default today)")

	stepsHistoryCmd.Flags().IntVar(&stepsHistoryDays, "days", 7, "Number of days to show")
}
