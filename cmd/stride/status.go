package stride

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/service"
	"github.com/strideapp/stride-cli/internal/settings"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's progress and reminder configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			now := time.Now()
			date := now.Format("2006-01-02")

			total, err := service.DayTotal(sqldb, date)
			if err != nil {
				return err
			}
			target, err := service.TargetStepsForDate(sqldb, date)
			if err != nil {
				return err
			}
			reminders, err := service.CountForDay(sqldb, date)
			if err != nil {
				return err
			}
			cfg, err := settings.LoadSettings(sqldb)
			if err != nil {
				return err
			}
			state, err := settings.LoadActivityState(sqldb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Date: %s\n", date)
			progress := fmt.Sprintf("%d / %d steps", total, target)
			if total >= target {
				fmt.Fprintf(out, "Steps: %s %s\n", color.GreenString(progress), color.GreenString("(goal met)"))
			} else {
				fmt.Fprintf(out, "Steps: %s (%s to go)\n", color.YellowString(progress), color.YellowString(fmt.Sprintf("%d", target-total)))
			}

			if state.LastActivityTime.IsZero() {
				fmt.Fprintln(out, "Last movement: never")
			} else {
				fmt.Fprintf(out, "Last movement: %s ago\n", now.Sub(state.LastActivityTime).Round(time.Minute))
			}
			fmt.Fprintf(out, "Reminders today: %d\n", reminders)

			if cfg.RemindersEnabled {
				fmt.Fprintf(out, "Inactivity reminders: on (every %d min", cfg.InactivityThresholdMin)
				if len(cfg.ActiveHours) > 0 {
					fmt.Fprint(out, ", active")
					for i, iv := range cfg.ActiveHours {
						if i > 0 {
							fmt.Fprint(out, ",")
						}
						fmt.Fprintf(out, " %s-%s", settings.FormatClock(iv.StartMinutes), settings.FormatClock(iv.EndMinutes))
					}
				}
				fmt.Fprintln(out, ")")
			} else {
				fmt.Fprintln(out, "Inactivity reminders: off")
			}

			if cfg.BedtimeEnabled {
				fmt.Fprintf(out, "Bedtime check-in: on (%s, %d min lead)\n", cfg.Bedtime, cfg.BedtimeLeadMin)
			} else {
				fmt.Fprintln(out, "Bedtime check-in: off")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
