package stride

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/settings"
)

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Manage active hours for inactivity reminders",
	Long:  "Reminders only fire inside active-hours windows. A window whose start is later than its end spans midnight; no windows means reminders never fire.",
}

var (
	hoursFrom string
	hoursTo   string
)

func parseInterval(from, to string) (settings.HoursInterval, error) {
	start, err := settings.ParseClock(from)
	if err != nil {
		return settings.HoursInterval{}, err
	}
	end, err := settings.ParseClock(to)
	if err != nil {
		return settings.HoursInterval{}, err
	}
	return settings.HoursInterval{StartMinutes: start, EndMinutes: end}, nil
}

func parseIndexArg(value string, count int) (int, error) {
	idx, err := strconv.Atoi(value)
	if err != nil || idx < 1 || idx > count {
		return 0, fmt.Errorf("invalid window number %q (have %d)", value, count)
	}
	return idx - 1, nil
}

var hoursAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an active-hours window",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := parseInterval(hoursFrom, hoursTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.ActiveHours = append(s.ActiveHours, interval)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added window %s-%s (%d total)\n",
				settings.FormatClock(interval.StartMinutes), settings.FormatClock(interval.EndMinutes), len(cfg.ActiveHours))
			return nil
		})
	},
}

var hoursListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active-hours windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := settings.LoadSettings(sqldb)
			if err != nil {
				return err
			}
			if len(cfg.ActiveHours) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No active hours configured; reminders never fire")
				return nil
			}
			for i, iv := range cfg.ActiveHours {
				span := ""
				if iv.StartMinutes > iv.EndMinutes {
					span = " (spans midnight)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s-%s%s\n",
					i+1, settings.FormatClock(iv.StartMinutes), settings.FormatClock(iv.EndMinutes), span)
			}
			return nil
		})
	},
}

var hoursRemoveCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove an active-hours window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				idx, err := parseIndexArg(args[0], len(s.ActiveHours))
				if err != nil {
					return err
				}
				s.ActiveHours = append(s.ActiveHours[:idx], s.ActiveHours[idx+1:]...)
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed window %s\n", args[0])
			return nil
		})
	},
}

var hoursUpdateCmd = &cobra.Command{
	Use:   "update <number>",
	Short: "Replace an active-hours window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := parseInterval(hoursFrom, hoursTo)
		if err != nil {
			return err
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				idx, err := parseIndexArg(args[0], len(s.ActiveHours))
				if err != nil {
					return err
				}
				s.ActiveHours[idx] = interval
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated window %s to %s-%s\n",
				args[0], settings.FormatClock(interval.StartMinutes), settings.FormatClock(interval.EndMinutes))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(hoursCmd)
	hoursCmd.AddCommand(hoursAddCmd, hoursListCmd, hoursRemoveCmd, hoursUpdateCmd)

	hoursAddCmd.Flags().StringVar(&hoursFrom, "from", "", "Window start HH:MM")
	hoursAddCmd.Flags().StringVar(&hoursTo, "to", "", "Window end HH:MM")
	_ = hoursAddCmd.MarkFlagRequired("from")
	_ = hoursAddCmd.MarkFlagRequired("to")

	hoursUpdateCmd.Flags().StringVar(&hoursFrom, "from", "", "Window start HH:MM")
	hoursUpdateCmd.Flags().StringVar(&hoursTo, "to", "", "Window end HH:MM")
	_ = hoursUpdateCmd.MarkFlagRequired("from")
	_ = hoursUpdateCmd.MarkFlagRequired("to")
}
