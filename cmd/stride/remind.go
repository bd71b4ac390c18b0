package stride

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/settings"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Configure inactivity reminders",
}

var remindEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn inactivity reminders on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.RemindersEnabled = true
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inactivity reminders enabled (threshold %d min)\n", cfg.InactivityThresholdMin)
			return nil
		})
	},
}

var remindDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn inactivity reminders off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.RemindersEnabled = false
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Inactivity reminders disabled")
			return nil
		})
	},
}

var remindThresholdMinutes int

var remindThresholdCmd = &cobra.Command{
	Use:   "threshold",
	Short: "Set the inactivity threshold in minutes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if remindThresholdMinutes <= 0 {
			return fmt.Errorf("threshold must be > 0 minutes")
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.InactivityThresholdMin = remindThresholdMinutes
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inactivity threshold set to %d minutes\n", remindThresholdMinutes)
			return nil
		})
	},
}

var remindSpacingSeconds int

var remindSpacingCmd = &cobra.Command{
	Use:   "spacing",
	Short: "Set the minimum seconds between reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if remindSpacingSeconds <= 0 {
			return fmt.Errorf("spacing must be > 0 seconds")
		}
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.MinSpacingSec = remindSpacingSeconds
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Minimum reminder spacing set to %d seconds\n", remindSpacingSeconds)
			return nil
		})
	},
}

var bedtimeCmd = &cobra.Command{
	Use:   "bedtime",
	Short: "Configure the bedtime goal check-in",
}

var bedtimeEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn the bedtime check-in on",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.BedtimeEnabled = true
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bedtime check-in enabled (%s, %d min lead)\n", cfg.Bedtime, cfg.BedtimeLeadMin)
			return nil
		})
	},
}

var bedtimeDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn the bedtime check-in off",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			if _, err := updateSettings(sqldb, func(s *settings.Settings) error {
				s.BedtimeEnabled = false
				return nil
			}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Bedtime check-in disabled")
			return nil
		})
	},
}

var (
	bedtimeAt      string
	bedtimeLeadMin int
)

var bedtimeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set bedtime and reminder lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			cfg, err := updateSettings(sqldb, func(s *settings.Settings) error {
				if bedtimeAt != "" {
					if _, err := settings.ParseClock(bedtimeAt); err != nil {
						return err
					}
					s.Bedtime = bedtimeAt
				}
				if bedtimeLeadMin > 0 {
					s.BedtimeLeadMin = bedtimeLeadMin
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bedtime %s with %d min lead\n", cfg.Bedtime, cfg.BedtimeLeadMin)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(remindCmd, bedtimeCmd)
	remindCmd.AddCommand(remindEnableCmd, remindDisableCmd, remindThresholdCmd, remindSpacingCmd)
	bedtimeCmd.AddCommand(bedtimeEnableCmd, bedtimeDisableCmd, bedtimeSetCmd)

	remindThresholdCmd.Flags().IntVar(&remindThresholdMinutes, "minutes", 0, "Minutes without steps before a reminder")
	_ = remindThresholdCmd.MarkFlagRequired("minutes")

	remindSpacingCmd.Flags().IntVar(&remindSpacingSeconds, "seconds", 0, "Minimum seconds between reminders")
	_ = remindSpacingCmd.MarkFlagRequired("seconds")

	bedtimeSetCmd.Flags().StringVar(&bedtimeAt, "time", "", "Bedtime HH:MM")
	bedtimeSetCmd.Flags().IntVar(&bedtimeLeadMin, "lead-minutes", 0, "Minutes before bedtime to check in")
}
