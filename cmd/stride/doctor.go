package stride

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/service"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run data integrity checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			report, err := service.Doctor(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Out-of-range samples: %d\n", report.OutOfRangeSamples)
			fmt.Fprintf(cmd.OutOrStdout(), "Duplicate sample slots: %d\n", report.DuplicateSampleSlots)
			fmt.Fprintf(cmd.OutOrStdout(), "Unknown notification kinds: %d\n", report.UnknownNotifKinds)
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned notifications: %d\n", report.PrunedNotifications)
			if report.OutOfRangeSamples > 0 || report.DuplicateSampleSlots > 0 || report.UnknownNotifKinds > 0 {
				return fmt.Errorf("doctor found integrity issues")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
