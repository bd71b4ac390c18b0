package stride

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/service"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently sent reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			records, err := service.ListNotifications(sqldb, historyLimit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reminders in the last 35 days")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "SENT\tKIND\tMESSAGE")
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n",
					rec.SentAt.Format("2006-01-02 15:04"), rec.Kind, rec.Message)
			}
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate reminder statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			stats, err := service.HistoryStatsAll(sqldb)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total reminders: %d\n", stats.Total)
			if stats.Total == 0 {
				return nil
			}
			fmt.Fprintf(out, "Most active hour: %02d:00\n", stats.MostActiveHour)
			fmt.Fprintf(out, "Average per hour: %.2f\n", stats.AveragePerHour)
			for kind, count := range stats.ByKind {
				fmt.Fprintf(out, "  %s: %d\n", kind, count)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, statsCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries to show")
}
