package stride

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "stride tracks steps and nudges you to move from your terminal",
	Long:  "stride is a local-first step tracking CLI with daily goals, inactivity and bedtime reminders, notification history, and activity insights.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database")
}
