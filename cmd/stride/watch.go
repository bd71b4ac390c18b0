package stride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strideapp/stride-cli/internal/health"
	"github.com/strideapp/stride-cli/internal/notify"
	"github.com/strideapp/stride-cli/internal/tracker"
)

var (
	watchPollSeconds int
	watchVerbose     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the reminder engine in the foreground",
	Long:  "watch polls recorded step data, fires inactivity and bedtime reminders to the terminal, and records them in history. Stop with Ctrl-C.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			log := zap.NewNop()
			if watchVerbose {
				var err error
				log, err = zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("build logger: %w", err)
				}
				defer log.Sync()
			}

			c := clock.New()
			queue := notify.NewQueue(c)
			source := health.NewStoreSource(sqldb)

			tr, err := tracker.New(sqldb, c, source, queue, log)
			if err != nil {
				return err
			}
			tr.OnDeliver = func(s notify.Scheduled) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n",
					time.Now().Format("15:04"), color.CyanString(s.Title), s.Body)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "Watching for inactivity (Ctrl-C to stop)")
			err = tr.Run(ctx, queue, time.Duration(watchPollSeconds)*time.Second)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&watchPollSeconds, "poll-seconds", 30, "Seconds between step data polls")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "Log engine decisions")
}
