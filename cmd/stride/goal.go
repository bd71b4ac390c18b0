package stride

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strideapp/stride-cli/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily step goals",
}

var (
	goalSteps int
	goalDate  string
)

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set a daily step goal with an effective date",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			in := service.SetGoalInput{Steps: goalSteps, EffectiveDate: goalDate}
			if err := service.SetGoal(sqldb, in); err != nil {
				return err
			}
			effective := goalDate
			if effective == "" {
				effective = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set goal of %d steps effective %s\n", goalSteps, effective)
			return nil
		})
	},
}

var currentGoalDate string

var goalCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the goal in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goal, err := service.CurrentGoal(sqldb, currentGoalDate)
			if err != nil {
				return err
			}
			if goal == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No goal configured (default %d steps applies)\n", service.DefaultGoalSteps)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Effective: %s\nSteps: %d\n", goal.EffectiveDate, goal.Steps)
			return nil
		})
	},
}

var goalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show goal history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(sqldb *sql.DB) error {
			goals, err := service.GoalHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tSTEPS")
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", g.EffectiveDate, g.Steps)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalCurrentCmd, goalHistoryCmd)

	goalSetCmd.Flags().IntVar(&goalSteps, "steps", 0, "Daily step target")
	goalSetCmd.Flags().StringVar(&goalDate, "effective-date", "", "Effective date YYYY-MM-DD (default today)")
	_ = goalSetCmd.MarkFlagRequired("steps")

	goalCurrentCmd.Flags().StringVar(&currentGoalDate, "date", "", "Resolve goal at date YYYY-MM-DD (default today)")
}
