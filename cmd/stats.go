package cmd

import (
	"fmt"

	"github.com/brk3/habitcal/pkg/habit"
	"github.com/spf13/cobra"
)

var monthArg string

// parseMonthFlag reads --month, defaulting to the current month.
func parseMonthFlag() (habit.Month, error) {
	if monthArg == "" {
		return habit.MonthOf(habit.Today()), nil
	}
	return habit.ParseMonth(monthArg)
}

var statsCmd = &cobra.Command{
	Use:   "stats <habit>",
	Short: "Show streaks and completion stats for a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseMonthFlag()
		if err != nil {
			return err
		}
		c := newClient()
		h, err := c.ResolveHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		stats, err := c.GetHabitSummary(cmd.Context(), h.ID, month)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderStats(h.Name, stats))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, calendarCmd, trendCmd} {
		c.Flags().StringVarP(&monthArg, "month", "m", "", "month as YYYY-MM (default: this month)")
	}
	rootCmd.AddCommand(statsCmd)
}
