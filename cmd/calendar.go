package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar <habit>",
	Short: "Show a month calendar of check-ins",
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
		cells, err := c.Calendar(cmd.Context(), h.ID, month)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderCalendar(h.Name, h.Color, month, cells))
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend <habit>",
	Short: "Show the day-by-day run length for a month",
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
		points, err := c.Trend(cmd.Context(), h.ID, month)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderTrend(h.Name, month, points))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calendarCmd, trendCmd)
}
