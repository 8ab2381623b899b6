package cmd

import (
	"fmt"

	"github.com/brk3/habitcal/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	checkinNote  string
	checkinPhoto string
)

var checkinCmd = &cobra.Command{
	Use:   "checkin <habit>",
	Short: "Check in a habit for today",
	Long: `The "checkin" command records today's check-in for a habit, given by name or id.
Checking in twice on the same day keeps the streak as it is; a note or photo
passed the second time replaces the stored one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := habit.ValidateNote(checkinNote); err != nil {
			return err
		}
		c := newClient()
		h, err := c.ResolveHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		res, err := c.CheckIn(cmd.Context(), h.ID, habit.CheckIn{Note: checkinNote, Photo: checkinPhoto})
		if err != nil {
			return fmt.Errorf("check in: %w", err)
		}

		out := cmd.OutOrStdout()
		switch res.Outcome {
		case habit.AlreadyCheckedIn:
			fmt.Fprintf(out, "Already checked in %s today, streak %d\n", res.Habit.Name, res.Habit.Streak)
		default:
			fmt.Fprintf(out, "Checked in %s, streak %d\n", res.Habit.Name, res.Habit.Streak)
		}
		return nil
	},
}

func init() {
	checkinCmd.Flags().StringVarP(&checkinNote, "note", "n", "", "note to attach to today's check-in")
	checkinCmd.Flags().StringVar(&checkinPhoto, "photo", "", "photo reference to attach")
	rootCmd.AddCommand(checkinCmd)
}
