package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <habit>",
	Short: "Delete a habit and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		h, err := c.ResolveHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := c.DeleteHabit(cmd.Context(), h.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", h.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
