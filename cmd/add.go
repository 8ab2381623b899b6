package cmd

import (
	"fmt"
	"strings"

	"github.com/brk3/habitcal/internal/server"
	"github.com/brk3/habitcal/pkg/habit"
	"github.com/spf13/cobra"
)

var (
	addIcon     string
	addCategory string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new habit",
	Long: `The "add" command creates a habit. Names are 1-20 characters. The category
picks the habit's colour; unknown categories fall back to "Others".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		if err := habit.ValidateName(name); err != nil {
			return err
		}
		h, err := newClient().CreateHabit(cmd.Context(), server.CreateHabitRequest{
			Name:     name,
			Icon:     addIcon,
			Category: addCategory,
		})
		if err != nil {
			return fmt.Errorf("add habit: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s)\n", h.Icon, h.Name, h.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addIcon, "icon", "", "emoji shown next to the habit")
	addCmd.Flags().StringVar(&addCategory, "category", habit.OtherCategory, categoryHelp())
	rootCmd.AddCommand(addCmd)
}

func categoryHelp() string {
	names := make([]string, 0, len(habit.Categories))
	for _, c := range habit.Categories {
		names = append(names, c.Name)
	}
	return "one of: " + strings.Join(names, ", ")
}
