package cmd

import (
	"fmt"

	"github.com/brk3/habitcal/pkg/versioninfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `The "version" command displays the current version info for both client
and server if available.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version(cmd)
	},
}

func version(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Client Version: %s\n", versioninfo.Version)

	info, err := newClient().Version(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Error fetching server version:", err)
		return
	}
	fmt.Fprintf(out, "Server Version: %s\n", info.Version)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
