package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brk3/habitcal/internal/nudge"
	"github.com/brk3/habitcal/internal/nudge/resend"
	"github.com/spf13/cobra"
)

var nudgeDaemon bool

var nudgeCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Send a reminder for habit streaks that end tonight",
	Long: `The "nudge" command emails a reminder listing habits whose streak is alive
but not yet checked in today, once the end of the day is within the configured
window. With --daemon it keeps running and nudges on the configured cron
schedule (by default 14:00 and 20:13).`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Nudge.ResendAPIKey == "" {
			return fmt.Errorf("HABITS_RESEND_API_KEY is not set")
		}
		if cfg.Nudge.Email == "" {
			return fmt.Errorf("HABITS_NOTIFY_EMAIL is not set")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		notifier := resend.NewNotifier(cfg.Nudge.ResendAPIKey, cfg.Nudge.From, cfg.Nudge.Email)
		job := func(ctx context.Context) error {
			return nudge.Run(ctx, client, notifier, time.Now(), cfg.Nudge.Window, nudge.Messages{})
		}

		if !nudgeDaemon {
			return job(cmd.Context())
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return nudge.Schedule(ctx, cfg.Nudge.Schedule, job)
	},
}

func init() {
	nudgeCmd.Flags().BoolVar(&nudgeDaemon, "daemon", false, "keep running and nudge on the configured schedule")
	rootCmd.AddCommand(nudgeCmd)
}
