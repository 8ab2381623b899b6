package cmd

import (
	"os"

	"github.com/brk3/habitcal/internal/apiclient"
	"github.com/brk3/habitcal/internal/config"
	"github.com/brk3/habitcal/internal/logger"
	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Track daily habits and keep your streaks alive",
	Long: `
	Habits tracks daily habits. Check in once a day to build a streak, then look
	back over a month calendar, a trend chart, and your stats. Run "habits server"
	to host the API; every other command talks to that server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return logger.Setup(logger.Options{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(cfg.APIBaseURL, cfg.AuthToken)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the config file")
}
