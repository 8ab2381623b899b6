package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brk3/habitcal/internal/config"
	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/internal/server"
	"github.com/brk3/habitcal/internal/storage"
	"github.com/brk3/habitcal/internal/storage/bolt"
	"github.com/brk3/habitcal/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return startServer(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func openStore(c *config.Config) (storage.Store, error) {
	logger.Info("Opening store", "backend", c.StorageBackend, "path", c.DBPath)
	switch c.StorageBackend {
	case config.BackendBolt:
		return bolt.Open(c.DBPath)
	case config.BackendSQLite:
		return sqlite.Open(c.DBPath)
	}
	return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
}

func startServer(ctx context.Context) error {
	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	srv, err := server.New(cfg, store)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
