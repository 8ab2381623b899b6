package nudge

import (
	"context"
	"fmt"

	"github.com/brk3/habitcal/internal/logger"
	"github.com/robfig/cron/v3"
)

// Schedule runs job on every cron spec until ctx is cancelled. Specs use the
// standard five-field format and are evaluated in local time.
func Schedule(ctx context.Context, specs []string, job func(context.Context) error) error {
	if len(specs) == 0 {
		return fmt.Errorf("no nudge schedule configured")
	}
	c := cron.New()
	for _, spec := range specs {
		_, err := c.AddFunc(spec, func() {
			logger.Debug("Running scheduled nudge", "schedule", spec)
			if err := job(ctx); err != nil {
				logger.Error("Scheduled nudge failed", "schedule", spec, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}

	c.Start()
	logger.Info("Nudge scheduler started", "schedules", specs)
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Nudge scheduler stopped")
	return nil
}
