package nudge

import (
	"context"

	"github.com/brk3/habitcal/pkg/habit"
)

// Querier lists the current user's habits as seen by the server today.
type Querier interface {
	ListHabits(ctx context.Context) ([]habit.Summary, error)
}
