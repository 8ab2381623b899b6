package nudge

import (
	"context"
	"fmt"
	"time"

	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/pkg/habit"
)

// Nudge is one reminder about streaks that end at midnight unless checked in.
type Nudge struct {
	Title     string
	Body      string
	Habits    []habit.Summary
	TimeLeft  time.Duration
	HoursLeft int
}

type Notifier interface {
	SendNudge(ctx context.Context, n Nudge) error
}

// untilEndOfDay returns the time left before the local calendar day of now
// ends.
func untilEndOfDay(now time.Time) time.Duration {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
}

// GetHabitsExpiringIn returns the habits whose streak is alive but would be
// lost at midnight, provided midnight is no more than window away.
func GetHabitsExpiringIn(ctx context.Context, q Querier, now time.Time, window time.Duration) ([]habit.Summary, error) {
	if untilEndOfDay(now) > window {
		return nil, nil
	}
	habits, err := q.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	var out []habit.Summary
	for _, h := range habits {
		if h.CurrentStreak > 0 && !h.CheckedToday {
			out = append(out, h)
		}
	}
	return out, nil
}

// Run sends a single nudge for expiring streaks, if there are any.
func Run(ctx context.Context, q Querier, n Notifier, now time.Time, window time.Duration, msgs Messages) error {
	habits, err := GetHabitsExpiringIn(ctx, q, now, window)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		logger.Info("No streaks expiring", "window", window)
		return nil
	}

	left := untilEndOfDay(now)
	title, body := msgs.Pick()
	nudge := Nudge{
		Title:     title,
		Body:      body,
		Habits:    habits,
		TimeLeft:  left,
		HoursLeft: int(left.Hours()),
	}
	if err := n.SendNudge(ctx, nudge); err != nil {
		return fmt.Errorf("send nudge: %w", err)
	}
	logger.Info("Sent nudge", "habits", len(habits), "hours_left", nudge.HoursLeft)
	return nil
}
