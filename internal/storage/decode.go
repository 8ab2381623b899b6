package storage

import (
	"github.com/brk3/habitcal/internal/logger"
	"github.com/brk3/habitcal/pkg/habit"
)

// DecodeHabit decodes a stored habit document, logging and dropping any
// entries that fail validation.
func DecodeHabit(userID string, data []byte) (habit.Habit, error) {
	h, skipped, err := habit.Decode(data)
	if err != nil {
		return habit.Habit{}, err
	}
	for _, e := range skipped {
		logger.Warn("Dropped invalid habit data", "user_id", userID, "habit_id", h.ID, "error", e)
	}
	return h, nil
}
