package storage

import (
	"errors"

	"github.com/brk3/habitcal/pkg/habit"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrWriteFailed = errors.New("write failed")
)

// Store persists habits per user. Implementations decode every habit through
// habit.Decode, so returned habits always carry a normalized history; the
// cached Streak is returned as stored and must not be trusted.
//
// Writes are last-write-wins; nothing arbitrates concurrent updates to the
// same habit.
type Store interface {
	PutHabit(userID string, h habit.Habit) error
	GetHabit(userID, id string) (habit.Habit, error)
	ListHabits(userID string) ([]habit.Habit, error)
	DeleteHabit(userID, id string) error

	PutAPIKey(keyHash, userID string) error
	GetAPIKey(keyHash string) (userID string, found bool, err error)
	DeleteAPIKey(keyHash string) error
	ListAPIKeyHashes(userID string) ([]string, error)

	Close() error
}

const DefaultUserID = "default"

// UserOrDefault maps an empty user id onto DefaultUserID.
func UserOrDefault(userID string) string {
	if userID == "" {
		return DefaultUserID
	}
	return userID
}
