package habit

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength = 20
	MaxNoteLength = 1024

	DefaultIcon = "➕"
)

// Habit is a tracked habit. History is the only source of truth; Streak and
// LastChecked are caches that readers recompute rather than trust.
type Habit struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Icon        string     `json:"icon"`
	Color       string     `json:"color"`
	Category    string     `json:"category"`
	CreatedAt   time.Time  `json:"createdAt"`
	History     []Entry    `json:"history"`
	LastChecked *time.Time `json:"lastChecked"`
	Streak      int        `json:"streak"`
}

// New returns an empty habit ready to be saved for the first time.
func New(id, name, icon, category string, now time.Time) (Habit, error) {
	name = strings.TrimSpace(name)
	if err := ValidateName(name); err != nil {
		return Habit{}, err
	}
	if icon == "" {
		icon = DefaultIcon
	}
	if category == "" {
		category = OtherCategory
	}
	return Habit{
		ID:        id,
		Name:      name,
		Icon:      icon,
		Color:     ColorFor(category),
		Category:  category,
		CreatedAt: now,
		History:   []Entry{},
	}, nil
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 || n > MaxNameLength {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidHabit, MaxNameLength)
	}
	return nil
}

func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return fmt.Errorf("%w: note must be 0-%d characters", ErrInvalidHabit, MaxNoteLength)
	}
	return nil
}

// Refresh returns h with a normalized history and its streak cache
// recomputed for today.
func (h Habit) Refresh(today Day) Habit {
	h.History = Normalize(h.History)
	h.Streak = CurrentStreak(h.History, today)
	return h
}

// CheckedOn reports whether h has a check-in on d.
func (h Habit) CheckedOn(d Day) bool {
	_, ok := EntryOn(Normalize(h.History), d)
	return ok
}

// Summary is the list-view projection of a habit.
type Summary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	Color         string `json:"color"`
	Category      string `json:"category"`
	CurrentStreak int    `json:"currentStreak"`
	CheckedToday  bool   `json:"checkedToday"`
}

func Summarize(h Habit, today Day) Summary {
	history := Normalize(h.History)
	_, checked := EntryOn(history, today)
	return Summary{
		ID:            h.ID,
		Name:          h.Name,
		Icon:          h.Icon,
		Color:         h.Color,
		Category:      h.Category,
		CurrentStreak: CurrentStreak(history, today),
		CheckedToday:  checked,
	}
}
