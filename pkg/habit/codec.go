package habit

import (
	"encoding/json"
	"fmt"
	"time"
)

// document mirrors the persisted JSON shape with every date left as a string
// so that one bad value does not make the whole habit unreadable.
type document struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Icon        string          `json:"icon"`
	Color       string          `json:"color"`
	Category    string          `json:"category"`
	CreatedAt   string          `json:"createdAt"`
	History     []documentEntry `json:"history"`
	LastChecked *string         `json:"lastChecked"`
	Streak      int             `json:"streak"`
}

type documentEntry struct {
	Date  string `json:"date"`
	Note  string `json:"note,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// Decode parses a persisted habit. History entries with an unparseable date
// are dropped and reported in skipped, as are unreadable createdAt and
// lastChecked values, which are left unset. The remaining history is
// normalized in stored order. err is set only when data is not a habit
// document at all.
func Decode(data []byte) (h Habit, skipped []error, err error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Habit{}, nil, fmt.Errorf("decode habit: %w", err)
	}

	h = Habit{
		ID:       doc.ID,
		Name:     doc.Name,
		Icon:     doc.Icon,
		Color:    doc.Color,
		Category: doc.Category,
		Streak:   doc.Streak,
	}
	if doc.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, doc.CreatedAt); err == nil {
			h.CreatedAt = t
		} else {
			skipped = append(skipped, fmt.Errorf("createdAt: %w: %q", ErrInvalidDate, doc.CreatedAt))
		}
	}
	if doc.LastChecked != nil && *doc.LastChecked != "" {
		if t, err := time.Parse(time.RFC3339Nano, *doc.LastChecked); err == nil {
			h.LastChecked = &t
		} else {
			skipped = append(skipped, fmt.Errorf("lastChecked: %w: %q", ErrInvalidDate, *doc.LastChecked))
		}
	}

	entries := make([]Entry, 0, len(doc.History))
	for i, e := range doc.History {
		d, err := ParseDay(e.Date)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("history[%d]: %w", i, err))
			continue
		}
		entries = append(entries, Entry{Day: d, Note: e.Note, Photo: e.Photo})
	}
	h.History = Normalize(entries)
	return h, skipped, nil
}

// Encode returns the persisted form of h with its history normalized.
func Encode(h Habit) ([]byte, error) {
	h.History = Normalize(h.History)
	return json.Marshal(h)
}
