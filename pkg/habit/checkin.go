package habit

import (
	"fmt"
	"time"
)

// Outcome is the result of RecordCheckIn. Neither value is a failure.
type Outcome int

const (
	Recorded Outcome = iota
	AlreadyCheckedIn
)

func (o Outcome) String() string {
	switch o {
	case Recorded:
		return "recorded"
	case AlreadyCheckedIn:
		return "already_checked_in"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "recorded":
		*o = Recorded
	case "already_checked_in":
		*o = AlreadyCheckedIn
	default:
		return fmt.Errorf("unknown check-in outcome %q", b)
	}
	return nil
}

// CheckIn carries the optional attachments of a check-in.
type CheckIn struct {
	Note  string `json:"note,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// RecordCheckIn records a check-in for the calendar day of now.
//
// If h already has an entry for that day the streak is left alone and only
// the attachments change: a non-empty note or photo replaces the stored one,
// an empty one keeps it. Otherwise a new entry is appended, the streak is
// recomputed and LastChecked is set to now. Calling it repeatedly on the same
// day always yields the same streak.
//
// h is not modified; the updated habit is returned.
func RecordCheckIn(h Habit, in CheckIn, now time.Time) (Habit, Outcome, error) {
	if now.IsZero() {
		return h, Recorded, fmt.Errorf("%w: zero check-in time", ErrInvalidDate)
	}
	today := FromTime(now)
	history := Normalize(h.History)

	if i, ok := indexOf(history, today); ok {
		if in.Note != "" {
			history[i].Note = in.Note
		}
		if in.Photo != "" {
			history[i].Photo = in.Photo
		}
		h.History = history
		h.Streak = CurrentStreak(history, today)
		return h, AlreadyCheckedIn, nil
	}

	history = Normalize(append(history, Entry{Day: today, Note: in.Note, Photo: in.Photo}))
	h.History = history
	h.Streak = CurrentStreak(history, today)
	h.LastChecked = &now
	return h, Recorded, nil
}

func indexOf(history []Entry, d Day) (int, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Day.Equal(d) {
			return i, true
		}
	}
	return 0, false
}
