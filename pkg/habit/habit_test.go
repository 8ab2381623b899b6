package habit

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	now := time.Now()
	h, err := New("id-1", "  meditate ", "", "Mindfulness", now)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if h.Name != "meditate" || h.Icon != DefaultIcon || h.Color != "#B399D4" {
		t.Fatalf("got %+v", h)
	}
	if h.Streak != 0 || len(h.History) != 0 || h.LastChecked != nil {
		t.Fatalf("new habit is not empty: %+v", h)
	}
}

func TestNew_UnknownCategory(t *testing.T) {
	h, err := New("id-1", "bake", "🍞", "Baking", time.Now())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if h.Color != ColorFor(OtherCategory) {
		t.Fatalf("got colour %s", h.Color)
	}
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"", "   ", strings.Repeat("x", MaxNameLength+1)} {
		if err := ValidateName(name); !errors.Is(err, ErrInvalidHabit) {
			t.Errorf("ValidateName(%q): got %v", name, err)
		}
	}
	if err := ValidateName(strings.Repeat("é", MaxNameLength)); err != nil {
		t.Fatalf("got %v", err)
	}
}

func TestValidateNote(t *testing.T) {
	if err := ValidateNote(strings.Repeat("n", MaxNoteLength+1)); !errors.Is(err, ErrInvalidHabit) {
		t.Fatalf("got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Habit{ID: "x", Name: "floss", Streak: 40, History: entriesOn(today.AddDays(-1), today.AddDays(-2))}

	s := Summarize(h, today)
	if s.CurrentStreak != 2 {
		t.Fatalf("got %d want 2; cached streak must not be trusted", s.CurrentStreak)
	}
	if s.CheckedToday {
		t.Fatal("got checked today")
	}

	s = Summarize(Habit{History: entriesOn(today)}, today)
	if !s.CheckedToday || s.CurrentStreak != 1 {
		t.Fatalf("got %+v", s)
	}
}

func TestRefresh(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Habit{Streak: 7, History: entriesOn(today, today, today.AddDays(-1))}.Refresh(today)
	if h.Streak != 2 || len(h.History) != 2 {
		t.Fatalf("got %+v", h)
	}
}
