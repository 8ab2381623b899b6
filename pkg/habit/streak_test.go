package habit

import (
	"math/rand"
	"testing"
)

func TestStreaks_Empty(t *testing.T) {
	if got := CurrentStreak(nil, Today()); got != 0 {
		t.Fatalf("current: got %d want 0", got)
	}
	if got := LongestStreak(nil); got != 0 {
		t.Fatalf("longest: got %d want 0", got)
	}
}

func TestStreaks_EndingToday(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Normalize(entriesOn(today, today.AddDays(-1), today.AddDays(-2)))

	if got := CurrentStreak(h, today); got != 3 {
		t.Fatalf("current: got %d want 3", got)
	}
	if got := LongestStreak(h); got != 3 {
		t.Fatalf("longest: got %d want 3", got)
	}
}

func TestStreaks_GraceDay(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Normalize(entriesOn(today.AddDays(-1), today.AddDays(-2)))

	if got := CurrentStreak(h, today); got != 2 {
		t.Fatalf("got %d want 2", got)
	}
}

func TestStreaks_Broken(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Normalize(entriesOn(today.AddDays(-3), today.AddDays(-4)))

	if got := CurrentStreak(h, today); got != 0 {
		t.Fatalf("current: got %d want 0", got)
	}
	if got := LongestStreak(h); got != 2 {
		t.Fatalf("longest: got %d want 2", got)
	}
}

func TestStreaks_SingleEntry(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	cases := []struct {
		day     Day
		current int
	}{
		{today, 1},
		{today.AddDays(-1), 1},
		{today.AddDays(-2), 0},
	}
	for _, c := range cases {
		h := entriesOn(c.day)
		if got := CurrentStreak(h, today); got != c.current {
			t.Errorf("%s: current got %d want %d", c.day, got, c.current)
		}
		if got := LongestStreak(h); got != 1 {
			t.Errorf("%s: longest got %d want 1", c.day, got)
		}
	}
}

func TestStreaks_CurrentStopsAtGap(t *testing.T) {
	today := mustDay(t, "2024-06-10")
	h := Normalize(entriesOn(
		today, today.AddDays(-1),
		today.AddDays(-3), today.AddDays(-4), today.AddDays(-5), today.AddDays(-6),
	))
	if got := CurrentStreak(h, today); got != 2 {
		t.Fatalf("current: got %d want 2", got)
	}
	if got := LongestStreak(h); got != 4 {
		t.Fatalf("longest: got %d want 4", got)
	}
}

func TestStreaks_AcrossMonthAndYear(t *testing.T) {
	today := mustDay(t, "2025-01-01")
	h := Normalize(entriesOn(mustDay(t, "2024-12-30"), mustDay(t, "2024-12-31"), today))
	if got := CurrentStreak(h, today); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
}

func TestStreaks_LongestNeverBelowCurrent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	today := mustDay(t, "2024-06-10")
	for i := 0; i < 500; i++ {
		raw := make([]Entry, rng.Intn(30))
		for j := range raw {
			raw[j] = Entry{Day: today.AddDays(-rng.Intn(45))}
		}
		h := Normalize(raw)
		cur, longest := CurrentStreak(h, today), LongestStreak(h)
		if longest < cur {
			t.Fatalf("longest %d < current %d for %v", longest, cur, h)
		}
		if cur > len(h) || longest > len(h) {
			t.Fatalf("streak longer than history: cur=%d longest=%d len=%d", cur, longest, len(h))
		}
	}
}
