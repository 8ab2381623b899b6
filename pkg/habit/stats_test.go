package habit

import (
	"math/rand"
	"testing"
	"time"
)

func TestComputeStats_Scenario(t *testing.T) {
	h := Habit{History: []Entry{
		{Day: mustDay(t, "2024-01-01")},
		{Day: mustDay(t, "2024-01-02")},
		{Day: mustDay(t, "2024-01-03")},
	}}
	today := mustDay(t, "2024-01-03")

	got := ComputeStats(h, MonthOf(today), today)
	if got.CurrentStreak != 3 || got.LongestStreak != 3 || got.TotalCompletions != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.ConsistencyPercent != 10 {
		t.Fatalf("got consistency %d want 10", got.ConsistencyPercent)
	}
	if got.FirstCheckIn == nil || got.FirstCheckIn.String() != "2024-01-01" {
		t.Fatalf("got first check-in %v", got.FirstCheckIn)
	}
}

func TestComputeStats_HalfMonth(t *testing.T) {
	month := Month{Year: 2024, Month: time.April}
	var history []Entry
	for d := month.First(); month.Contains(d); d = d.AddDays(2) {
		history = append(history, Entry{Day: d})
	}
	// duplicates and days outside the month must not count
	history = append(history, Entry{Day: month.First()}, Entry{Day: month.Prev().Last()})

	got := ComputeStats(Habit{History: history}, month, mustDay(t, "2024-05-20"))
	if got.MonthCompletions != 15 {
		t.Fatalf("got %d completions in month want 15", got.MonthCompletions)
	}
	if got.ConsistencyPercent != 50 {
		t.Fatalf("got consistency %d want 50", got.ConsistencyPercent)
	}
	if got.TotalCompletions != 16 {
		t.Fatalf("got total %d want 16", got.TotalCompletions)
	}
	if got.CurrentStreak != 0 {
		t.Fatalf("got current %d want 0", got.CurrentStreak)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(Habit{}, Month{Year: 2024, Month: time.May}, mustDay(t, "2024-05-20"))
	if got.CurrentStreak != 0 || got.LongestStreak != 0 || got.TotalCompletions != 0 || got.ConsistencyPercent != 0 {
		t.Fatalf("got %+v want zero stats", got)
	}
	if got.FirstCheckIn != nil || got.BestMonth != nil {
		t.Fatalf("got %+v", got)
	}
}

func TestComputeStats_BestMonth(t *testing.T) {
	h := Habit{History: entriesOn(
		mustDay(t, "2024-01-05"),
		mustDay(t, "2024-02-01"), mustDay(t, "2024-02-02"),
		mustDay(t, "2024-03-01"), mustDay(t, "2024-03-09"),
	)}
	got := ComputeStats(h, Month{Year: 2024, Month: time.March}, mustDay(t, "2024-03-10"))
	if got.BestMonth == nil || got.BestMonth.String() != "2024-02" || got.BestMonthCompletions != 2 {
		t.Fatalf("got best month %v (%d)", got.BestMonth, got.BestMonthCompletions)
	}
}

func TestComputeStats_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	today := mustDay(t, "2024-02-15")
	month := MonthOf(today)
	for i := 0; i < 300; i++ {
		raw := make([]Entry, rng.Intn(80))
		for j := range raw {
			raw[j] = Entry{Day: today.AddDays(rng.Intn(60) - 40)}
		}
		s := ComputeStats(Habit{History: raw}, month, today)
		if s.ConsistencyPercent < 0 || s.ConsistencyPercent > 100 {
			t.Fatalf("consistency %d out of range", s.ConsistencyPercent)
		}
		if s.LongestStreak < s.CurrentStreak {
			t.Fatalf("longest %d < current %d", s.LongestStreak, s.CurrentStreak)
		}
	}
}
