package habit

import "math"

// Stats is derived from a habit's history and never stored as primary data.
type Stats struct {
	CurrentStreak      int `json:"currentStreak"`
	LongestStreak      int `json:"longestStreak"`
	TotalCompletions   int `json:"totalCompletions"`
	ConsistencyPercent int `json:"consistencyPercent"`

	Month                Month  `json:"month"`
	MonthCompletions     int    `json:"monthCompletions"`
	FirstCheckIn         *Day   `json:"firstCheckIn,omitempty"`
	BestMonth            *Month `json:"bestMonth,omitempty"`
	BestMonthCompletions int    `json:"bestMonthCompletions"`
}

// ComputeStats aggregates streaks, completion counts and the consistency of
// month: the rounded percentage of the month's days that have a check-in.
func ComputeStats(h Habit, month Month, today Day) Stats {
	history := Normalize(h.History)
	s := Stats{
		CurrentStreak:    CurrentStreak(history, today),
		LongestStreak:    LongestStreak(history),
		TotalCompletions: len(history),
		Month:            month,
	}
	if len(history) == 0 {
		return s
	}

	first := history[0].Day
	s.FirstCheckIn = &first

	perMonth := make(map[Month]int)
	for _, e := range history {
		perMonth[MonthOf(e.Day)]++
	}
	s.MonthCompletions = perMonth[month]
	s.ConsistencyPercent = consistency(s.MonthCompletions, month.Days())

	// history is ascending, so the earliest month wins ties.
	for _, e := range history {
		m := MonthOf(e.Day)
		if perMonth[m] > s.BestMonthCompletions {
			best := m
			s.BestMonth = &best
			s.BestMonthCompletions = perMonth[m]
		}
	}
	return s
}

func consistency(done, days int) int {
	if days <= 0 || done <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(done) / float64(days)))
	return min(max(p, 0), 100)
}
