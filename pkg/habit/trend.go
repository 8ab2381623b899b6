package habit

// TrendPoint is one bar of the monthly trend chart.
type TrendPoint struct {
	Day       Day `json:"date"`
	RunLength int `json:"runLength"`
}

// BuildMonthlyTrend returns a running count of consecutive checked days for
// every day of month. The count starts at zero on the first of the month and
// drops back to zero on every unchecked day, so it never looks across the
// month boundary and is not the habit's streak.
func BuildMonthlyTrend(h Habit, month Month) []TrendPoint {
	history := Normalize(h.History)
	points := make([]TrendPoint, 0, month.Days())
	run := 0
	for d := month.First(); month.Contains(d); d = d.AddDays(1) {
		if _, ok := EntryOn(history, d); ok {
			run++
		} else {
			run = 0
		}
		points = append(points, TrendPoint{Day: d, RunLength: run})
	}
	return points
}
