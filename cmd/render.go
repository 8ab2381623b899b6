package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/brk3/habitcal/pkg/habit"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(20)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Reverse(true)
)

const cellWidth = 4

// renderCalendar draws a Monday-first month grid. Checked days are filled
// with the habit colour and days with a note or photo carry a "*".
func renderCalendar(name, color string, month habit.Month, cells []habit.CalendarCell) string {
	checked := lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color("0"))

	var b strings.Builder
	title := fmt.Sprintf("%s  %s %d", name, month.Month, month.Year)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, wd := range []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"} {
		b.WriteString(weekdayStyle.Render(fmt.Sprintf("%3s ", wd)))
	}
	b.WriteString("\n")

	// Monday is column 0.
	lead := (int(month.First().Time(time.UTC).Weekday()) + 6) % 7
	b.WriteString(strings.Repeat(" ", lead*cellWidth))

	col := lead
	for _, c := range cells {
		mark := " "
		if c.HasNote || c.HasPhoto {
			mark = "*"
		}
		text := fmt.Sprintf("%3d%s", c.Day.DayOfMonth(), mark)
		switch {
		case c.IsToday:
			text = todayStyle.Render(text)
		case c.IsChecked:
			text = checked.Render(text)
		}
		b.WriteString(text)

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

var sparks = []rune(" ▁▂▃▄▅▆▇█")

// renderTrend draws one sparkline column per day, scaled to the longest run
// in the month.
func renderTrend(name string, month habit.Month, points []habit.TrendPoint) string {
	best := 0
	for _, p := range points {
		best = max(best, p.RunLength)
	}

	var line strings.Builder
	for _, p := range points {
		i := 0
		if best > 0 {
			i = (p.RunLength*(len(sparks)-1) + best - 1) / best
		}
		line.WriteRune(sparks[i])
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s  %s %d", name, month.Month, month.Year)))
	b.WriteString("\n")
	b.WriteString(doneStyle.Render(line.String()))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-*s%*d\n", len(points)-2, "1", 2, len(points)))
	b.WriteString(fmt.Sprintf("longest run this month: %d\n", best))
	return b.String()
}

func renderStats(name string, s habit.Stats) string {
	row := func(label string, value any) string {
		return labelStyle.Render(label) + fmt.Sprint(value) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(row("Current streak", s.CurrentStreak))
	b.WriteString(row("Longest streak", s.LongestStreak))
	b.WriteString(row("Total check-ins", s.TotalCompletions))
	b.WriteString(row(fmt.Sprintf("Check-ins in %s", s.Month), s.MonthCompletions))
	b.WriteString(row("Consistency", fmt.Sprintf("%d%%", s.ConsistencyPercent)))
	if s.FirstCheckIn != nil {
		b.WriteString(row("First check-in", s.FirstCheckIn))
	}
	if s.BestMonth != nil {
		b.WriteString(row("Best month", fmt.Sprintf("%s (%d)", s.BestMonth, s.BestMonthCompletions)))
	}
	return b.String()
}

func renderList(habits []habit.Summary) string {
	if len(habits) == 0 {
		return "No habits yet. Add one with \"habits add <name>\".\n"
	}
	var b strings.Builder
	for _, h := range habits {
		check := "[ ]"
		if h.CheckedToday {
			check = doneStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "%s %s %-20s 🔥 %d  %s\n", check, h.Icon, h.Name, h.CurrentStreak, weekdayStyle.Render(h.ID))
	}
	return b.String()
}
