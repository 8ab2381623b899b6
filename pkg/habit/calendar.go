package habit

// CalendarCell is one day of a month grid.
type CalendarCell struct {
	Day           Day    `json:"date"`
	IsChecked     bool   `json:"isChecked"`
	HasPhoto      bool   `json:"hasPhoto"`
	HasNote       bool   `json:"hasNote"`
	IsToday       bool   `json:"isToday"`
	IsInteractive bool   `json:"isInteractive"`
	Photo         string `json:"photo,omitempty"`
}

// BuildMonthGrid returns one cell per day of month, in day order. A cell is
// interactive when its entry has something to show in a detail view.
func BuildMonthGrid(h Habit, month Month, today Day) []CalendarCell {
	history := Normalize(h.History)
	cells := make([]CalendarCell, 0, month.Days())
	for d := month.First(); month.Contains(d); d = d.AddDays(1) {
		c := CalendarCell{Day: d, IsToday: d.Equal(today)}
		if e, ok := EntryOn(history, d); ok {
			c.IsChecked = true
			c.HasNote = e.HasNote()
			c.HasPhoto = e.HasPhoto()
			c.Photo = e.Photo
		}
		c.IsInteractive = c.HasPhoto || c.HasNote
		cells = append(cells, c)
	}
	return cells
}
