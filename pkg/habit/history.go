package habit

import "slices"

// Entry is a single check-in.
type Entry struct {
	Day   Day    `json:"date"`
	Note  string `json:"note,omitempty"`
	Photo string `json:"photo,omitempty"`
}

func (e Entry) HasNote() bool  { return e.Note != "" }
func (e Entry) HasPhoto() bool { return e.Photo != "" }

// Normalize returns entries sorted by day with at most one entry per day.
// When several entries share a day the one encountered last in input order
// wins, so callers must pass entries in write order. The input slice is not
// modified.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	idx := make(map[Day]int, len(entries))
	for _, e := range entries {
		if i, ok := idx[e.Day]; ok {
			out[i] = e
			continue
		}
		idx[e.Day] = len(out)
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.Day.Compare(b.Day) })
	return out
}

// EntryOn returns the entry recorded on d. history must be normalized.
func EntryOn(history []Entry, d Day) (Entry, bool) {
	i, ok := slices.BinarySearchFunc(history, d, func(e Entry, d Day) int {
		return e.Day.Compare(d)
	})
	if !ok {
		return Entry{}, false
	}
	return history[i], true
}
