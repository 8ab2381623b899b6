package habit

import "testing"

func mustDay(t *testing.T, s string) Day {
	t.Helper()
	d, err := ParseDay(s)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", s, err)
	}
	return d
}

func entriesOn(days ...Day) []Entry {
	out := make([]Entry, 0, len(days))
	for _, d := range days {
		out = append(out, Entry{Day: d})
	}
	return out
}
