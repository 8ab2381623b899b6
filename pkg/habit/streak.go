package habit

// CurrentStreak returns the length of the run of consecutive days ending at
// the most recent check-in, provided that check-in was today or yesterday.
// A missing check-in today does not break the streak until the day is over.
//
// history must be normalized.
func CurrentStreak(history []Entry, today Day) int {
	if len(history) == 0 {
		return 0
	}
	last := len(history) - 1
	if today.Sub(history[last].Day) > 1 {
		return 0
	}

	n := 1
	for i := last; i > 0; i-- {
		if history[i].Day.Sub(history[i-1].Day) != 1 {
			break
		}
		n++
	}
	return n
}

// LongestStreak returns the longest run of consecutive days in history.
// The run length resets to 1 at any gap of more than one day.
//
// history must be normalized.
func LongestStreak(history []Entry) int {
	longest, run := 0, 0
	for i := range history {
		if i > 0 && history[i].Day.Sub(history[i-1].Day) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
