package habit

import "errors"

var (
	// ErrInvalidDate is returned for timestamps or dates that cannot be
	// reduced to a calendar day. Entries carrying one never reach the
	// streak calculations.
	ErrInvalidDate = errors.New("invalid date")

	ErrInvalidHabit = errors.New("invalid habit")
)
