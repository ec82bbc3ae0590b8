package usecases

import (
	"fmt"
	"time"
)

// parseClock converts an "HH:MM" bound into minutes since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time-of-day %q (want HH:MM): %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidClock reports whether value is a well-formed "HH:MM" bound.
func ValidClock(value string) bool {
	_, err := parseClock(value)
	return err == nil
}

// WithinBusinessHours reports whether the local time-of-day falls inside
// [start, end]. Both boundaries are inclusive: a check exactly at the
// start or end bound counts as open. Malformed bounds evaluate as closed.
func WithinBusinessHours(now time.Time, start, end string) bool {
	startMin, err := parseClock(start)
	if err != nil {
		return false
	}
	endMin, err := parseClock(end)
	if err != nil {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	return startMin <= nowMin && nowMin <= endMin
}
