package recdb

import (
	"fmt"
	"strings"
	"time"
)

// ResolveSince converts a --since token into an absolute UTC lower bound.
// Recognized keywords are today, yesterday, this-week (Monday 00:00), and
// this-month; anything else must be an explicit MM-DD-YY date. The result
// is always midnight UTC of the resolved day.
func ResolveSince(token string, now time.Time) (time.Time, error) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch strings.ToLower(strings.TrimSpace(token)) {
	case "today":
		return day, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), nil
	case "this-week", "week", "w":
		return day.AddDate(0, 0, -mondayOffset(now.Weekday())), nil
	case "this-month", "month", "m":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}

	parsed, err := time.ParseInLocation("01-02-06", strings.TrimSpace(token), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (expected today, yesterday, this-week, this-month, or MM-DD-YY)", ErrInvalidSince, token)
	}
	return parsed, nil
}

// mondayOffset returns days elapsed since the most recent Monday; the week
// starts on Monday, ISO style.
func mondayOffset(weekday time.Weekday) int {
	if weekday == time.Sunday {
		return 6
	}
	return int(weekday) - 1
}
