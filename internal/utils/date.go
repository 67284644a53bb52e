package utils

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. Range math over rentals is
// done in whole days, so dates carry no time-of-day component.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD format", s)
	}
	return t, nil
}

// Today returns the current UTC calendar date at midnight.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
