package utils

import (
	"fmt"
	"strings"
	"time"
)

// ParseDate parses a "2006-01-02" calendar date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return d, nil
}

// ParseClock converts "HH:MM" into minutes from midnight. A single-digit hour is accepted.
func ParseClock(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return MinutesOf(t), nil
}

// FormatClock renders minutes from midnight as "HH:MM". Values past midnight wrap.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return time.Date(0, 1, 1, 0, minutes, 0, 0, time.UTC).Format(ClockLayout)
}

// MinutesOf returns the minutes from midnight of t in its own location.
func MinutesOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
