package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used across the API
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return date, nil
}

// StartOfDay truncates t to midnight UTC of its calendar day
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TrailingMonths returns the inclusive window [today - months, today] in calendar days
func TrailingMonths(now time.Time, months int) (time.Time, time.Time) {
	end := StartOfDay(now)
	return MinusMonths(end, months), end
}

// MinusMonths moves date back by months, clamping the day to the length of
// the target month (May 31 minus three months is Feb 29 in a leap year)
func MinusMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m-time.Month(months), 1, 0, 0, 0, 0, date.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, date.Location())
}

// ParseID parses a positive integer identifier
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
