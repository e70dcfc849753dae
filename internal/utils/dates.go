package utils

import (
	"slices"
	"time"
)

// SortedDates returns the keys of m, oldest first.
func SortedDates[T any](m map[time.Time]T) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// ParseDay parses a YYYY-MM-DD date in UTC. "today" is accepted.
func ParseDay(s string) (time.Time, error) {
	if s == "today" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}
