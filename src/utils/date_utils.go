package utils

import (
	"fmt"
	"strings"
	"time"
)

// dayFirstLayouts are tried in order after separators are unified to '/'.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/06",
	"2/1/06 15:04",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2006/1/2T15:04:05",
}

// ParseDayFirst parses dd/mm/yyyy style dates ('-' and '.' separators are
// accepted too) and returns the calendar day at midnight UTC.
func ParseDayFirst(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	s = strings.NewReplacer("-", "/", ".", "/").Replace(s)

	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateToDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised day-first date %q", dateStr)
}

// TruncateToDay drops the time of day, keeping the calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
