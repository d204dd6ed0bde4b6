package utils

import (
	"fmt"
	"time"
)

// MonthDay converts a unix epoch to its month name (from the given 12-entry
// month list) and day-of-month string.
func MonthDay(months []string, epoch int64) (string, string) {
	t := time.Unix(epoch, 0).UTC()
	return months[int(t.Month())-1], fmt.Sprintf("%d", t.Day())
}

// HourOf returns the UTC hour of day for a unix epoch.
func HourOf(epoch int64) int {
	return time.Unix(epoch, 0).UTC().Hour()
}

// DaySegment partitions the 24 hours into morning (3-11), afternoon (12-19)
// and evening (20-23 plus 0-2).
func DaySegment(hour int) string {
	switch {
	case hour < 3 || hour > 19:
		return "evening"
	case hour <= 11:
		return "morning"
	default:
		return "afternoon"
	}
}

// FormatHour renders an hour the way the dialogue templates speak it,
// e.g. "14:00 in the afternoon".
func FormatHour(hour int) string {
	return fmt.Sprintf("%d:00 in the %s", hour, DaySegment(hour))
}

// ConnectionPhrase renders a connection count for dialogue text.
func ConnectionPhrase(connections int) string {
	switch connections {
	case 0:
		return "direct service"
	case 1:
		return "1 connection"
	default:
		return fmt.Sprintf("%d connections", connections)
	}
}
