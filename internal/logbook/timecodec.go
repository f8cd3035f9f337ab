package logbook

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MergedMarker is appended to an entry's display time once a second
// submission has been merged into it.
const MergedMarker = "~"

// DateKey formats a moment as the calendar-date key entries are partitioned
// by (YYYY-MM-DD, local time).
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Clock12 formats a moment as a 12-hour wall-clock string, e.g. "9:05 AM".
func Clock12(t time.Time) string {
	hours := t.Hour()
	ampm := "AM"
	if hours >= 12 {
		ampm = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, t.Minute(), ampm)
}

// ParseWallClock parses a 24-hour "HH:MM" string into its components.
func ParseWallClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

// To24Hour converts a 12-hour clock string to "HH:MM". Strings without an
// AM/PM suffix are assumed to already be 24-hour and returned unchanged.
func To24Hour(clock string) string {
	clock = strings.TrimSpace(clock)
	if !strings.Contains(clock, "AM") && !strings.Contains(clock, "PM") {
		return clock
	}
	fields := strings.Fields(clock)
	if len(fields) != 2 {
		return clock
	}
	hour, minute, err := splitClock(fields[0])
	if err != nil {
		return clock
	}
	if hour == 12 {
		hour = 0
	}
	if fields[1] == "PM" {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// To12Hour converts a 24-hour "HH:MM" string to the display format.
func To12Hour(clock string) string {
	hour, minute, err := splitClock(clock)
	if err != nil {
		return clock
	}
	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minute, ampm)
}

// EnsureClock normalizes a stored display time to the 12-hour format,
// preserving the merged marker. Entries written by older builds stored
// 24-hour strings.
func EnsureClock(display string) string {
	if display == "" {
		return display
	}
	if strings.Contains(display, "AM") || strings.Contains(display, "PM") {
		return display
	}
	merged := strings.HasSuffix(display, MergedMarker)
	clean := strings.TrimSuffix(display, MergedMarker)
	converted := To12Hour(clean)
	if merged {
		return converted + MergedMarker
	}
	return converted
}

// MarkMerged appends the merged marker to a display time, once.
func MarkMerged(display string) string {
	if strings.HasSuffix(display, MergedMarker) {
		return display
	}
	return display + MergedMarker
}

// RelativeAge renders the age of a timestamp against now, e.g. "just now",
// "12m ago", "3h 30m ago", "2d ago".
func RelativeAge(timestampMs, nowMs int64) string {
	minutes := (nowMs - timestampMs) / int64(time.Minute/time.Millisecond)
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		hours := minutes / 60
		if rem := minutes % 60; rem != 0 {
			return fmt.Sprintf("%dh %dm ago", hours, rem)
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	}
}

func splitClock(clock string) (hour, minute int, err error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, clock)
	}
	return hour, minute, nil
}
