package logbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pretzelday/daylog/internal/logbook"
)

func TestClock12(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         string
	}{
		{0, 5, "12:05 AM"},
		{9, 0, "9:00 AM"},
		{12, 0, "12:00 PM"},
		{13, 30, "1:30 PM"},
		{23, 59, "11:59 PM"},
	}
	for _, tc := range cases {
		at := time.Date(2025, 3, 10, tc.hour, tc.minute, 0, 0, time.Local)
		require.Equal(t, tc.want, logbook.Clock12(at))
	}
}

func TestTo24Hour(t *testing.T) {
	require.Equal(t, "09:05", logbook.To24Hour("9:05 AM"))
	require.Equal(t, "13:30", logbook.To24Hour("1:30 PM"))
	require.Equal(t, "00:15", logbook.To24Hour("12:15 AM"))
	require.Equal(t, "12:00", logbook.To24Hour("12:00 PM"))
	// Already 24-hour strings pass through.
	require.Equal(t, "14:45", logbook.To24Hour("14:45"))
}

func TestTo12Hour(t *testing.T) {
	require.Equal(t, "9:05 AM", logbook.To12Hour("09:05"))
	require.Equal(t, "1:30 PM", logbook.To12Hour("13:30"))
	require.Equal(t, "12:15 AM", logbook.To12Hour("00:15"))
	require.Equal(t, "12:00 PM", logbook.To12Hour("12:00"))
}

func TestEnsureClock(t *testing.T) {
	// Legacy 24-hour strings are normalized, merged marker preserved.
	require.Equal(t, "1:30 PM", logbook.EnsureClock("13:30"))
	require.Equal(t, "1:30 PM~", logbook.EnsureClock("13:30~"))
	require.Equal(t, "9:05 AM~", logbook.EnsureClock("9:05 AM~"))
	require.Equal(t, "", logbook.EnsureClock(""))
}

func TestMarkMerged(t *testing.T) {
	require.Equal(t, "9:05 AM~", logbook.MarkMerged("9:05 AM"))
	// Never doubled.
	require.Equal(t, "9:05 AM~", logbook.MarkMerged("9:05 AM~"))
}

func TestParseWallClock(t *testing.T) {
	hour, minute, err := logbook.ParseWallClock("13:45")
	require.NoError(t, err)
	require.Equal(t, 13, hour)
	require.Equal(t, 45, minute)

	for _, bad := range []string{"", "25:00", "12:60", "noon", "12", "a:b"} {
		_, _, err := logbook.ParseWallClock(bad)
		require.ErrorIs(t, err, logbook.ErrInvalidClock, "input %q", bad)
	}
}

func TestDateKey(t *testing.T) {
	at := time.Date(2025, 3, 9, 23, 59, 0, 0, time.Local)
	require.Equal(t, "2025-03-09", logbook.DateKey(at))
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local).UnixMilli()
	ms := func(d time.Duration) int64 { return now - d.Milliseconds() }

	require.Equal(t, "just now", logbook.RelativeAge(ms(30*time.Second), now))
	require.Equal(t, "12m ago", logbook.RelativeAge(ms(12*time.Minute), now))
	require.Equal(t, "3h ago", logbook.RelativeAge(ms(3*time.Hour), now))
	require.Equal(t, "3h 30m ago", logbook.RelativeAge(ms(3*time.Hour+30*time.Minute), now))
	require.Equal(t, "2d ago", logbook.RelativeAge(ms(49*time.Hour), now))
}
