package mirror_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pretzelday/daylog/internal/logbook"
	"github.com/pretzelday/daylog/internal/mirror"
)

func TestMirror_RoundTrip(t *testing.T) {
	m := mirror.New(t.TempDir(), nil)

	entries := []*logbook.Entry{
		{
			ID:          "log_100_abcdefg",
			Subject:     "Max",
			Activities:  []string{"ate", "ran", "ate"},
			DisplayTime: "9:00 AM~",
			TimestampMs: 100,
			OriginalMs:  100,
			DateKey:     "2025-03-10",
			DeviceID:    "device_1",
			RemoteRef:   "ref-1",
		},
		{
			ID:          "log_200_hijklmn",
			Subject:     "Ruby",
			Activities:  []string{"peed"},
			DisplayTime: "9:12 AM",
			TimestampMs: 200,
			OriginalMs:  200,
			DateKey:     "2025-03-10",
		},
	}

	require.NoError(t, m.Save("2025-03-10", entries))

	loaded, err := m.Load("2025-03-10")
	require.NoError(t, err)
	require.Equal(t, entries, loaded)
}

func TestMirror_MissingDayIsEmpty(t *testing.T) {
	m := mirror.New(t.TempDir(), nil)
	loaded, err := m.Load("2025-03-10")
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestMirror_CorruptPayloadResetsToEmpty(t *testing.T) {
	dir := t.TempDir()
	m := mirror.New(dir, nil)

	require.NoError(t, m.Save("2025-03-10", []*logbook.Entry{{ID: "log_1_a", Subject: "Max", Activities: []string{"ate"}}}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-03-10"), []byte("{not json"), 0o600))

	loaded, err := m.Load("2025-03-10")
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestMirror_SaveOverwrites(t *testing.T) {
	m := mirror.New(t.TempDir(), nil)

	require.NoError(t, m.Save("2025-03-10", []*logbook.Entry{{ID: "log_1_a", Subject: "Max", Activities: []string{"ate"}}}))
	require.NoError(t, m.Save("2025-03-10", nil))

	loaded, err := m.Load("2025-03-10")
	require.NoError(t, err)
	require.Empty(t, loaded)
}
