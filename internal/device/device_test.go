package device_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pretzelday/daylog/internal/device"
)

func TestIdentity_StableAcrossCalls(t *testing.T) {
	dir := t.TempDir()

	first, err := device.Identity(dir)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first, "device_"))

	second, err := device.Identity(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestIdentity_DistinctPerInstallation(t *testing.T) {
	a, err := device.Identity(t.TempDir())
	require.NoError(t, err)
	b, err := device.Identity(t.TempDir())
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPreferredSubject(t *testing.T) {
	dir := t.TempDir()

	require.Empty(t, device.PreferredSubject(dir))

	device.SavePreferredSubject(dir, "Max")
	require.Equal(t, "Max", device.PreferredSubject(dir))

	device.SavePreferredSubject(dir, "Ruby")
	require.Equal(t, "Ruby", device.PreferredSubject(dir))

	// Empty subjects are not persisted.
	device.SavePreferredSubject(dir, "")
	require.Equal(t, "Ruby", device.PreferredSubject(dir))
}
