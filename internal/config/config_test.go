package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "daylog.db", cfg.DB.Path)
	require.Equal(t, "http://localhost:8080", cfg.Client.RemoteURL)
	require.Equal(t, "info", cfg.Log.Level)
	require.NotEmpty(t, cfg.Client.StateDir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAYLOG_SERVER_HOST", "127.0.0.1")
	t.Setenv("DAYLOG_SERVER_PORT", "9090")
	t.Setenv("DAYLOG_DB_PATH", "/tmp/other.db")
	t.Setenv("DAYLOG_REMOTE_URL", "http://sync.local:8080")
	t.Setenv("DAYLOG_STATE_DIR", "/tmp/state")
	t.Setenv("DAYLOG_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/other.db", cfg.DB.Path)
	require.Equal(t, "http://sync.local:8080", cfg.Client.RemoteURL)
	require.Equal(t, "/tmp/state", cfg.Client.StateDir)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DAYLOG_SERVER_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
server:
  host: 10.0.0.5
  port: 7070
client:
  remote_url: http://hub.home:7070
  state_dir: /var/lib/daylog
log:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	t.Setenv("DAYLOG_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "10.0.0.5", cfg.Server.Host)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "http://hub.home:7070", cfg.Client.RemoteURL)
	require.Equal(t, "/var/lib/daylog", cfg.Client.StateDir)
	require.Equal(t, "warn", cfg.Log.Level)
	// Sections absent from the file keep their defaults.
	require.Equal(t, "daylog.db", cfg.DB.Path)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("DAYLOG_CONFIG_PATH", path)
	t.Setenv("DAYLOG_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestMirrorPath(t *testing.T) {
	c := ClientConfig{StateDir: "/home/pi/.daylog"}
	require.Equal(t, filepath.Join("/home/pi/.daylog", "mirror"), c.MirrorPath())
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DAYLOG_CONFIG_PATH",
		"DAYLOG_SERVER_HOST",
		"DAYLOG_SERVER_PORT",
		"DAYLOG_DB_PATH",
		"DAYLOG_REMOTE_URL",
		"DAYLOG_STATE_DIR",
		"DAYLOG_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}
