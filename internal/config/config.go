package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for both the syncd server and the daylog
// client.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type ClientConfig struct {
	// RemoteURL is the syncd base URL. Empty means local-only operation.
	RemoteURL string `yaml:"remote_url"`
	// StateDir holds the device identity, preferences, and the mirror.
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// MirrorPath is where the client mirrors each day's collection.
func (c ClientConfig) MirrorPath() string {
	return filepath.Join(c.StateDir, "mirror")
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "daylog.db",
		},
		Client: ClientConfig{
			RemoteURL: "http://localhost:8080",
			StateDir:  defaultStateDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("DAYLOG_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("DAYLOG_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("DAYLOG_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DAYLOG_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("DAYLOG_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if url := os.Getenv("DAYLOG_REMOTE_URL"); url != "" {
		cfg.Client.RemoteURL = url
	}
	if dir := os.Getenv("DAYLOG_STATE_DIR"); dir != "" {
		cfg.Client.StateDir = dir
	}
	if level := os.Getenv("DAYLOG_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daylog"
	}
	return filepath.Join(home, ".daylog")
}
