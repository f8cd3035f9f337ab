package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema.
func (db *DB) RunMigrations() error {
	migration := `
-- Log records, partitioned by calendar date
CREATE TABLE IF NOT EXISTS logs (
    ref TEXT PRIMARY KEY,
    id TEXT NOT NULL,
    date_key TEXT NOT NULL,
    subject TEXT NOT NULL,
    activities TEXT NOT NULL,
    display_time TEXT NOT NULL,
    timestamp_ms INTEGER NOT NULL,
    original_timestamp_ms INTEGER NOT NULL,
    last_updated_ms INTEGER NOT NULL DEFAULT 0,
    device_id TEXT
);
CREATE INDEX IF NOT EXISTS idx_logs_date ON logs(date_key);
CREATE INDEX IF NOT EXISTS idx_logs_id ON logs(id);
CREATE INDEX IF NOT EXISTS idx_logs_natural ON logs(date_key, timestamp_ms, subject);
`

	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
