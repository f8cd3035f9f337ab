package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pretzelday/daylog/internal/logbook"
)

// LogRepository stores log records per calendar day. The server assigns each
// pushed record an opaque ref; updates and deletes resolve their target by
// ref first, then by entry id, then by the (timestamp, subject) pair for
// records from clients that never saw their ref confirmed.
type LogRepository struct {
	db *DB
}

// NewLogRepository creates a new LogRepository
func NewLogRepository(db *DB) *LogRepository {
	return &LogRepository{db: db}
}

// Insert stores a new record under dateKey and returns its ref.
func (r *LogRepository) Insert(ctx context.Context, dateKey string, e logbook.Entry) (string, error) {
	activities, err := json.Marshal(e.Activities)
	if err != nil {
		return "", fmt.Errorf("encode activities: %w", err)
	}

	ref := uuid.NewString()
	query := `
		INSERT INTO logs (
			ref, id, date_key, subject, activities, display_time,
			timestamp_ms, original_timestamp_ms, last_updated_ms, device_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		ref,
		e.ID,
		dateKey,
		e.Subject,
		string(activities),
		e.DisplayTime,
		e.TimestampMs,
		e.OriginalMs,
		e.LastUpdatedMs,
		e.DeviceID,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert log: %w", err)
	}
	return ref, nil
}

// Resolve finds the ref of an existing record: by ref when the caller has
// one, otherwise by entry id, otherwise by (timestamp, subject).
func (r *LogRepository) Resolve(ctx context.Context, dateKey, ref string, e logbook.Entry) (string, error) {
	if ref != "" {
		var found string
		err := r.db.QueryRowContext(ctx,
			"SELECT ref FROM logs WHERE ref = ? AND date_key = ?", ref, dateKey,
		).Scan(&found)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("failed to resolve log by ref: %w", err)
		}
	}

	if e.ID != "" {
		var found string
		err := r.db.QueryRowContext(ctx,
			"SELECT ref FROM logs WHERE id = ? AND date_key = ?", e.ID, dateKey,
		).Scan(&found)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("failed to resolve log by id: %w", err)
		}
	}

	var found string
	err := r.db.QueryRowContext(ctx,
		"SELECT ref FROM logs WHERE date_key = ? AND timestamp_ms = ? AND subject = ?",
		dateKey, e.TimestampMs, e.Subject,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve log by natural key: %w", err)
	}
	return found, nil
}

// Update overwrites the record stored under ref.
func (r *LogRepository) Update(ctx context.Context, ref string, e logbook.Entry) error {
	activities, err := json.Marshal(e.Activities)
	if err != nil {
		return fmt.Errorf("encode activities: %w", err)
	}

	query := `
		UPDATE logs SET
			id = ?, subject = ?, activities = ?, display_time = ?,
			timestamp_ms = ?, original_timestamp_ms = ?, last_updated_ms = ?,
			device_id = ?
		WHERE ref = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.Subject,
		string(activities),
		e.DisplayTime,
		e.TimestampMs,
		e.OriginalMs,
		e.LastUpdatedMs,
		e.DeviceID,
		ref,
	)
	if err != nil {
		return fmt.Errorf("failed to update log: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record stored under ref.
func (r *LogRepository) Delete(ctx context.Context, ref string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM logs WHERE ref = ?", ref)
	if err != nil {
		return fmt.Errorf("failed to delete log: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stored is a record together with its server-assigned ref.
type Stored struct {
	Ref   string
	Entry logbook.Entry
}

// ListDay returns all records for a date in ascending timestamp order.
func (r *LogRepository) ListDay(ctx context.Context, dateKey string) ([]Stored, error) {
	query := `
		SELECT ref, id, subject, activities, display_time,
			timestamp_ms, original_timestamp_ms, last_updated_ms, device_id
		FROM logs
		WHERE date_key = ?
		ORDER BY timestamp_ms ASC
	`
	rows, err := r.db.QueryContext(ctx, query, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	var out []Stored
	for rows.Next() {
		var s Stored
		var activities string
		var deviceID sql.NullString
		if err := rows.Scan(
			&s.Ref,
			&s.Entry.ID,
			&s.Entry.Subject,
			&activities,
			&s.Entry.DisplayTime,
			&s.Entry.TimestampMs,
			&s.Entry.OriginalMs,
			&s.Entry.LastUpdatedMs,
			&deviceID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		if err := json.Unmarshal([]byte(activities), &s.Entry.Activities); err != nil {
			return nil, fmt.Errorf("decode activities for %s: %w", s.Entry.ID, err)
		}
		if deviceID.Valid {
			s.Entry.DeviceID = deviceID.String
		}
		s.Entry.DateKey = dateKey
		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}
	return out, nil
}

// Get returns the record stored under ref.
func (r *LogRepository) Get(ctx context.Context, ref string) (*Stored, error) {
	query := `
		SELECT ref, id, date_key, subject, activities, display_time,
			timestamp_ms, original_timestamp_ms, last_updated_ms, device_id
		FROM logs
		WHERE ref = ?
	`
	var s Stored
	var activities string
	var deviceID sql.NullString
	err := r.db.QueryRowContext(ctx, query, ref).Scan(
		&s.Ref,
		&s.Entry.ID,
		&s.Entry.DateKey,
		&s.Entry.Subject,
		&activities,
		&s.Entry.DisplayTime,
		&s.Entry.TimestampMs,
		&s.Entry.OriginalMs,
		&s.Entry.LastUpdatedMs,
		&deviceID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	if err := json.Unmarshal([]byte(activities), &s.Entry.Activities); err != nil {
		return nil, fmt.Errorf("decode activities for %s: %w", s.Entry.ID, err)
	}
	if deviceID.Valid {
		s.Entry.DeviceID = deviceID.String
	}
	return &s, nil
}
