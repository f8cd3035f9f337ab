package logbook

import "errors"

var (
	// ErrEntryNotFound indicates no entry with the given identity exists.
	ErrEntryNotFound = errors.New("log entry not found")
	// ErrInvalidClock indicates a wall-clock string could not be parsed.
	ErrInvalidClock = errors.New("invalid wall-clock time")
)
