package sqlite

import "errors"

// ErrNotFound is returned when no stored record matches any identity tier.
var ErrNotFound = errors.New("log record not found")
