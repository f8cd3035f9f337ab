// Package mirror persists each day's log collection to a local diskv store,
// keyed by calendar date. The client falls back to it when the remote store
// is unreachable.
package mirror

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/peterbourgon/diskv/v3"

	"github.com/pretzelday/daylog/internal/logbook"
)

// Store is a date-keyed mirror of log collections on local disk.
type Store struct {
	d      *diskv.Diskv
	logger *slog.Logger
}

// New creates a mirror rooted at basePath.
func New(basePath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath: basePath,
			// Date keys map to flat files under the base path.
			Transform:    func(string) []string { return nil },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		logger: logger,
	}
}

// Load reads the collection stored under dateKey. A missing key yields an
// empty collection; a corrupt payload does too, rather than failing the
// caller, since the mirror is best-effort.
func (s *Store) Load(dateKey string) ([]*logbook.Entry, error) {
	if !s.d.Has(dateKey) {
		return nil, nil
	}
	raw, err := s.d.Read(dateKey)
	if err != nil {
		return nil, fmt.Errorf("read mirror %s: %w", dateKey, err)
	}
	var entries []*logbook.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("corrupt mirror payload, resetting to empty", "dateKey", dateKey, "error", err)
		return nil, nil
	}
	return entries, nil
}

// Save writes the collection under dateKey, replacing any previous payload.
func (s *Store) Save(dateKey string, entries []*logbook.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode mirror %s: %w", dateKey, err)
	}
	if err := s.d.Write(dateKey, raw); err != nil {
		return fmt.Errorf("write mirror %s: %w", dateKey, err)
	}
	return nil
}
