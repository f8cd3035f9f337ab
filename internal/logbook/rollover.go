package logbook

import (
	"context"
	"time"
)

// RolloverInterval is how often the store polls for a calendar-day boundary.
const RolloverInterval = time.Minute

// RunRollover polls the wall clock until ctx is done and rebinds the store
// to the new day when the calendar date changes: the collection is cleared,
// the old subscription cancelled, and a fresh one armed for the new key.
// The prior day's data stays durable in the remote store and the mirror
// under its own key.
func (s *Store) RunRollover(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = RolloverInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckRollover(ctx)
		}
	}
}

// CheckRollover performs a single day-boundary check.
func (s *Store) CheckRollover(ctx context.Context) {
	key := DateKey(s.now())

	s.mu.Lock()
	if key == s.dateKey {
		s.mu.Unlock()
		return
	}
	old := s.sub
	s.sub = nil
	s.entries = nil
	prev := s.dateKey
	s.dateKey = key
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.logger.Info("day rollover", "from", prev, "to", key)
	if old != nil {
		old.Cancel()
	}
	s.renderSnap(snap)
	s.subscribe(ctx, key)
}

func (s *Store) subscribe(ctx context.Context, dateKey string) {
	if s.remote == nil {
		return
	}
	sub, err := s.remote.Subscribe(ctx, dateKey, s.Reconcile)
	if err != nil {
		s.logger.Warn("remote subscription failed, local-only for this day", "dateKey", dateKey, "error", err)
		return
	}

	s.mu.Lock()
	if s.dateKey != dateKey {
		// Rolled over again while subscribing.
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	if s.sub != nil {
		s.sub.Cancel()
	}
	s.sub = sub
	s.mu.Unlock()
}

// Close cancels the active subscription and waits for in-flight writes.
func (s *Store) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
	s.wg.Wait()
}
