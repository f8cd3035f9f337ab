package logbook

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Store owns the authoritative in-memory collection for the current day and
// fans every mutation out to the local mirror and the remote store. All
// public operations complete synchronously against the collection; remote
// and mirror writes are fire-and-forget.
type Store struct {
	logger   *slog.Logger
	remote   RemoteStore
	mirror   Mirror
	render   RenderFunc
	onFail   RemoteFailureFunc
	now      func() time.Time
	deviceID string

	mu      sync.Mutex
	dateKey string
	entries []*Entry
	sub     Subscription

	wg sync.WaitGroup
}

// NewStore creates a store bound to the device identity. Either collaborator
// may be nil; the store then degrades to in-memory operation for that
// concern.
func NewStore(deviceID string, remote RemoteStore, mirror Mirror, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		logger:   logger,
		remote:   remote,
		mirror:   mirror,
		now:      time.Now,
		deviceID: deviceID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dateKey = DateKey(s.now())
	return s
}

// Start loads the mirrored collection for today and arms the remote
// subscription. The mirror seeds the display immediately; the first remote
// snapshot reconciles over it.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	s.dateKey = DateKey(s.now())
	dateKey := s.dateKey
	s.mu.Unlock()

	if s.mirror != nil {
		entries, err := s.mirror.Load(dateKey)
		if err != nil {
			s.logger.Warn("mirror load failed, starting empty", "dateKey", dateKey, "error", err)
		} else if len(entries) > 0 {
			s.Seed(entries)
		}
	}

	s.subscribe(ctx, dateKey)
}

// Seed replaces the collection wholesale. Used to bootstrap from a mirror or
// a remote listing before the live feed is armed.
func (s *Store) Seed(entries []*Entry) {
	s.mu.Lock()
	s.entries = make([]*Entry, 0, len(entries))
	for _, e := range entries {
		s.entries = append(s.entries, e.Clone())
	}
	snap := s.orderedLocked()
	s.mu.Unlock()
	s.renderSnap(snap)
}

// Entries returns the collection in ascending timestamp order.
func (s *Store) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderedLocked()
}

// DateKey returns the calendar date the store is currently bound to.
func (s *Store) DateKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dateKey
}

// Submit records a new submission for subject. Within the merge window it
// appends the activities to the subject's tail entry; otherwise it creates a
// new entry. An empty activity selection is a no-op.
func (s *Store) Submit(subject string, activities []string) {
	if len(activities) == 0 {
		return
	}
	now := s.now()

	s.mu.Lock()
	target := DecideMerge(s.entries, subject, now.UnixMilli())
	var rec Entry
	if target != nil {
		target.Activities = append(target.Activities, activities...)
		target.DisplayTime = MarkMerged(target.DisplayTime)
		target.LastUpdatedMs = now.UnixMilli()
		rec = *target.Clone()
	} else {
		e := NewEntry(subject, activities, now, s.deviceID)
		s.entries = append(s.entries, e)
		rec = *e.Clone()
	}
	dateKey := s.dateKey
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.renderSnap(snap)
	s.saveMirror(dateKey, snap)
	if target != nil {
		s.goUpdate(dateKey, rec)
	} else {
		s.goPush(dateKey, rec)
	}
}

// EditTime moves an entry to a new wall-clock time on its original calendar
// date. Unknown ids and unparseable input are no-ops. The merged marker and
// the original timestamp are preserved.
func (s *Store) EditTime(entryID, wallClock string) {
	hour, minute, err := ParseWallClock(wallClock)
	if err != nil {
		return
	}

	s.mu.Lock()
	e := s.findByIDLocked(entryID)
	if e == nil {
		s.mu.Unlock()
		return
	}
	day := time.UnixMilli(e.TimestampMs)
	edited := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	display := To12Hour(wallClock)
	if e.Merged() {
		display = MarkMerged(display)
	}
	e.DisplayTime = display
	e.TimestampMs = edited.UnixMilli()
	rec := *e.Clone()
	dateKey := s.dateKey
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.renderSnap(snap)
	s.saveMirror(dateKey, snap)
	s.goUpdate(dateKey, rec)
}

// DeleteActivity removes the first occurrence of activity from the entry.
// Removing the last activity destroys the entry.
func (s *Store) DeleteActivity(entryID, activity string) {
	s.mu.Lock()
	e := s.findByIDLocked(entryID)
	if e == nil {
		s.mu.Unlock()
		return
	}
	idx := -1
	for i, a := range e.Activities {
		if a == activity {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return
	}
	e.Activities = append(e.Activities[:idx], e.Activities[idx+1:]...)
	if len(e.Activities) == 0 {
		s.mu.Unlock()
		s.DeleteEntry(entryID)
		return
	}
	rec := *e.Clone()
	dateKey := s.dateKey
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.renderSnap(snap)
	s.saveMirror(dateKey, snap)
	s.goUpdate(dateKey, rec)
}

// DeleteEntry removes an entry from the collection. Unknown ids are a no-op.
func (s *Store) DeleteEntry(entryID string) {
	s.mu.Lock()
	var rec *Entry
	for i, e := range s.entries {
		if e.ID == entryID {
			rec = e.Clone()
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	if rec == nil {
		s.mu.Unlock()
		return
	}
	dateKey := s.dateKey
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.renderSnap(snap)
	s.saveMirror(dateKey, snap)
	s.goRemove(dateKey, *rec)
}

// Wait blocks until all in-flight mirror and remote writes have settled.
// Short-lived callers use it to avoid abandoning writes on exit.
func (s *Store) Wait() {
	s.wg.Wait()
}

// Reconcile folds one remote change event into the collection. The
// subscription delivers these on its own goroutine, interleaved arbitrarily
// with local operations; the collection lock serializes them. The
// remote version is authoritative: an existing entry is overwritten in
// place, an unknown identity is inserted, so replaying the same event is
// idempotent.
func (s *Store) Reconcile(c Change) {
	s.mu.Lock()
	if c.Record.DateKey != "" && c.Record.DateKey != s.dateKey {
		// Event for another day; the old subscription raced its
		// cancellation.
		s.mu.Unlock()
		return
	}

	local := s.findByRefLocked(c.Ref)
	if local == nil {
		local = s.findByIDLocked(c.Record.ID)
	}

	switch c.Kind {
	case ChangeAdded, ChangeModified:
		if local != nil {
			*local = *c.Record.Clone()
		} else {
			local = c.Record.Clone()
			s.entries = append(s.entries, local)
		}
		local.RemoteRef = c.Ref
	case ChangeRemoved:
		if local != nil {
			for i, e := range s.entries {
				if e == local {
					s.entries = append(s.entries[:i], s.entries[i+1:]...)
					break
				}
			}
		}
	}
	dateKey := s.dateKey
	snap := s.orderedLocked()
	s.mu.Unlock()

	s.renderSnap(snap)
	s.saveMirror(dateKey, snap)
}

func (s *Store) findByIDLocked(id string) *Entry {
	if id == "" {
		return nil
	}
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (s *Store) findByRefLocked(ref string) *Entry {
	if ref == "" {
		return nil
	}
	for _, e := range s.entries {
		if e.RemoteRef == ref {
			return e
		}
	}
	return nil
}

func (s *Store) orderedLocked() []*Entry {
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampMs < out[j].TimestampMs
	})
	return out
}

func (s *Store) renderSnap(snap []*Entry) {
	if s.render != nil {
		s.render(snap)
	}
}

func (s *Store) saveMirror(dateKey string, snap []*Entry) {
	if s.mirror == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.mirror.Save(dateKey, snap); err != nil {
			s.logger.Warn("mirror save failed", "dateKey", dateKey, "error", err)
		}
	}()
}

// goPush pushes a new record and binds the confirmed remote ref back onto
// the local entry. In-flight pushes are never cancelled; one issued just
// before midnight may land under the old day key, which is accepted.
func (s *Store) goPush(dateKey string, rec Entry) {
	if s.remote == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ref, err := s.remote.Push(context.Background(), dateKey, rec)
		if err != nil {
			s.remoteFailed("push", rec.ID, err)
			return
		}
		s.bindRef(dateKey, rec.ID, ref)
	}()
}

func (s *Store) goUpdate(dateKey string, rec Entry) {
	if s.remote == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.remote.Update(context.Background(), dateKey, rec); err != nil {
			s.remoteFailed("update", rec.ID, err)
		}
	}()
}

func (s *Store) goRemove(dateKey string, rec Entry) {
	if s.remote == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.remote.Remove(context.Background(), dateKey, rec); err != nil {
			s.remoteFailed("remove", rec.ID, err)
		}
	}()
}

func (s *Store) bindRef(dateKey, entryID, ref string) {
	s.mu.Lock()
	e := s.findByIDLocked(entryID)
	if e == nil || s.dateKey != dateKey {
		// Entry deleted or day rolled over while the push was in flight.
		s.mu.Unlock()
		return
	}
	e.RemoteRef = ref
	snap := s.orderedLocked()
	s.mu.Unlock()
	s.saveMirror(dateKey, snap)
}

func (s *Store) remoteFailed(op, entryID string, err error) {
	s.logger.Warn("remote write failed", "op", op, "entry", entryID, "error", err)
	if s.onFail != nil {
		s.onFail(op, entryID, err)
	}
}
