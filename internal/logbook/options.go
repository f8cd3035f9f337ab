package logbook

import "time"

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRenderer sets the presentation callback invoked after every mutation.
func WithRenderer(render RenderFunc) Option {
	return func(s *Store) { s.render = render }
}

// WithRemoteFailureHook sets the observer for failed remote writes.
func WithRemoteFailureHook(fn RemoteFailureFunc) Option {
	return func(s *Store) { s.onFail = fn }
}
