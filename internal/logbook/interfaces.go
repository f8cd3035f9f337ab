package logbook

import "context"

// ChangeKind classifies a remote change event.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// Change is one remote change event, delivered by a subscription. Ref is the
// remote store's identity for the record.
type Change struct {
	Kind   ChangeKind `json:"kind"`
	Ref    string     `json:"ref"`
	Record Entry      `json:"record"`
}

// Subscription is a live remote change feed. Cancel stops delivery; it must
// be called before re-subscribing for a new day so cross-day events do not
// leak into the fresh collection.
type Subscription interface {
	Cancel()
}

// RemoteStore is the cloud document store the daily log synchronizes with.
// Update and Remove resolve the target record by RemoteRef when the entry
// carries one, then by ID, then by (TimestampMs, Subject).
type RemoteStore interface {
	Push(ctx context.Context, dateKey string, e Entry) (ref string, err error)
	Update(ctx context.Context, dateKey string, e Entry) error
	Remove(ctx context.Context, dateKey string, e Entry) error
	Subscribe(ctx context.Context, dateKey string, fn func(Change)) (Subscription, error)
}

// Mirror persists a day's collection to local storage as a fallback for when
// the remote store is unreachable.
type Mirror interface {
	Load(dateKey string) ([]*Entry, error)
	Save(dateKey string, entries []*Entry) error
}

// RenderFunc receives the updated, chronologically ordered collection after
// every mutation, synchronously, independent of remote confirmation.
type RenderFunc func(entries []*Entry)

// RemoteFailureFunc observes failed remote writes. The write is not retried;
// the hook exists so a retry policy can be layered on without touching the
// store.
type RemoteFailureFunc func(op string, entryID string, err error)
