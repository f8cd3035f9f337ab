package server

import (
	"log/slog"
	"sync"

	"github.com/pretzelday/daylog/internal/logbook"
)

// subscriberBuffer bounds the per-subscriber event queue. A subscriber that
// falls this far behind has its events dropped.
const subscriberBuffer = 64

// Hub fans change events out to feed subscribers, partitioned by date key so
// a client subscribed to one day never sees another day's events.
type Hub struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[string]map[*Subscriber]struct{}
}

// Subscriber is one registered feed connection.
type Subscriber struct {
	dateKey string
	events  chan logbook.Change
}

// Events is the subscriber's change event stream.
func (s *Subscriber) Events() <-chan logbook.Change {
	return s.events
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		subs:   make(map[string]map[*Subscriber]struct{}),
	}
}

// Register adds a subscriber for dateKey.
func (h *Hub) Register(dateKey string) *Subscriber {
	sub := &Subscriber{
		dateKey: dateKey,
		events:  make(chan logbook.Change, subscriberBuffer),
	}
	h.mu.Lock()
	if h.subs[dateKey] == nil {
		h.subs[dateKey] = make(map[*Subscriber]struct{})
	}
	h.subs[dateKey][sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unregister removes a subscriber and closes its event stream.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	if set, ok := h.subs[sub.dateKey]; ok {
		if _, ok := set[sub]; ok {
			delete(set, sub)
			close(sub.events)
			if len(set) == 0 {
				delete(h.subs, sub.dateKey)
			}
		}
	}
	h.mu.Unlock()
}

// Broadcast delivers a change to every subscriber of dateKey. Slow
// subscribers lose events rather than blocking the writer.
func (h *Hub) Broadcast(dateKey string, c logbook.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[dateKey] {
		select {
		case sub.events <- c:
		default:
			h.logger.Warn("dropping feed event for slow subscriber", "dateKey", dateKey, "kind", c.Kind)
		}
	}
}
