// Package server exposes the remote log store over HTTP: REST endpoints for
// push/update/delete/list plus a websocket change feed per calendar day.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pretzelday/daylog/internal/logbook"
	"github.com/pretzelday/daylog/internal/observability"
	"github.com/pretzelday/daylog/internal/sqlite"
)

// Server handles log store requests.
type Server struct {
	repo     *sqlite.LogRepository
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// MutateRequest targets an existing record. Ref is preferred when the client
// has one; otherwise the record's id and then its (timestamp, subject) pair
// identify it.
type MutateRequest struct {
	Ref    string        `json:"ref,omitempty"`
	Record logbook.Entry `json:"record"`
}

// PushResponse confirms a push with the assigned ref.
type PushResponse struct {
	Ref string `json:"ref"`
}

// NewRouter creates the HTTP router.
func NewRouter(repo *sqlite.LogRepository, hub *Hub, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		repo:   repo,
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/days/{dateKey}", func(r chi.Router) {
		r.Post("/logs", srv.handlePush)
		r.Put("/logs", srv.handleUpdate)
		r.Delete("/logs", srv.handleDelete)
		r.Get("/logs", srv.handleList)
		r.Get("/feed", srv.handleFeed)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")
	var rec logbook.Entry
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		http.Error(w, "invalid record", http.StatusBadRequest)
		return
	}
	rec.DateKey = dateKey
	rec.RemoteRef = ""

	ref, err := s.repo.Insert(r.Context(), dateKey, rec)
	if err != nil {
		s.logger.Error("push failed", "dateKey", dateKey, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	observability.RecordWrite("push")
	s.hub.Broadcast(dateKey, logbook.Change{Kind: logbook.ChangeAdded, Ref: ref, Record: rec})

	writeJSON(w, http.StatusCreated, PushResponse{Ref: ref})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")
	var req MutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Record.DateKey = dateKey
	req.Record.RemoteRef = ""

	ref, err := s.repo.Resolve(r.Context(), dateKey, req.Ref, req.Record)
	if errors.Is(err, sqlite.ErrNotFound) {
		http.Error(w, "no matching record", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("update resolve failed", "dateKey", dateKey, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if err := s.repo.Update(r.Context(), ref, req.Record); err != nil {
		s.logger.Error("update failed", "dateKey", dateKey, "ref", ref, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	observability.RecordWrite("update")
	s.hub.Broadcast(dateKey, logbook.Change{Kind: logbook.ChangeModified, Ref: ref, Record: req.Record})

	writeJSON(w, http.StatusOK, PushResponse{Ref: ref})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")
	var req MutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Record.DateKey = dateKey

	ref, err := s.repo.Resolve(r.Context(), dateKey, req.Ref, req.Record)
	if errors.Is(err, sqlite.ErrNotFound) {
		http.Error(w, "no matching record", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("delete resolve failed", "dateKey", dateKey, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}

	stored, err := s.repo.Get(r.Context(), ref)
	if err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		s.logger.Error("delete lookup failed", "ref", ref, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if err := s.repo.Delete(r.Context(), ref); err != nil && !errors.Is(err, sqlite.ErrNotFound) {
		s.logger.Error("delete failed", "ref", ref, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	observability.RecordWrite("delete")
	removed := req.Record
	if stored != nil {
		removed = stored.Entry
	}
	s.hub.Broadcast(dateKey, logbook.Change{Kind: logbook.ChangeRemoved, Ref: ref, Record: removed})

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")
	stored, err := s.repo.ListDay(r.Context(), dateKey)
	if err != nil {
		s.logger.Error("list failed", "dateKey", dateKey, "error", err)
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}

	out := make([]MutateRequest, 0, len(stored))
	for _, st := range stored {
		out = append(out, MutateRequest{Ref: st.Ref, Record: st.Entry})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFeed upgrades to a websocket and streams change events for one date
// key: first the current records as "added" events, then live mutations.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	dateKey := chi.URLParam(r, "dateKey")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("feed upgrade failed", "error", err)
		return
	}

	sub := s.hub.Register(dateKey)
	observability.FeedConnected()
	defer func() {
		s.hub.Unregister(sub)
		observability.FeedDisconnected()
		conn.Close()
	}()

	// Registered before the snapshot read, so a concurrent write is seen
	// twice rather than never; reconciliation on the client is idempotent.
	snapshot, err := s.repo.ListDay(r.Context(), dateKey)
	if err != nil {
		s.logger.Error("feed snapshot failed", "dateKey", dateKey, "error", err)
		return
	}

	for _, st := range snapshot {
		c := logbook.Change{Kind: logbook.ChangeAdded, Ref: st.Ref, Record: st.Entry}
		if err := conn.WriteJSON(c); err != nil {
			return
		}
		observability.FeedEventDelivered()
	}

	// Drain the client side so we notice the connection closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case c, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := conn.WriteJSON(c); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.Debug("feed write error", "dateKey", dateKey, "error", err)
				}
				return
			}
			observability.FeedEventDelivered()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
