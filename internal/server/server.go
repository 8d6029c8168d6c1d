// Package server exposes a read-only JSON view of the dashboard over
// HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ldi/huddle/internal/standup"
	"github.com/ldi/huddle/internal/store"
)

type Server struct {
	store  *store.Store
	server *http.Server
}

func NewServer(st *store.Store) *Server {
	return &Server{store: st}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/tickets", s.handleTickets)
	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/board", s.handleBoard)
	mux.HandleFunc("/api/ideas", s.handleIdeas)
	mux.HandleFunc("/api/standups", s.handleStandups)
	mux.HandleFunc("/api/timeline", s.handleTimeline)

	s.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.store.ListTickets(store.TicketFilter{}))
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.store.ListUsers())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.store.Board())
}

func (s *Server) handleIdeas(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.store.ListIdeas())
}

func (s *Server) handleStandups(w http.ResponseWriter, r *http.Request) {
	s.respond(w, s.store.ListStandupReports())
}

// timelineEntry is one positioned bar segment in the API response.
type timelineEntry struct {
	TicketID string  `json:"ticket_id"`
	Kind     string  `json:"kind"`
	Left     float64 `json:"left"`
	Width    float64 `json:"width"`
}

// handleTimeline reconstructs today's timeline for the user given by the
// ?user query parameter.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	u := s.store.GetUser(userID)
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	now := time.Now()
	segments := standup.DayTimeline(s.store.Activity(), u, now, now)

	entries := []timelineEntry{}
	for _, seg := range segments {
		left, width, ok := standup.Position(seg, now)
		if !ok {
			continue
		}
		entries = append(entries, timelineEntry{
			TicketID: seg.TicketID,
			Kind:     string(seg.Kind),
			Left:     left,
			Width:    width,
		})
	}
	s.respond(w, entries)
}

func (s *Server) respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}
