package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/store"
)

// SessionsHandler serves recognition session history.
type SessionsHandler struct {
	store *store.Store
}

// NewSessionsHandler creates a SessionsHandler over the given store.
func NewSessionsHandler(s *store.Store) *SessionsHandler {
	return &SessionsHandler{store: s}
}

type sessionResponse struct {
	ID        string  `json:"id"`
	StartedAt string  `json:"startedAt"`
	EndedAt   *string `json:"endedAt,omitempty"`
	Frames    int     `json:"frames"`
	Events    int     `json:"events"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		StartedAt: s.StartedAt.Format(time.RFC3339),
		Frames:    s.Frames,
		Events:    s.Events,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}

// List handles GET /api/sessions.
func (h *SessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
