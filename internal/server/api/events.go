package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/mudra/internal/store"
)

// EventsHandler serves confirmed gesture event history.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates an EventsHandler over the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type eventResponse struct {
	ID        int64  `json:"id"`
	SessionID string `json:"sessionId"`
	Label     string `json:"label"`
	Frame     int    `json:"frame"`
	At        string `json:"at"`
}

type listEventsResponse struct {
	Events []eventResponse `json:"events"`
}

// List handles GET /api/events with optional session, label and limit
// query parameters.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		SessionID: r.URL.Query().Get("session"),
		Label:     r.URL.Query().Get("label"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	events, err := h.store.Events().List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	resp := listEventsResponse{Events: make([]eventResponse, 0, len(events))}
	for _, e := range events {
		resp.Events = append(resp.Events, eventResponse{
			ID:        e.ID,
			SessionID: e.SessionID,
			Label:     e.Label,
			Frame:     e.Frame,
			At:        e.At.Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
