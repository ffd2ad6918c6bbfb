package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// BindingsHandler provides CRUD for gesture-to-plugin bindings.
type BindingsHandler struct {
	store *store.Store
}

// NewBindingsHandler creates a BindingsHandler over the given store.
func NewBindingsHandler(s *store.Store) *BindingsHandler {
	return &BindingsHandler{store: s}
}

type bindingRequest struct {
	Label      string          `json:"label"`
	PluginName string          `json:"pluginName"`
	ActionName string          `json:"actionName"`
	Config     json.RawMessage `json:"config"`
	Enabled    *bool           `json:"enabled"`
}

type bindingResponse struct {
	ID         string          `json:"id"`
	Label      string          `json:"label"`
	PluginName string          `json:"pluginName"`
	ActionName string          `json:"actionName"`
	Config     json.RawMessage `json:"config"`
	Enabled    bool            `json:"enabled"`
	CreatedAt  string          `json:"createdAt"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:         b.ID,
		Label:      b.Label,
		PluginName: b.PluginName,
		ActionName: b.ActionName,
		Config:     b.Config,
		Enabled:    b.Enabled,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
	}
}

// validLabel reports whether the label names a recognizable gesture.
func validLabel(label string) bool {
	for _, l := range gesture.Labels {
		if string(l) == label {
			return true
		}
	}
	return false
}

// List handles GET /api/bindings.
func (h *BindingsHandler) List(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	resp := listBindingsResponse{Bindings: make([]bindingResponse, 0, len(bindings))}
	for _, b := range bindings {
		resp.Bindings = append(resp.Bindings, toBindingResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/bindings.
func (h *BindingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validLabel(req.Label) {
		writeError(w, http.StatusBadRequest, "Unknown gesture label")
		return
	}
	if req.PluginName == "" || req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "pluginName and actionName are required")
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	binding := &store.Binding{
		ID:         uuid.New().String(),
		Label:      req.Label,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    enabled,
	}

	if err := h.store.Bindings().Create(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}
	writeJSON(w, http.StatusCreated, toBindingResponse(binding))
}

// Get handles GET /api/bindings/{id}.
func (h *BindingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}
	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

// Update handles PUT /api/bindings/{id}.
func (h *BindingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	var req bindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Label != "" {
		if !validLabel(req.Label) {
			writeError(w, http.StatusBadRequest, "Unknown gesture label")
			return
		}
		binding.Label = req.Label
	}
	if req.PluginName != "" {
		binding.PluginName = req.PluginName
	}
	if req.ActionName != "" {
		binding.ActionName = req.ActionName
	}
	if req.Config != nil {
		binding.Config = req.Config
	}
	if req.Enabled != nil {
		binding.Enabled = *req.Enabled
	}

	if err := h.store.Bindings().Update(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}
	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

// Delete handles DELETE /api/bindings/{id}.
func (h *BindingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
