// Package server provides the HTTP monitor for the Mudra recognizer:
// a JSON API over the session and event history, a live status
// WebSocket, an MJPEG stream of the annotated camera view, and an HTML
// report of recognized gestures.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Recognizer is the view of the running pipeline the server needs.
type Recognizer interface {
	Status() app.Status
	Snapshot() []byte
}

// Config holds the server configuration.
type Config struct {
	// Store enables the history API endpoints when set.
	Store *store.Store

	// Recognizer enables the status, stream and live endpoints when set.
	Recognizer Recognizer

	// StaticDir serves a UI from disk when set.
	StaticDir string

	Logger *logrus.Logger
}

// Server is the monitor HTTP server.
type Server struct {
	config Config
	log    logrus.FieldLogger
	router *mux.Router
	http   *http.Server
	start  time.Time
}

// New creates a Server with the given configuration.
func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}

	s := &Server{
		config: config,
		log:    config.Logger.WithField("component", "server"),
		router: mux.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)

	if s.config.Recognizer != nil {
		s.router.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
		s.router.Handle("/api/stream", newStreamHandler(s.config.Recognizer)).Methods(http.MethodGet)
		s.router.Handle("/api/live", newLiveHandler(s.config.Recognizer, s.log))
	}

	if s.config.Store != nil {
		sessions := api.NewSessionsHandler(s.config.Store)
		s.router.HandleFunc("/api/sessions", sessions.List).Methods(http.MethodGet)
		s.router.HandleFunc("/api/sessions/{id}", sessions.Get).Methods(http.MethodGet)

		events := api.NewEventsHandler(s.config.Store)
		s.router.HandleFunc("/api/events", events.List).Methods(http.MethodGet)

		bindings := api.NewBindingsHandler(s.config.Store)
		s.router.HandleFunc("/api/bindings", bindings.List).Methods(http.MethodGet)
		s.router.HandleFunc("/api/bindings", bindings.Create).Methods(http.MethodPost)
		s.router.HandleFunc("/api/bindings/{id}", bindings.Get).Methods(http.MethodGet)
		s.router.HandleFunc("/api/bindings/{id}", bindings.Update).Methods(http.MethodPut)
		s.router.HandleFunc("/api/bindings/{id}", bindings.Delete).Methods(http.MethodDelete)

		s.router.HandleFunc("/report", s.handleReport).Methods(http.MethodGet)
	}

	if s.config.StaticDir != "" {
		s.router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.Recognizer.Status())
}

// ListenAndServe starts the server on addr and blocks until it stops.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.WithField("addr", addr).Info("monitor server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops a server started with ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
