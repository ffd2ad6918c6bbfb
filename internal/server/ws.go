package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The monitor binds to localhost.
		return true
	},
}

// liveInterval is the status broadcast rate.
const liveInterval = 66 * time.Millisecond

// liveHandler broadcasts the recognizer status to WebSocket clients.
type liveHandler struct {
	source  Recognizer
	log     logrus.FieldLogger
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

func newLiveHandler(source Recognizer, log logrus.FieldLogger) *liveHandler {
	h := &liveHandler{
		source:  source,
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (h *liveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *liveHandler) broadcast() {
	ticker := time.NewTicker(liveInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		msg, err := json.Marshal(map[string]any{
			"status":    h.source.Status(),
			"timestamp": time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
