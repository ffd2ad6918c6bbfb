// Package plugin discovers and executes external action plugins. A
// plugin is a directory containing a plugin.json manifest and an
// executable; the recognizer invokes it when a bound gesture is
// confirmed, passing the event as JSON on stdin.
package plugin

import (
	"encoding/json"
	"time"
)

// Manifest describes a plugin's metadata and the actions it offers.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is the JSON document sent to a plugin on stdin for one
// confirmed gesture event.
type Request struct {
	Action    string          `json:"action"`
	Gesture   string          `json:"gesture"`
	Frame     int             `json:"frame"`
	At        time.Time       `json:"at"`
	SessionID string          `json:"sessionId,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is the JSON document a plugin writes to stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin: its manifest plus resolved paths.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
