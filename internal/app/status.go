package app

import (
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// Status is a snapshot of the recognizer state, published to the
// monitor server and the tray.
type Status struct {
	Running   bool   `json:"running"`
	Enabled   bool   `json:"enabled"`
	SessionID string `json:"sessionId,omitempty"`

	Frame     int              `json:"frame"`
	Candidate gesture.Label    `json:"candidate"`
	Confirmed gesture.Label    `json:"confirmed"`
	Streak    int              `json:"streak"`
	State     string           `json:"state"`
	Features  gesture.Features `json:"features"`
	HandSeen  bool             `json:"handSeen"`

	FPS    float64 `json:"fps"`
	Events int     `json:"events"`

	// Per-session diagnostic counters.
	NoHandFrames    int `json:"noHandFrames"`
	DegradedFrames  int `json:"degradedFrames"`
	DetectorErrors  int `json:"detectorErrors"`
	UnmatchedFrames int `json:"unmatchedFrames"`
}

// statusBoard holds the published status and the latest annotated JPEG
// frame behind one lock.
type statusBoard struct {
	mu       sync.RWMutex
	status   Status
	snapshot []byte
}

func (b *statusBoard) get() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status
}

func (b *statusBoard) update(fn func(*Status)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.status)
}

func (b *statusBoard) setSnapshot(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot = jpeg
}

func (b *statusBoard) getSnapshot() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshot
}
