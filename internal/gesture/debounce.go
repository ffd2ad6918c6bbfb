package gesture

import (
	"fmt"
	"time"
)

// DefaultStableFrames is the number of consecutive identical frames a
// candidate must survive before it is confirmed.
const DefaultStableFrames = 5

// State is the debouncer's position in its streak lifecycle.
type State int

const (
	// StateIdle means no run is in progress (the last candidate was None).
	StateIdle State = iota
	// StateAccumulating means the current streak is shorter than the
	// stability threshold.
	StateAccumulating
	// StateConfirmed means the streak reached the threshold and its single
	// event has already been emitted.
	StateConfirmed
)

// String returns the state name for logs and status reporting.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAccumulating:
		return "accumulating"
	case StateConfirmed:
		return "confirmed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Event is one confirmed recognition: the label that survived the
// stability threshold, the time of the confirming frame, and that
// frame's index.
type Event struct {
	Label Label     `json:"label"`
	At    time.Time `json:"at"`
	Frame int       `json:"frame"`
}

// Debouncer turns a noisy per-frame candidate stream into confirmed
// events. A candidate must repeat for threshold consecutive frames to be
// confirmed, and each maximal run of identical non-None candidates emits
// exactly once, at the threshold crossing. Any change of candidate,
// including a drop to None, ends the run and re-arms emission.
//
// Not safe for concurrent use; the session driver owns it and advances
// it once per frame.
type Debouncer struct {
	threshold int
	state     State
	candidate Label
	count     int
	emitted   Label
}

// NewDebouncer creates a Debouncer with the given stability threshold.
// The threshold must be at least 1; invalid values are rejected here,
// before any frame is processed.
func NewDebouncer(threshold int) (*Debouncer, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("stability threshold must be >= 1, got %d", threshold)
	}
	return &Debouncer{
		threshold: threshold,
		state:     StateIdle,
		candidate: None,
	}, nil
}

// Advance feeds one frame's candidate label into the state machine and
// returns the confirmed event, if this frame crossed the threshold.
// None (hand absent, degraded landmarks, or an unrecognized pose) never
// confirms; it only breaks the current run.
func (d *Debouncer) Advance(candidate Label, at time.Time, frame int) (Event, bool) {
	if candidate != d.candidate {
		// New streak. A change always re-arms, so an A,B,A sequence of
		// qualifying runs emits three events.
		d.candidate = candidate
		if candidate == None {
			d.state = StateIdle
			d.count = 0
			return Event{}, false
		}
		d.state = StateAccumulating
		d.count = 1
	} else {
		if candidate == None {
			return Event{}, false
		}
		if d.state == StateConfirmed {
			// Held gesture: one event per run, no re-emission, and the
			// count stays capped at the threshold.
			return Event{}, false
		}
		d.count++
	}

	if d.count < d.threshold {
		return Event{}, false
	}

	d.state = StateConfirmed
	d.count = d.threshold
	d.emitted = candidate
	return Event{Label: candidate, At: at, Frame: frame}, true
}

// Reset returns the debouncer to its initial state, discarding any run
// in progress. Used when a session restarts.
func (d *Debouncer) Reset() {
	d.state = StateIdle
	d.candidate = None
	d.count = 0
	d.emitted = None
}

// State returns the current streak state.
func (d *Debouncer) State() State { return d.state }

// Candidate returns the label of the run in progress, or None.
func (d *Debouncer) Candidate() Label { return d.candidate }

// Count returns the length of the run in progress, capped at the
// threshold once confirmed.
func (d *Debouncer) Count() int { return d.count }

// Threshold returns the configured stability threshold.
func (d *Debouncer) Threshold() int { return d.threshold }

// LastEmitted returns the label of the most recently confirmed event, or
// None if nothing has been emitted since the last Reset.
func (d *Debouncer) LastEmitted() Label { return d.emitted }
