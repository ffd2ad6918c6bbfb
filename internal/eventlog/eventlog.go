// Package eventlog records confirmed gesture events. The primary sink is
// an append-only text file with one timestamped line per event; the Sink
// interface lets the session driver fan events out to other consumers.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultPath is the event log written when no output path is configured.
const DefaultPath = "recognized_gestures.txt"

// TimeFormat is the timestamp layout used in log lines, with millisecond
// precision.
const TimeFormat = "2006-01-02 15:04:05.000"

// Sink receives confirmed gesture events.
type Sink interface {
	Record(ev gesture.Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev gesture.Event) error

// Record calls fn.
func (fn SinkFunc) Record(ev gesture.Event) error { return fn(ev) }

// FileSink appends events to a text file, one line per event:
//
//	[2026-03-14 10:15:02.417] START
//
// Lines are only ever appended; prior lines are never rewritten.
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewFileSink opens (or creates) the event log at path, creating parent
// directories as needed. The file is opened append-only so an existing
// log is extended, not truncated.
func NewFileSink(path string) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	return &FileSink{file: file, path: path}, nil
}

// Record appends one event line. An I/O failure (disk full, permission
// revoked) is returned to the caller; the session driver treats it as
// fatal rather than silently dropping events.
func (s *FileSink) Record(ev gesture.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("[%s] %s\n", ev.At.Format(TimeFormat), ev.Label)
	if _, err := s.file.WriteString(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// Path returns the log file path.
func (s *FileSink) Path() string {
	return s.path
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
