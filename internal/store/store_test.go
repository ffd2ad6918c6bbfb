package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "mudra.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSessionRepository_Lifecycle(t *testing.T) {
	s := newTestStore(t)

	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sess := &Session{ID: uuid.New().String(), StartedAt: started}

	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt = %v for a running session, want nil", got.EndedAt)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, started)
	}

	ended := started.Add(10 * time.Minute)
	if err := s.Sessions().Finish(sess.ID, ended, 9000, 12); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	got, err = s.Sessions().GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() after finish error = %v", err)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(ended) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, ended)
	}
	if got.Frames != 9000 || got.Events != 12 {
		t.Errorf("counters = %d frames, %d events, want 9000 and 12", got.Frames, got.Events)
	}
}

func TestSessionRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
	if err := s.Sessions().Finish("missing", time.Now(), 0, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Finish() error = %v, want ErrNotFound", err)
	}
}

func TestEventRepository_AppendAndList(t *testing.T) {
	s := newTestStore(t)

	sess := &Session{ID: uuid.New().String()}
	if err := s.Sessions().Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	at := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	for i, label := range []string{"START", "3", "STOP", "3"} {
		e := &Event{
			SessionID: sess.ID,
			Label:     label,
			Frame:     (i + 1) * 5,
			At:        at.Add(time.Duration(i) * time.Second),
		}
		if err := s.Events().Append(e); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if e.ID == 0 {
			t.Error("Append() did not fill in the event ID")
		}
	}

	t.Run("by session", func(t *testing.T) {
		events, err := s.Events().List(EventFilter{SessionID: sess.ID})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(events) != 4 {
			t.Fatalf("expected 4 events, got %d", len(events))
		}
		// Oldest first, append order preserved
		if events[0].Label != "START" || events[3].Label != "3" {
			t.Errorf("order wrong: first %q, last %q", events[0].Label, events[3].Label)
		}
	})

	t.Run("by label", func(t *testing.T) {
		events, err := s.Events().List(EventFilter{Label: "3"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events for label 3, got %d", len(events))
		}
	})

	t.Run("with limit", func(t *testing.T) {
		events, err := s.Events().List(EventFilter{SessionID: sess.ID, Limit: 2})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("expected 2 events with limit, got %d", len(events))
		}
	})

	t.Run("count by label", func(t *testing.T) {
		counts, err := s.Events().CountByLabel(sess.ID)
		if err != nil {
			t.Fatalf("CountByLabel() error = %v", err)
		}
		if len(counts) != 3 {
			t.Fatalf("expected 3 labels, got %d", len(counts))
		}
		if counts[0].Label != "3" || counts[0].Count != 2 {
			t.Errorf("top count = %+v, want {3 2}", counts[0])
		}
	})
}

func TestBindingRepository_CRUD(t *testing.T) {
	s := newTestStore(t)

	b := &Binding{
		ID:         uuid.New().String(),
		Label:      "START",
		PluginName: "shell-command",
		ActionName: "run",
		Config:     json.RawMessage(`{"command":"say begin"}`),
		Enabled:    true,
	}

	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Bindings().GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Label != "START" || got.PluginName != "shell-command" || !got.Enabled {
		t.Errorf("GetByID() = %+v", got)
	}

	got.Enabled = false
	if err := s.Bindings().Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// Disabled bindings must not show up in label lookups.
	enabled, err := s.Bindings().ListByLabel("START")
	if err != nil {
		t.Fatalf("ListByLabel() error = %v", err)
	}
	if len(enabled) != 0 {
		t.Errorf("expected 0 enabled bindings, got %d", len(enabled))
	}

	all, err := s.Bindings().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 binding total, got %d", len(all))
	}

	if err := s.Bindings().Delete(b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Bindings().GetByID(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Bindings().Delete(b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestBindingRepository_ListByLabel_Multiple(t *testing.T) {
	s := newTestStore(t)

	for _, label := range []string{"STOP", "STOP", "5"} {
		b := &Binding{
			ID:         uuid.New().String(),
			Label:      label,
			PluginName: "shell-command",
			ActionName: "run",
			Enabled:    true,
		}
		if err := s.Bindings().Create(b); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	bindings, err := s.Bindings().ListByLabel("STOP")
	if err != nil {
		t.Fatalf("ListByLabel() error = %v", err)
	}
	if len(bindings) != 2 {
		t.Errorf("expected 2 bindings for STOP, got %d", len(bindings))
	}
}
