package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is one recognition run: when it started and ended, and how
// many frames it processed and events it confirmed.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int
	Events    int
}

// SessionRepository provides access to session history.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session row marking the start of a run.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, frames, events) VALUES (?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Frames, sess.Events,
	)
	return err
}

// Finish records the end of a session along with its final counters.
func (r *SessionRepository) Finish(id string, endedAt time.Time, frames, events int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, events = ? WHERE id = ?`,
		endedAt, frames, events, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, events FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.Events)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames, events FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		if err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.Events); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
