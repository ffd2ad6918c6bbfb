package store

import (
	"database/sql"
	"time"
)

// Event is one confirmed gesture recognition persisted to history.
// Events are append-only; rows are never updated.
type Event struct {
	ID        int64
	SessionID string
	Label     string
	Frame     int
	At        time.Time
}

// EventFilter narrows an event listing. Zero values mean "no filter";
// Limit 0 means no limit.
type EventFilter struct {
	SessionID string
	Label     string
	Limit     int
}

// LabelCount is an aggregate of events per gesture label.
type LabelCount struct {
	Label string
	Count int
}

// EventRepository provides append and query access to event history.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Append inserts one event and fills in its generated ID.
func (r *EventRepository) Append(e *Event) error {
	result, err := r.db.Exec(
		`INSERT INTO events (session_id, label, frame, at) VALUES (?, ?, ?, ?)`,
		e.SessionID, e.Label, e.Frame, e.At,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// List retrieves events matching the filter, oldest first.
func (r *EventRepository) List(filter EventFilter) ([]*Event, error) {
	query := `SELECT id, session_id, label, frame, at FROM events`
	var args []any
	var where []string

	if filter.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Label != "" {
		where = append(where, "label = ?")
		args = append(args, filter.Label)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Label, &e.Frame, &e.At); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByLabel aggregates event counts per label, optionally scoped to
// one session, ordered by count descending.
func (r *EventRepository) CountByLabel(sessionID string) ([]LabelCount, error) {
	query := `SELECT label, COUNT(*) FROM events`
	var args []any
	if sessionID != "" {
		query += " WHERE session_id = ?"
		args = append(args, sessionID)
	}
	query += " GROUP BY label ORDER BY COUNT(*) DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []LabelCount
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
