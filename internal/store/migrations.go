package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per recognition run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			frames INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0
		)`,

		// Events table - append-only history of confirmed gestures
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			frame INTEGER NOT NULL,
			at DATETIME NOT NULL
		)`,

		// Bindings table - gesture label to plugin action mappings
		`CREATE TABLE IF NOT EXISTS bindings (
			id TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			plugin_name TEXT NOT NULL,
			action_name TEXT NOT NULL,
			config TEXT NOT NULL DEFAULT '{}',
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for the common queries
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_label ON events(label)`,
		`CREATE INDEX IF NOT EXISTS idx_bindings_label ON bindings(label)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
