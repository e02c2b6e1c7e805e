package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a versioned schema change
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order; each runs at most once
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_track_points",
		SQL: `
			CREATE TABLE IF NOT EXISTS track_points (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				timestamp INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				accuracy REAL NOT NULL DEFAULT 0,
				connects_previous INTEGER NOT NULL DEFAULT 0,
				starts_session INTEGER NOT NULL DEFAULT 0,
				disconnection_reason TEXT,
				session_id TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_track_points_timestamp ON track_points(timestamp);
			CREATE INDEX IF NOT EXISTS idx_track_points_session ON track_points(session_id);
		`,
	},
	{
		Version: 2,
		Name:    "create_sessions",
		SQL: `
			CREATE TABLE IF NOT EXISTS sessions (
				session_id TEXT PRIMARY KEY,
				start_time INTEGER NOT NULL,
				end_time INTEGER,
				total_paused_time INTEGER NOT NULL DEFAULT 0,
				distance REAL NOT NULL DEFAULT 0,
				area REAL NOT NULL DEFAULT 0,
				duration INTEGER NOT NULL DEFAULT 0
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_stats_snapshot",
		SQL: `
			CREATE TABLE IF NOT EXISTS stats_snapshot (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				data TEXT NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: 4,
		Name:    "create_explored_cells",
		SQL: `
			CREATE TABLE IF NOT EXISTS explored_cells (
				cell TEXT PRIMARY KEY,
				first_visit INTEGER NOT NULL,
				visit_count INTEGER NOT NULL DEFAULT 1
			);
		`,
	},
}

// Migrate applies pending migrations in order
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := Transaction(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		}); err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}
