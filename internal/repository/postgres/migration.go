package postgres

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id BIGSERIAL PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL DEFAULT '',
		google_id TEXT,
		rating INT NOT NULL DEFAULT 1000,
		games_played INT NOT NULL DEFAULT 0,
		games_won INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		match_id TEXT PRIMARY KEY,
		red_id BIGINT NOT NULL REFERENCES players(id),
		red_username TEXT NOT NULL,
		yellow_id BIGINT REFERENCES players(id),
		yellow_username TEXT NOT NULL,
		winner_id BIGINT,
		winner_username TEXT,
		reason TEXT NOT NULL,
		total_moves INT NOT NULL,
		duration_seconds INT NOT NULL,
		board JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_red ON matches(red_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_yellow ON matches(yellow_id)`,
	`CREATE TABLE IF NOT EXISTS auth_sessions (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES players(id),
		session_id TEXT UNIQUE NOT NULL,
		device_info TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL,
		last_activity TIMESTAMPTZ NOT NULL DEFAULT now(),
		is_active BOOLEAN NOT NULL DEFAULT true
	)`,
	`CREATE INDEX IF NOT EXISTS idx_auth_sessions_user ON auth_sessions(user_id)`,
}

// RunMigrations applies the schema. Statements are idempotent so startup can
// always run them.
func RunMigrations(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
