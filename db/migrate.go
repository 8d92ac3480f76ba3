package db

import (
	"context"
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		nickname VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash TEXT NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'player',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_email_key UNIQUE (email),
		CONSTRAINT users_nickname_key UNIQUE (nickname)
	)`,

	`CREATE TABLE IF NOT EXISTS tournaments (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		sport VARCHAR(50) NOT NULL DEFAULT 'cricket',
		organizer_id INTEGER NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'soon',
		total_rounds INTEGER NOT NULL DEFAULT 0,
		max_overs INTEGER NOT NULL DEFAULT 20,
		players_per_side INTEGER NOT NULL DEFAULT 11,
		winner_name VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT tournaments_organizer_id_fkey FOREIGN KEY (organizer_id) REFERENCES users(id),
		CONSTRAINT tournaments_organizer_id_name_key UNIQUE (organizer_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS matches (
		id SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL,
		round INTEGER NOT NULL,
		sport VARCHAR(50) NOT NULL,
		team_a VARCHAR(255) NOT NULL DEFAULT '',
		team_b VARCHAR(255) NOT NULL DEFAULT '',
		player_a_id INTEGER REFERENCES users(id),
		player_b_id INTEGER REFERENCES users(id),
		scorer_id INTEGER REFERENCES users(id),
		max_overs INTEGER NOT NULL,
		players_per_side INTEGER NOT NULL,
		state VARCHAR(30) NOT NULL DEFAULT 'not_started',
		active_innings_id INTEGER,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		score_a INTEGER,
		score_b INTEGER,
		winner_name VARCHAR(255),
		result VARCHAR(20),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT matches_tournament_id_fkey FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_tournament_round ON matches(tournament_id, round, id)`,

	`CREATE TABLE IF NOT EXISTS innings (
		id SERIAL PRIMARY KEY,
		match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		innings_number INTEGER NOT NULL CHECK (innings_number IN (1, 2)),
		batting_team VARCHAR(255) NOT NULL,
		bowling_team VARCHAR(255) NOT NULL,
		total_runs INTEGER NOT NULL DEFAULT 0,
		total_wickets INTEGER NOT NULL DEFAULT 0,
		total_overs NUMERIC(6,1) NOT NULL DEFAULT 0,
		extras INTEGER NOT NULL DEFAULT 0,
		is_complete BOOLEAN NOT NULL DEFAULT FALSE,
		completion_reason VARCHAR(30),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (match_id, innings_number)
	)`,

	`CREATE TABLE IF NOT EXISTS batting_entries (
		id SERIAL PRIMARY KEY,
		innings_id INTEGER NOT NULL REFERENCES innings(id) ON DELETE CASCADE,
		player_name VARCHAR(255) NOT NULL,
		player_id INTEGER REFERENCES users(id),
		batting_order INTEGER NOT NULL,
		runs INTEGER NOT NULL DEFAULT 0,
		balls_faced INTEGER NOT NULL DEFAULT 0,
		fours INTEGER NOT NULL DEFAULT 0,
		sixes INTEGER NOT NULL DEFAULT 0,
		strike_rate NUMERIC(8,2) NOT NULL DEFAULT 0,
		is_out BOOLEAN NOT NULL DEFAULT FALSE,
		dismissal_type VARCHAR(20),
		bowler_name VARCHAR(255),
		fielder_name VARCHAR(255),
		UNIQUE (innings_id, player_name)
	)`,

	`CREATE TABLE IF NOT EXISTS bowling_entries (
		id SERIAL PRIMARY KEY,
		innings_id INTEGER NOT NULL REFERENCES innings(id) ON DELETE CASCADE,
		player_name VARCHAR(255) NOT NULL,
		player_id INTEGER REFERENCES users(id),
		overs_bowled NUMERIC(6,1) NOT NULL DEFAULT 0,
		runs_conceded INTEGER NOT NULL DEFAULT 0,
		wickets INTEGER NOT NULL DEFAULT 0,
		economy NUMERIC(8,2) NOT NULL DEFAULT 0,
		extras INTEGER NOT NULL DEFAULT 0,
		no_balls INTEGER NOT NULL DEFAULT 0,
		wides INTEGER NOT NULL DEFAULT 0,
		UNIQUE (innings_id, player_name)
	)`,

	`CREATE TABLE IF NOT EXISTS ball_events (
		id SERIAL PRIMARY KEY,
		innings_id INTEGER NOT NULL REFERENCES innings(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		over_number INTEGER NOT NULL,
		ball_number INTEGER NOT NULL,
		batsman_name VARCHAR(255) NOT NULL,
		batsman_id INTEGER,
		bowler_name VARCHAR(255) NOT NULL,
		bowler_id INTEGER,
		runs_scored INTEGER NOT NULL DEFAULT 0,
		extra_type VARCHAR(20),
		extra_runs INTEGER NOT NULL DEFAULT 0,
		is_wicket BOOLEAN NOT NULL DEFAULT FALSE,
		dismissal_type VARCHAR(20),
		fielder_name VARCHAR(255),
		commentary TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (innings_id, sequence)
	)`,

	`CREATE TABLE IF NOT EXISTS performance_profiles (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sport VARCHAR(50) NOT NULL,
		display_name VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, sport)
	)`,

	`CREATE TABLE IF NOT EXISTS stat_entries (
		id SERIAL PRIMARY KEY,
		match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		profile_id INTEGER NOT NULL REFERENCES performance_profiles(id) ON DELETE CASCADE,
		team_name VARCHAR(255) NOT NULL,
		metrics JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (match_id, profile_id)
	)`,

	`CREATE TABLE IF NOT EXISTS goals (
		id SERIAL PRIMARY KEY,
		profile_id INTEGER NOT NULL REFERENCES performance_profiles(id) ON DELETE CASCADE,
		metric_key VARCHAR(50) NOT NULL,
		target DOUBLE PRECISION NOT NULL,
		current DOUBLE PRECISION NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ
	)`,
}

// Migrate creates any missing tables. Every statement is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
