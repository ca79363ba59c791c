package db

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the players and matches tables and the
// player_standings view. Safe to call multiple times.
func CreateSchema(ctx context.Context, db *sql.DB, driver string) error {
	var ddl string
	switch driver {
	case DriverPostgres:
		ddl = postgresSchema
	case DriverSQLite:
		ddl = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", driver)
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema removes everything CreateSchema creates. Used by tests.
func DropSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		DROP VIEW IF EXISTS player_standings;
		DROP TABLE IF EXISTS matches;
		DROP TABLE IF EXISTS players;
	`)
	if err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}

// matches_played counts every match that references the player on either side.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
    id SERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    wins INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0)
);

CREATE TABLE IF NOT EXISTS matches (
    id SERIAL PRIMARY KEY,
    winner_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    loser_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_matches_winner_id ON matches(winner_id);
CREATE INDEX IF NOT EXISTS idx_matches_loser_id ON matches(loser_id);

CREATE OR REPLACE VIEW player_standings AS
SELECT p.id, p.name, p.wins, COUNT(m.id) AS matches_played
FROM players p
LEFT JOIN matches m ON m.winner_id = p.id OR m.loser_id = p.id
GROUP BY p.id, p.name, p.wins;
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    wins INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0)
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    winner_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
    loser_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_matches_winner_id ON matches(winner_id);
CREATE INDEX IF NOT EXISTS idx_matches_loser_id ON matches(loser_id);

CREATE VIEW IF NOT EXISTS player_standings AS
SELECT p.id, p.name, p.wins, COUNT(m.id) AS matches_played
FROM players p
LEFT JOIN matches m ON m.winner_id = p.id OR m.loser_id = p.id
GROUP BY p.id, p.name, p.wins;
`
