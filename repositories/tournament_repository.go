package repositories

import (
	"context"
	"database/sql"

	"github.com/Dosada05/swiss-tournament/models"
)

// sqlTournamentRepository serves both PostgreSQL and SQLite: the statements
// below use only syntax the two share ($n placeholders, RETURNING).
type sqlTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db}
}

func NewSQLiteTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqlTournamentRepository{db: db}
}

func (r *sqlTournamentRepository) ClearMatches(ctx context.Context) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `UPDATE players SET wins = 0`)
		return err
	})
	return classify("clear matches", err)
}

func (r *sqlTournamentRepository) ClearPlayers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM players`)
	return classify("clear players", err)
}

func (r *sqlTournamentRepository) CountPlayers(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count)
	if err != nil {
		return 0, classify("count players", err)
	}
	return count, nil
}

func (r *sqlTournamentRepository) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	player := &models.Player{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO players (name) VALUES ($1) RETURNING id, wins`, name,
	).Scan(&player.ID, &player.Wins)
	if err != nil {
		return nil, classify("register player", err)
	}
	return player, nil
}

func (r *sqlTournamentRepository) Standings(ctx context.Context) ([]models.StandingsEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, wins, matches_played
		FROM player_standings
		ORDER BY wins DESC, id ASC`)
	if err != nil {
		return nil, classify("standings", err)
	}
	defer rows.Close()

	standings := make([]models.StandingsEntry, 0)
	for rows.Next() {
		var e models.StandingsEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Wins, &e.MatchesPlayed); err != nil {
			return nil, classify("standings", err)
		}
		standings = append(standings, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("standings", err)
	}
	return standings, nil
}

// RecordMatch inserts the match and bumps the winner's wins in one transaction.
// Unknown ids fail the foreign keys and surface as ErrIntegrity.
func (r *sqlTournamentRepository) RecordMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error) {
	match := &models.Match{WinnerID: winnerID, LoserID: loserID}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO matches (winner_id, loser_id) VALUES ($1, $2) RETURNING id`,
			winnerID, loserID,
		).Scan(&match.ID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE players SET wins = wins + 1 WHERE id = $1`, winnerID)
		return err
	})
	if err != nil {
		return nil, classify("record match", err)
	}
	return match, nil
}

func (r *sqlTournamentRepository) ListMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, winner_id, loser_id FROM matches ORDER BY id`)
	if err != nil {
		return nil, classify("list matches", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.WinnerID, &m.LoserID); err != nil {
			return nil, classify("list matches", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list matches", err)
	}
	return matches, nil
}
