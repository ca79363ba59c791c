package repositories

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

// TournamentRepository is the persistent store the tournament services run on.
// Implementations must be safe for concurrent use and must record a match and
// the winner's win increment atomically.
type TournamentRepository interface {
	ClearMatches(ctx context.Context) error
	ClearPlayers(ctx context.Context) error
	CountPlayers(ctx context.Context) (int, error)
	RegisterPlayer(ctx context.Context, name string) (*models.Player, error)
	// Standings returns one entry per player, wins descending, ties in
	// registration order.
	Standings(ctx context.Context) ([]models.StandingsEntry, error)
	RecordMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
}
