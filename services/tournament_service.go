package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/swiss-tournament/brackets"
	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/repositories"
)

// EventPublisher receives tournament events after successful mutations.
type EventPublisher interface {
	Publish(eventType string, payload interface{})
}

type TournamentService interface {
	RegisterPlayer(ctx context.Context, name string) (*models.Player, error)
	CountPlayers(ctx context.Context) (int, error)
	ClearPlayers(ctx context.Context) error
	RecordMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error)
	ListMatches(ctx context.Context) ([]models.Match, error)
	ClearMatches(ctx context.Context) error
	Standings(ctx context.Context) ([]models.StandingsEntry, error)
	SwissPairings(ctx context.Context) ([]models.Pairing, error)
	ArchiveRound(ctx context.Context) (*RoundArchive, error)
}

type tournamentService struct {
	repo      repositories.TournamentRepository
	strategy  models.PairingStrategy
	publisher EventPublisher
	archive   *RoundArchiver
	logger    *slog.Logger
}

// NewTournamentService wires the store and the optional collaborators.
// publisher and archiver may be nil.
func NewTournamentService(
	repo repositories.TournamentRepository,
	strategy models.PairingStrategy,
	publisher EventPublisher,
	archiver *RoundArchiver,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:      repo,
		strategy:  strategy,
		publisher: publisher,
		archive:   archiver,
		logger:    logger,
	}
}

func (s *tournamentService) RegisterPlayer(ctx context.Context, name string) (*models.Player, error) {
	player, err := s.repo.RegisterPlayer(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to register player %q: %w", name, err)
	}
	s.logger.Info("player registered", slog.Int("player_id", player.ID), slog.String("name", player.Name))
	s.publish(ctx, brackets.EventPlayerRegistered)
	return player, nil
}

func (s *tournamentService) CountPlayers(ctx context.Context) (int, error) {
	n, err := s.repo.CountPlayers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return n, nil
}

func (s *tournamentService) ClearPlayers(ctx context.Context) error {
	if err := s.repo.ClearPlayers(ctx); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}
	s.logger.Info("all players cleared")
	s.publish(ctx, brackets.EventPlayersCleared)
	return nil
}

// RecordMatch does not check that the ids differ or exist; the store rejects
// unknown ids.
func (s *tournamentService) RecordMatch(ctx context.Context, winnerID, loserID int) (*models.Match, error) {
	match, err := s.repo.RecordMatch(ctx, winnerID, loserID)
	if err != nil {
		return nil, fmt.Errorf("failed to record match %d beat %d: %w", winnerID, loserID, err)
	}
	s.logger.Info("match recorded",
		slog.Int("match_id", match.ID),
		slog.Int("winner_id", winnerID),
		slog.Int("loser_id", loserID),
	)
	s.publish(ctx, brackets.EventMatchRecorded)
	return match, nil
}

func (s *tournamentService) ListMatches(ctx context.Context) ([]models.Match, error) {
	matches, err := s.repo.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *tournamentService) ClearMatches(ctx context.Context) error {
	if err := s.repo.ClearMatches(ctx); err != nil {
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	s.logger.Info("all matches cleared")
	s.publish(ctx, brackets.EventMatchesCleared)
	return nil
}

func (s *tournamentService) Standings(ctx context.Context) ([]models.StandingsEntry, error) {
	standings, err := s.repo.Standings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	return standings, nil
}

// SwissPairings reads the current standings and pairs them with the
// configured strategy. Players the strategy cannot pair are not an error;
// their count is logged.
func (s *tournamentService) SwissPairings(ctx context.Context) ([]models.Pairing, error) {
	standings, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return s.pair(standings)
}

func (s *tournamentService) pair(standings []models.StandingsEntry) ([]models.Pairing, error) {
	pairings, err := brackets.Pair(s.strategy, standings)
	if err != nil {
		return nil, fmt.Errorf("failed to generate pairings: %w", err)
	}
	if unpaired := len(standings) - 2*len(pairings); unpaired > 0 {
		s.logger.Warn("players left unpaired this round",
			slog.String("strategy", string(s.strategy)),
			slog.Int("players", len(standings)),
			slog.Int("unpaired", unpaired),
		)
	}
	return pairings, nil
}

// publish pushes fresh standings to subscribers. Failures are logged only.
func (s *tournamentService) publish(ctx context.Context, eventType string) {
	if s.publisher == nil {
		return
	}
	standings, err := s.repo.Standings(ctx)
	if err != nil {
		s.logger.Warn("skipping event, standings unavailable", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	s.publisher.Publish(eventType, standings)
}
