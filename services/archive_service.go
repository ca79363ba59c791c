package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/storage"
)

// RoundArchive locates the snapshot written for one round.
type RoundArchive struct {
	Prefix       string `json:"prefix"`
	StandingsURL string `json:"standings_url"`
	PairingsURL  string `json:"pairings_url"`
}

// RoundArchiver writes standings and pairings snapshots to object storage.
type RoundArchiver struct {
	uploader storage.FileUploader
	now      func() time.Time
}

func NewRoundArchiver(uploader storage.FileUploader) *RoundArchiver {
	return &RoundArchiver{uploader: uploader, now: time.Now}
}

func (a *RoundArchiver) store(ctx context.Context, standings []models.StandingsEntry, pairings []models.Pairing) (*RoundArchive, error) {
	prefix := path.Join("rounds", a.now().UTC().Format("20060102T150405Z")+"-"+uuid.NewString())
	archive := &RoundArchive{Prefix: prefix}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := a.putJSON(gCtx, path.Join(prefix, "standings.json"), standings)
		archive.StandingsURL = url
		return err
	})
	g.Go(func() error {
		url, err := a.putJSON(gCtx, path.Join(prefix, "pairings.json"), pairings)
		archive.PairingsURL = url
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return archive, nil
}

func (a *RoundArchiver) putJSON(ctx context.Context, key string, v interface{}) (string, error) {
	body, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", key, err)
	}
	result, err := a.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}

// ArchiveRound snapshots the current standings and the pairings derived from
// that same read.
func (s *tournamentService) ArchiveRound(ctx context.Context) (*RoundArchive, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	standings, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	pairings, err := s.pair(standings)
	if err != nil {
		return nil, err
	}
	archive, err := s.archive.store(ctx, standings, pairings)
	if err != nil {
		return nil, fmt.Errorf("failed to archive round: %w", err)
	}
	s.logger.Info("round archived", slog.String("prefix", archive.Prefix), slog.Int("pairings", len(pairings)))
	return archive, nil
}
