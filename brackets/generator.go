package brackets

import (
	"fmt"

	"github.com/Dosada05/swiss-tournament/models"
)

// Competitor is a ranked item the generators can pair.
type Competitor interface {
	PlayerID() int
	PlayerName() string
}

// ScoredCompetitor additionally exposes the value it was ranked by.
type ScoredCompetitor interface {
	Competitor
	Score() int
}

// Pair dispatches to the generator selected by strategy. ranked must already
// be ordered by the caller's ranking criterion.
func Pair[T ScoredCompetitor](strategy models.PairingStrategy, ranked []T) ([]models.Pairing, error) {
	switch strategy {
	case models.PairingAdjacent, "":
		return AdjacentPairings(ranked), nil
	case models.PairingScoreGroup:
		return ScoreGroupPairings(ranked), nil
	default:
		return nil, fmt.Errorf("unsupported pairing strategy '%s'", strategy)
	}
}
