package brackets

import (
	"github.com/Dosada05/swiss-tournament/models"
)

// AdjacentPairings pairs ranked[i] with ranked[i+1] for i = 0, 2, 4, ...
// A trailing unpaired item is dropped, so exactly len(ranked)/2 pairings are
// returned in ranking order.
func AdjacentPairings[T Competitor](ranked []T) []models.Pairing {
	pairings := make([]models.Pairing, 0, len(ranked)/2)
	for i := 0; i+1 < len(ranked); i += 2 {
		p1, p2 := ranked[i], ranked[i+1]
		pairings = append(pairings, models.Pairing{
			ID1:   p1.PlayerID(),
			Name1: p1.PlayerName(),
			ID2:   p2.PlayerID(),
			Name2: p2.PlayerName(),
		})
	}
	return pairings
}

// ScoreGroupPairings splits ranked into runs of equal score and pairs by
// adjacency inside each run. The odd member of a run is dropped; it is never
// carried down into the next group.
func ScoreGroupPairings[T ScoredCompetitor](ranked []T) []models.Pairing {
	pairings := make([]models.Pairing, 0, len(ranked)/2)
	for start := 0; start < len(ranked); {
		end := start + 1
		for end < len(ranked) && ranked[end].Score() == ranked[start].Score() {
			end++
		}
		pairings = append(pairings, AdjacentPairings(ranked[start:end])...)
		start = end
	}
	return pairings
}
