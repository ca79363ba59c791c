package brackets

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

// RankStandings orders entries by wins descending. The sort is stable, so
// callers that pass entries in registration order keep that order on ties.
func RankStandings(entries []models.StandingsEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Wins > entries[j].Wins
	})
}
