package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairingStrategy(t *testing.T) {
	s, err := ParsePairingStrategy("")
	require.NoError(t, err)
	assert.Equal(t, PairingAdjacent, s)

	s, err = ParsePairingStrategy("score_group")
	require.NoError(t, err)
	assert.Equal(t, PairingScoreGroup, s)

	_, err = ParsePairingStrategy("monrad")
	assert.Error(t, err)
}

func TestStandingsEntryCompetitor(t *testing.T) {
	e := StandingsEntry{ID: 3, Name: "Cid", Wins: 2, MatchesPlayed: 4}
	assert.Equal(t, 3, e.PlayerID())
	assert.Equal(t, "Cid", e.PlayerName())
	assert.Equal(t, 2, e.Score())
}
