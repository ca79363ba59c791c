package models

import "fmt"

// Pairing matches two adjacent-ranked players for the next round.
type Pairing struct {
	ID1   int    `json:"id1"`
	Name1 string `json:"name1"`
	ID2   int    `json:"id2"`
	Name2 string `json:"name2"`
}

type PairingStrategy string

const (
	// PairingAdjacent pairs by global rank adjacency: 1v2, 3v4, ...
	PairingAdjacent PairingStrategy = "adjacent"
	// PairingScoreGroup pairs by adjacency inside each group of equal wins.
	PairingScoreGroup PairingStrategy = "score_group"
)

func ParsePairingStrategy(s string) (PairingStrategy, error) {
	switch PairingStrategy(s) {
	case "", PairingAdjacent:
		return PairingAdjacent, nil
	case PairingScoreGroup:
		return PairingScoreGroup, nil
	default:
		return "", fmt.Errorf("unknown pairing strategy %q", s)
	}
}
