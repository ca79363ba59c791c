package models

// Player is a registered tournament participant. Wins changes only through
// recorded matches; MatchesPlayed is derived by the store.
type Player struct {
	ID            int    `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Wins          int    `json:"wins" db:"wins"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
}
