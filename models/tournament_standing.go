package models

// StandingsEntry is a read-only row of the standings projection.
type StandingsEntry struct {
	ID            int    `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Wins          int    `json:"wins" db:"wins"`
	MatchesPlayed int    `json:"matches_played" db:"matches_played"`
}

func (e StandingsEntry) PlayerID() int      { return e.ID }
func (e StandingsEntry) PlayerName() string { return e.Name }
func (e StandingsEntry) Score() int         { return e.Wins }
