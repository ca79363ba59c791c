package models

// Match is an immutable result record.
type Match struct {
	ID       int `json:"id" db:"id"`
	WinnerID int `json:"winner_id" db:"winner_id"`
	LoserID  int `json:"loser_id" db:"loser_id"`
}
