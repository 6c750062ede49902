package domain

import (
	"time"

	"party_trials/internal/game"
)

// TournamentRecord is one finished tournament, stored for the history
// endpoints. Live session state is never persisted.
type TournamentRecord struct {
	ID          int64           `json:"id"`
	RoomID      string          `json:"room_id"`
	WinnerID    string          `json:"winner_id"`
	WinnerName  string          `json:"winner_name"`
	TotalPoints int             `json:"total_points"`
	Players     int             `json:"players"`
	Standings   []game.Standing `json:"standings"`
	CreatedAt   time.Time       `json:"created_at"`
}
