package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"party_trials/internal/domain"
	"party_trials/internal/game"
)

// TournamentRepository stores finished tournaments.
type TournamentRepository struct {
	db *pgxpool.Pool
}

func NewTournamentRepository(db *pgxpool.Pool) *TournamentRepository {
	return &TournamentRepository{db: db}
}

// SaveTournament inserts one finished tournament.
func (r *TournamentRepository) SaveTournament(ctx context.Context, rec *domain.TournamentRecord) error {
	standingsJSON, err := json.Marshal(rec.Standings)
	if err != nil {
		standingsJSON = []byte("[]")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO tournaments
			(room_id, winner_id, winner_name, total_points, players, standings)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		rec.RoomID,
		rec.WinnerID,
		rec.WinnerName,
		rec.TotalPoints,
		rec.Players,
		standingsJSON,
	).Scan(&rec.ID, &rec.CreatedAt)
}

// ListRecent returns the most recent finished tournaments.
func (r *TournamentRepository) ListRecent(ctx context.Context, limit int) ([]*domain.TournamentRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, winner_id, winner_name, total_points, players, standings, created_at
		 FROM tournaments
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.TournamentRecord
	for rows.Next() {
		rec := &domain.TournamentRecord{}
		var standingsJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.RoomID, &rec.WinnerID, &rec.WinnerName,
			&rec.TotalPoints, &rec.Players, &standingsJSON, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(standingsJSON) > 0 {
			var standings []game.Standing
			if err := json.Unmarshal(standingsJSON, &standings); err == nil {
				rec.Standings = standings
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
