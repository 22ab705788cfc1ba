package postgres

import (
	"time"

	"github.com/lib/pq"
)

type transferTableModel struct {
	ID                int64          `db:"id"`
	PublicID          string         `db:"public_id"`
	SquadID           string         `db:"squad_public_id"`
	UserID            string         `db:"user_id"`
	LeagueID          string         `db:"league_public_id"`
	Gameweek          int            `db:"gameweek"`
	OutPlayerIDs      pq.StringArray `db:"out_player_ids"`
	InPlayerIDs       pq.StringArray `db:"in_player_ids"`
	FreeTransfersUsed int            `db:"free_transfers_used"`
	PointCost         int            `db:"point_cost"`
	CreatedAt         time.Time      `db:"created_at"`
}

type transferInsertModel struct {
	PublicID          string         `db:"public_id"`
	SquadID           string         `db:"squad_public_id"`
	UserID            string         `db:"user_id"`
	LeagueID          string         `db:"league_public_id"`
	Gameweek          int            `db:"gameweek"`
	OutPlayerIDs      pq.StringArray `db:"out_player_ids"`
	InPlayerIDs       pq.StringArray `db:"in_player_ids"`
	FreeTransfersUsed int            `db:"free_transfers_used"`
	PointCost         int            `db:"point_cost"`
	CreatedAt         time.Time      `db:"created_at"`
}
