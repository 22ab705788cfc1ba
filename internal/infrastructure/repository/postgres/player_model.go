package postgres

import (
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

type playerTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	LeagueID     string     `db:"league_public_id"`
	TeamID       string     `db:"team_public_id"`
	Name         string     `db:"name"`
	Position     string     `db:"position"`
	Price        int64      `db:"price"`
	IsActive     bool       `db:"is_active"`
	ImageURL     string     `db:"image_url"`
	Form         float64    `db:"form"`
	TotalPoints  int        `db:"total_points"`
	OwnershipPct float64    `db:"ownership_pct"`
	TransfersIn  int64      `db:"transfers_in"`
	TransfersOut int64      `db:"transfers_out"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID     string  `db:"public_id"`
	LeagueID     string  `db:"league_public_id"`
	TeamID       string  `db:"team_public_id"`
	Name         string  `db:"name"`
	Position     string  `db:"position"`
	Price        int64   `db:"price"`
	IsActive     bool    `db:"is_active"`
	ImageURL     string  `db:"image_url"`
	Form         float64 `db:"form"`
	TotalPoints  int     `db:"total_points"`
	OwnershipPct float64 `db:"ownership_pct"`
	TransfersIn  int64   `db:"transfers_in"`
	TransfersOut int64   `db:"transfers_out"`
}

func (row playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:           row.PublicID,
		LeagueID:     row.LeagueID,
		TeamID:       row.TeamID,
		Name:         row.Name,
		Position:     player.Position(row.Position),
		Price:        row.Price,
		ImageURL:     row.ImageURL,
		Form:         row.Form,
		TotalPoints:  row.TotalPoints,
		OwnershipPct: row.OwnershipPct,
		TransfersIn:  row.TransfersIn,
		TransfersOut: row.TransfersOut,
	}
}

func playerInsertFromDomain(p player.Player) playerInsertModel {
	return playerInsertModel{
		PublicID:     p.ID,
		LeagueID:     p.LeagueID,
		TeamID:       p.TeamID,
		Name:         p.Name,
		Position:     string(p.Position),
		Price:        p.Price,
		IsActive:     true,
		ImageURL:     p.ImageURL,
		Form:         p.Form,
		TotalPoints:  p.TotalPoints,
		OwnershipPct: p.OwnershipPct,
		TransfersIn:  p.TransfersIn,
		TransfersOut: p.TransfersOut,
	}
}
