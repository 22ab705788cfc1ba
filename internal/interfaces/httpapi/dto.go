package httpapi

import (
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

type upsertSquadRequest struct {
	LeagueID      string   `json:"league_id" validate:"required"`
	SquadName     string   `json:"squad_name" validate:"omitempty,max=100"`
	PlayerIDs     []string `json:"player_ids" validate:"required,min=1,dive,required"`
	CaptainID     string   `json:"captain_id"`
	ViceCaptainID string   `json:"vice_captain_id"`
}

type squadPlayerRequest struct {
	LeagueID  string `json:"league_id" validate:"required"`
	PlayerID  string `json:"player_id" validate:"required"`
	SquadName string `json:"squad_name" validate:"omitempty,max=100"`
}

type squadRoleRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

type transferSessionRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

type transferPlayerRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
	PlayerID string `json:"player_id" validate:"required"`
}

type gameweekJobRequest struct {
	LeagueID   string `json:"league_id" validate:"required"`
	Gameweek   int    `json:"gameweek" validate:"required,gt=0"`
	MaxWorkers int    `json:"max_workers" validate:"gte=0,lte=64"`
}

type catalogSyncJobRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

type leagueDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CountryCode     string `json:"countryCode"`
	Season          string `json:"season"`
	IsDefault       bool   `json:"isDefault"`
	CurrentGameweek int    `json:"currentGameweek"`
}

type teamDTO struct {
	ID       string `json:"id"`
	LeagueID string `json:"leagueId"`
	Name     string `json:"name"`
	Short    string `json:"short"`
}

type playerDTO struct {
	ID           string  `json:"id"`
	LeagueID     string  `json:"leagueId"`
	TeamID       string  `json:"teamId"`
	Club         string  `json:"club"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	Price        float64 `json:"price"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Form         float64 `json:"form"`
	TotalPoints  int     `json:"totalPoints"`
	OwnershipPct float64 `json:"ownershipPct"`
	TransfersIn  int64   `json:"transfersIn"`
	TransfersOut int64   `json:"transfersOut"`
}

type squadDTO struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	LeagueID      string         `json:"league_id"`
	Name          string         `json:"name"`
	BudgetCap     int64          `json:"budget_cap"`
	TotalCost     int64          `json:"total_cost"`
	Remaining     int64          `json:"remaining"`
	CaptainID     string         `json:"captain_id,omitempty"`
	ViceCaptainID string         `json:"vice_captain_id,omitempty"`
	FreeTransfers int            `json:"free_transfers"`
	Version       int64          `json:"version"`
	Picks         []squadPickDTO `json:"picks"`
	CreatedAtUTC  string         `json:"created_at_utc"`
	UpdatedAtUTC  string         `json:"updated_at_utc"`
}

type squadPickDTO struct {
	PlayerID string `json:"player_id"`
	TeamID   string `json:"team_id"`
	Position string `json:"position"`
	Price    int64  `json:"price"`
}

type squadStatusDTO struct {
	Squad               squadDTO            `json:"squad"`
	Spent               int64               `json:"spent"`
	Remaining           int64               `json:"remaining"`
	PlayerCount         int                 `json:"player_count"`
	SquadSize           int                 `json:"squad_size"`
	Positions           []positionStatusDTO `json:"positions"`
	CompositionComplete bool                `json:"composition_complete"`
	Complete            bool                `json:"complete"`
	Warnings            []string            `json:"warnings"`
}

type positionStatusDTO struct {
	Position string `json:"position"`
	Count    int    `json:"count"`
	Quota    int    `json:"quota"`
}

type decisionDTO struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type transferSessionDTO struct {
	ID            string         `json:"id"`
	SquadID       string         `json:"squad_id"`
	State         string         `json:"state"`
	PlannedOut    []string       `json:"planned_out"`
	PlannedIn     []squadPickDTO `json:"planned_in"`
	FreeTransfers int            `json:"free_transfers"`
	PointCost     int            `json:"point_cost"`
	Remaining     int64          `json:"remaining"`
	OpenedAtUTC   string         `json:"opened_at_utc"`
	Released      []string       `json:"released,omitempty"`
}

type transferRecordDTO struct {
	ID                string   `json:"id"`
	Gameweek          int      `json:"gameweek"`
	OutPlayerIDs      []string `json:"out_player_ids"`
	InPlayerIDs       []string `json:"in_player_ids"`
	FreeTransfersUsed int      `json:"free_transfers_used"`
	PointCost         int      `json:"point_cost"`
	CreatedAtUTC      string   `json:"created_at_utc"`
}

type transferCommitDTO struct {
	Squad  squadDTO          `json:"squad"`
	Record transferRecordDTO `json:"record"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:              v.ID,
		Name:            v.Name,
		CountryCode:     v.CountryCode,
		Season:          v.Season,
		IsDefault:       v.IsDefault,
		CurrentGameweek: v.CurrentGameweek,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:       v.ID,
		LeagueID: v.LeagueID,
		Name:     v.Name,
		Short:    v.Short,
	}
}

// playerToDTO exposes price in currency-millions; everything else in the
// API keeps tenths.
func playerToDTO(v player.Player, teamName string) playerDTO {
	if teamName == "" {
		teamName = v.TeamID
	}

	return playerDTO{
		ID:           v.ID,
		LeagueID:     v.LeagueID,
		TeamID:       v.TeamID,
		Club:         teamName,
		Name:         v.Name,
		Position:     string(v.Position),
		Price:        float64(v.Price) / 10.0,
		ImageURL:     v.ImageURL,
		Form:         v.Form,
		TotalPoints:  v.TotalPoints,
		OwnershipPct: v.OwnershipPct,
		TransfersIn:  v.TransfersIn,
		TransfersOut: v.TransfersOut,
	}
}

func picksToDTO(picks []fantasy.SquadPick) []squadPickDTO {
	out := make([]squadPickDTO, 0, len(picks))
	for _, pick := range picks {
		out = append(out, squadPickDTO{
			PlayerID: pick.PlayerID,
			TeamID:   pick.TeamID,
			Position: string(pick.Position),
			Price:    pick.Price,
		})
	}
	return out
}

func squadToDTO(v fantasy.Squad) squadDTO {
	return squadDTO{
		ID:            v.ID,
		UserID:        v.UserID,
		LeagueID:      v.LeagueID,
		Name:          v.Name,
		BudgetCap:     v.BudgetCap,
		TotalCost:     v.Spent(),
		Remaining:     v.Remaining(),
		CaptainID:     v.CaptainID,
		ViceCaptainID: v.ViceCaptainID,
		FreeTransfers: v.FreeTransfers,
		Version:       v.Version,
		Picks:         picksToDTO(v.Picks),
		CreatedAtUTC:  formatTime(v.CreatedAt),
		UpdatedAtUTC:  formatTime(v.UpdatedAt),
	}
}

func squadStatusToDTO(v usecase.SquadStatus) squadStatusDTO {
	positions := make([]positionStatusDTO, 0, len(v.Status.Positions))
	for _, p := range v.Status.Positions {
		positions = append(positions, positionStatusDTO{
			Position: string(p.Position),
			Count:    p.Count,
			Quota:    p.Quota,
		})
	}
	warnings := v.Status.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return squadStatusDTO{
		Squad:               squadToDTO(v.Squad),
		Spent:               v.Status.Spent,
		Remaining:           v.Status.Remaining,
		PlayerCount:         v.Status.PlayerCount,
		SquadSize:           v.Status.SquadSize,
		Positions:           positions,
		CompositionComplete: v.Status.CompositionComplete,
		Complete:            v.Status.Complete,
		Warnings:            warnings,
	}
}

func decisionToDTO(v fantasy.Decision) decisionDTO {
	if v.Allowed {
		return decisionDTO{Allowed: true}
	}
	return decisionDTO{
		Reason:  reasonToAPI(v.Reason),
		Message: v.Message,
	}
}

func transferSessionToDTO(v usecase.TransferSessionView) transferSessionDTO {
	plannedOut := v.PlannedOut
	if plannedOut == nil {
		plannedOut = []string{}
	}

	return transferSessionDTO{
		ID:            v.ID,
		SquadID:       v.SquadID,
		State:         string(v.State),
		PlannedOut:    plannedOut,
		PlannedIn:     picksToDTO(v.PlannedIn),
		FreeTransfers: v.FreeTransfers,
		PointCost:     v.PointCost,
		Remaining:     v.Remaining,
		OpenedAtUTC:   formatTime(v.OpenedAt),
		Released:      v.Released,
	}
}

func transferCommitToDTO(v usecase.TransferCommitResult) transferCommitDTO {
	return transferCommitDTO{
		Squad: squadToDTO(v.Squad),
		Record: transferRecordDTO{
			ID:                v.Record.ID,
			Gameweek:          v.Record.Gameweek,
			OutPlayerIDs:      v.Record.OutPlayerIDs,
			InPlayerIDs:       v.Record.InPlayerIDs,
			FreeTransfersUsed: v.Record.FreeTransfersUsed,
			PointCost:         v.Record.PointCost,
			CreatedAtUTC:      formatTime(v.Record.CreatedAt),
		},
	}
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
