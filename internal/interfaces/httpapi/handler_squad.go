package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) UpsertSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertSquad")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req upsertSquadRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.UpsertSquad(ctx, usecase.UpsertSquadInput{
		UserID:        principal.UserID,
		LeagueID:      req.LeagueID,
		Name:          req.SquadName,
		PlayerIDs:     req.PlayerIDs,
		CaptainID:     req.CaptainID,
		ViceCaptainID: req.ViceCaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert squad failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}
	leagueID, err := h.queryLeagueID(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.GetUserSquad(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) GetMySquadStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquadStatus")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}
	leagueID, err := h.queryLeagueID(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.squadService.GetSquadStatus(ctx, principal.UserID, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadStatusToDTO(status))
}

// PreviewAddPlayer always answers 200; a rejection is part of the payload.
func (h *Handler) PreviewAddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewAddPlayer")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req squadPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	decision, err := h.squadService.PreviewAddPlayer(ctx, usecase.SquadPlayerInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, decisionToDTO(decision))
}

func (h *Handler) AddPlayerToMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerToMySquad")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req squadPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.squadService.AddPlayerToSquad(ctx, usecase.SquadPlayerInput{
		UserID:    principal.UserID,
		LeagueID:  req.LeagueID,
		PlayerID:  req.PlayerID,
		SquadName: req.SquadName,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add player to squad failed",
			"user_id", principal.UserID,
			"league_id", req.LeagueID,
			"player_id", req.PlayerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) RemovePlayerFromMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayerFromMySquad")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}
	leagueID, err := h.queryLeagueID(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	squad, err := h.squadService.RemovePlayerFromSquad(ctx, usecase.SquadPlayerInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		PlayerID: playerID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "remove player from squad failed",
			"user_id", principal.UserID,
			"league_id", leagueID,
			"player_id", playerID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) SetMyCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMyCaptain")
	defer span.End()

	h.assignRole(w, r.WithContext(ctx), h.squadService.SetCaptain)
}

func (h *Handler) SetMyViceCaptain(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMyViceCaptain")
	defer span.End()

	h.assignRole(w, r.WithContext(ctx), h.squadService.SetViceCaptain)
}

func (h *Handler) assignRole(
	w http.ResponseWriter,
	r *http.Request,
	assign func(ctx context.Context, input usecase.SquadPlayerInput) (fantasy.Squad, error),
) {
	ctx := r.Context()
	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req squadRoleRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := assign(ctx, usecase.SquadPlayerInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}
