package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) RunGameweekRolloverJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunGameweekRolloverJob")
	defer span.End()

	if h.gameweekService == nil {
		writeError(ctx, w, fmt.Errorf("%w: gameweek service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req gameweekJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.gameweekService.StartGameweek(ctx, usecase.StartGameweekInput{
		LeagueID:   req.LeagueID,
		Gameweek:   req.Gameweek,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "gameweek rollover job failed", "league_id", req.LeagueID, "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunCatalogSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCatalogSyncJob")
	defer span.End()

	if h.catalogSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: catalog sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req catalogSyncJobRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.catalogSyncService.Sync(ctx, req.LeagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "catalog sync job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
