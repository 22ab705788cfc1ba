package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) OpenTransferSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenTransferSession")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req transferSessionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.transferService.OpenSession(ctx, usecase.TransferSessionInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "open transfer session failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferSessionToDTO(view))
}

func (h *Handler) GetTransferSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransferSession")
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

	view, err := h.transferService.GetSession(ctx, usecase.TransferSessionInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferSessionToDTO(view))
}

func (h *Handler) MarkTransferOut(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkTransferOut")
	defer span.End()

	h.changeSession(w, r.WithContext(ctx), h.transferService.MarkOut)
}

func (h *Handler) MarkTransferIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkTransferIn")
	defer span.End()

	h.changeSession(w, r.WithContext(ctx), h.transferService.MarkIn)
}

func (h *Handler) CancelTransferIn(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelTransferIn")
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

	view, err := h.transferService.CancelIn(ctx, usecase.TransferPlayerInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		PlayerID: strings.TrimSpace(r.PathValue("playerID")),
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferSessionToDTO(view))
}

func (h *Handler) CommitTransferSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CommitTransferSession")
	defer span.End()

	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req transferSessionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.transferService.Commit(ctx, usecase.TransferSessionInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "commit transfer session failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferCommitToDTO(result))
}

func (h *Handler) DiscardTransferSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DiscardTransferSession")
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

	if err := h.transferService.Discard(ctx, usecase.TransferSessionInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
	}); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]bool{"discarded": true})
}

func (h *Handler) changeSession(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, input usecase.TransferPlayerInput) (usecase.TransferSessionView, error),
) {
	ctx := r.Context()
	principal, ok := h.requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req transferPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := change(ctx, usecase.TransferPlayerInput{
		UserID:   principal.UserID,
		LeagueID: req.LeagueID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferSessionToDTO(view))
}
