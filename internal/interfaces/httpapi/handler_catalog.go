package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	teams, err := h.leagueService.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// ListPlayersByLeague accepts position, team_id, max_price (tenths), sort,
// order (asc|desc) and limit query parameters.
func (h *Handler) ListPlayersByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayersByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	filter, err := parsePlayerFilter(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, leagueID, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	teamNames, err := h.teamNames(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p, teamNames[p.TeamID]))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerByLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	playerID := r.PathValue("playerID")
	item, err := h.playerService.GetPlayer(ctx, leagueID, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "league_id", leagueID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	teamNames, err := h.teamNames(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item, teamNames[item.TeamID]))
}

func (h *Handler) teamNames(ctx context.Context, leagueID string) (map[string]string, error) {
	teams, err := h.leagueService.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed while mapping players", "league_id", leagueID, "error", err)
		return nil, err
	}

	out := make(map[string]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out, nil
}

func parsePlayerFilter(query url.Values) (usecase.PlayerFilter, error) {
	filter := usecase.PlayerFilter{
		Position: strings.TrimSpace(query.Get("position")),
		TeamID:   strings.TrimSpace(query.Get("team_id")),
		SortBy:   usecase.PlayerSort(strings.TrimSpace(query.Get("sort"))),
	}

	switch strings.ToLower(strings.TrimSpace(query.Get("order"))) {
	case "", "desc":
	case "asc":
		filter.Ascending = true
	default:
		return usecase.PlayerFilter{}, fmt.Errorf("%w: order must be asc or desc", usecase.ErrInvalidInput)
	}

	if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return usecase.PlayerFilter{}, fmt.Errorf("%w: invalid max_price %q", usecase.ErrInvalidInput, raw)
		}
		filter.MaxPrice = value
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.PlayerFilter{}, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw)
		}
		filter.Limit = value
	}

	return filter, nil
}
