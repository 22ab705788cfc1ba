package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if swaggerEnabled {
		mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
		mux.HandleFunc("GET /docs", handler.SwaggerUI)
	}
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/players", handler.ListPlayersByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/players/{playerID}", handler.GetPlayerByLeague)
}

func registerSquadRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	auth := func(fn http.HandlerFunc) http.Handler { return RequireAuth(verifier, fn) }

	mux.Handle("POST /v1/fantasy/squads", auth(handler.UpsertSquad))
	mux.Handle("GET /v1/fantasy/squads/me", auth(handler.GetMySquad))
	mux.Handle("GET /v1/fantasy/squads/me/status", auth(handler.GetMySquadStatus))
	mux.Handle("POST /v1/fantasy/squads/me/players/preview", auth(handler.PreviewAddPlayer))
	mux.Handle("POST /v1/fantasy/squads/me/players", auth(handler.AddPlayerToMySquad))
	mux.Handle("DELETE /v1/fantasy/squads/me/players/{playerID}", auth(handler.RemovePlayerFromMySquad))
	mux.Handle("PUT /v1/fantasy/squads/me/captain", auth(handler.SetMyCaptain))
	mux.Handle("PUT /v1/fantasy/squads/me/vice-captain", auth(handler.SetMyViceCaptain))
}

func registerTransferRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	auth := func(fn http.HandlerFunc) http.Handler { return RequireAuth(verifier, fn) }

	mux.Handle("POST /v1/fantasy/transfers/session", auth(handler.OpenTransferSession))
	mux.Handle("GET /v1/fantasy/transfers/session", auth(handler.GetTransferSession))
	mux.Handle("DELETE /v1/fantasy/transfers/session", auth(handler.DiscardTransferSession))
	mux.Handle("POST /v1/fantasy/transfers/session/out", auth(handler.MarkTransferOut))
	mux.Handle("POST /v1/fantasy/transfers/session/in", auth(handler.MarkTransferIn))
	mux.Handle("DELETE /v1/fantasy/transfers/session/in/{playerID}", auth(handler.CancelTransferIn))
	mux.Handle("POST /v1/fantasy/transfers/session/commit", auth(handler.CommitTransferSession))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(fn http.HandlerFunc) http.Handler { return RequireInternalJobToken(internalJobToken, fn) }

	mux.Handle("POST /v1/internal/jobs/gameweek-rollover", internal(handler.RunGameweekRolloverJob))
	mux.Handle("POST /v1/internal/jobs/catalog-sync", internal(handler.RunCatalogSyncJob))
}
