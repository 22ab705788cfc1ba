package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/user"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

const testJobToken = "job-secret"

type stubVerifier map[string]string

func (v stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	userID, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: userID}, nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	leagues := memory.NewLeagueRepository(memory.SeedLeagues())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	players := memory.NewPlayerRepository(memory.SeedPlayers())
	squads := memory.NewSquadRepository()
	transfers := memory.NewTransferRepository()
	rules := fantasy.DefaultRules()
	logger := logging.NewNop()

	handler := NewHandler(HandlerDeps{
		LeagueService: usecase.NewLeagueService(leagues, teams),
		PlayerService: usecase.NewPlayerService(leagues, players),
		SquadService:  usecase.NewSquadService(leagues, players, squads, rules, idgen.NewUUIDGenerator(), logger),
		TransferService: usecase.NewTransferService(
			leagues, players, squads, transfers, rules,
			idgen.NewULIDGenerator(), idgen.NewULIDGenerator(),
			usecase.TransferServiceConfig{}, logger,
		),
		GameweekService: usecase.NewGameweekService(leagues, squads, rules, 2, logger),
		Logger:          logger,
	})

	return NewRouter(handler, stubVerifier{"token-alice": "user-alice"}, logger, RouterConfig{
		InternalJobToken: testJobToken,
	})
}

func doRequest(t *testing.T, router http.Handler, method, target, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func demoSquadBody() string {
	ids := make([]string, 0, len(memory.DemoSquadPlayerIDs))
	for _, id := range memory.DemoSquadPlayerIDs {
		ids = append(ids, `"`+id+`"`)
	}
	return fmt.Sprintf(`{"league_id":%q,"squad_name":"Garuda FC","player_ids":[%s],"captain_id":"idn-fwd-01","vice_captain_id":"idn-mid-02"}`,
		memory.LeagueIDLiga1Indonesia, strings.Join(ids, ","))
}

func errorReason(env envelope) string {
	if env.Error == nil || len(env.Error.Errors) == 0 {
		return ""
	}
	return env.Error.Errors[0].Reason
}

func TestHealthz(t *testing.T) {
	rec, env := doRequest(t, newTestRouter(t), http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", env.Data["status"])
}

func TestDocsRoutesOnlyWhenEnabled(t *testing.T) {
	rec, _ := doRequest(t, newTestRouter(t), http.MethodGet, "/openapi.yaml", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	h := &Handler{}
	rec = httptest.NewRecorder()
	h.OpenAPI(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "openapi: 3.0.3"))

	rec = httptest.NewRecorder()
	h.SwaggerUI(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	require.Contains(t, rec.Body.String(), "url: '/openapi.yaml'")
}

func TestListPlayersAppliesFilter(t *testing.T) {
	router := newTestRouter(t)
	target := "/v1/leagues/" + memory.LeagueIDLiga1Indonesia + "/players?position=GK&max_price=45&sort=price&order=asc"

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []playerDTO `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)
	for _, item := range body.Data {
		require.Equal(t, "GK", item.Position)
		require.LessOrEqual(t, item.Price, 4.5)
		require.NotEqual(t, item.TeamID, item.Club, "club should resolve to the team name")
	}
}

func TestListPlayersRejectsBadOrder(t *testing.T) {
	rec, env := doRequest(t, newTestRouter(t), http.MethodGet,
		"/v1/leagues/"+memory.LeagueIDLiga1Indonesia+"/players?order=sideways", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalidInput", errorReason(env))
}

func TestSquadRoutesRequireBearerToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doRequest(t, router, http.MethodGet, "/v1/fantasy/squads/me?league_id="+memory.LeagueIDLiga1Indonesia, "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/fantasy/squads/me?league_id="+memory.LeagueIDLiga1Indonesia, "wrong", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpsertSquadThenStatus(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/v1/fantasy/squads", "token-alice", demoSquadBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "user-alice", env.Data["user_id"])
	require.EqualValues(t, 915, env.Data["total_cost"])
	require.EqualValues(t, 85, env.Data["remaining"])

	rec, env = doRequest(t, router, http.MethodGet, "/v1/fantasy/squads/me/status?league_id="+memory.LeagueIDLiga1Indonesia, "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, env.Data["composition_complete"])
	require.Equal(t, true, env.Data["complete"])
	require.EqualValues(t, 15, env.Data["player_count"])
}

func TestUpsertSquadRejectsUnknownFields(t *testing.T) {
	body := fmt.Sprintf(`{"league_id":%q,"player_ids":["idn-gk-01"],"formation":"4-4-2"}`, memory.LeagueIDLiga1Indonesia)
	rec, env := doRequest(t, newTestRouter(t), http.MethodPost, "/v1/fantasy/squads", "token-alice", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "INVALID_ARGUMENT", env.Error.Status)
}

func TestUpsertIncompleteSquadMapsToUnprocessable(t *testing.T) {
	body := fmt.Sprintf(`{"league_id":%q,"squad_name":"Half","player_ids":["idn-gk-01","idn-def-01"]}`, memory.LeagueIDLiga1Indonesia)
	rec, env := doRequest(t, newTestRouter(t), http.MethodPost, "/v1/fantasy/squads", "token-alice", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "invalidSquadSize", errorReason(env))
}

func TestAddPlayerClubLimitIsRejectedWithReason(t *testing.T) {
	router := newTestRouter(t)

	for _, id := range []string{"idn-gk-01", "idn-def-01", "idn-fwd-01"} {
		body := fmt.Sprintf(`{"league_id":%q,"player_id":%q}`, memory.LeagueIDLiga1Indonesia, id)
		rec, _ := doRequest(t, router, http.MethodPost, "/v1/fantasy/squads/me/players", "token-alice", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	body := fmt.Sprintf(`{"league_id":%q,"player_id":"idn-mid-01"}`, memory.LeagueIDLiga1Indonesia)

	rec, env := doRequest(t, router, http.MethodPost, "/v1/fantasy/squads/me/players/preview", "token-alice", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, env.Data["allowed"])
	require.Equal(t, "clubLimitExceeded", env.Data["reason"])

	rec, env = doRequest(t, router, http.MethodPost, "/v1/fantasy/squads/me/players", "token-alice", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "clubLimitExceeded", errorReason(env))
	require.Equal(t, "FAILED_PRECONDITION", env.Error.Status)
}

func TestRemovePlayerAndCaptaincy(t *testing.T) {
	router := newTestRouter(t)
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/fantasy/squads", "token-alice", demoSquadBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, router, http.MethodDelete,
		"/v1/fantasy/squads/me/players/idn-fwd-01?league_id="+memory.LeagueIDLiga1Indonesia, "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, env.Data["captain_id"], "removing the captain clears the role")

	body := fmt.Sprintf(`{"league_id":%q,"player_id":"idn-fwd-01"}`, memory.LeagueIDLiga1Indonesia)
	rec, env = doRequest(t, router, http.MethodPut, "/v1/fantasy/squads/me/captain", "token-alice", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "notInSquad", errorReason(env))

	body = fmt.Sprintf(`{"league_id":%q,"player_id":"idn-fwd-05"}`, memory.LeagueIDLiga1Indonesia)
	rec, env = doRequest(t, router, http.MethodPut, "/v1/fantasy/squads/me/captain", "token-alice", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "idn-fwd-05", env.Data["captain_id"])
}

func TestTransferSessionFlow(t *testing.T) {
	router := newTestRouter(t)
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/fantasy/squads", "token-alice", demoSquadBody())
	require.Equal(t, http.StatusOK, rec.Code)

	league := fmt.Sprintf(`{"league_id":%q}`, memory.LeagueIDLiga1Indonesia)
	rec, env := doRequest(t, router, http.MethodPost, "/v1/fantasy/transfers/session", "token-alice", league)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 85, env.Data["remaining"])

	out := fmt.Sprintf(`{"league_id":%q,"player_id":"idn-fwd-07"}`, memory.LeagueIDLiga1Indonesia)
	rec, env = doRequest(t, router, http.MethodPost, "/v1/fantasy/transfers/session/out", "token-alice", out)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 170, env.Data["remaining"])

	in := fmt.Sprintf(`{"league_id":%q,"player_id":"idn-fwd-08"}`, memory.LeagueIDLiga1Indonesia)
	rec, _ = doRequest(t, router, http.MethodPost, "/v1/fantasy/transfers/session/in", "token-alice", in)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = doRequest(t, router, http.MethodPost, "/v1/fantasy/transfers/session/commit", "token-alice", league)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	squad, ok := env.Data["squad"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 2, squad["version"])

	rec, _ = doRequest(t, router, http.MethodGet, "/v1/fantasy/transfers/session?league_id="+memory.LeagueIDLiga1Indonesia, "token-alice", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInternalJobsRequireToken(t *testing.T) {
	router := newTestRouter(t)
	body := fmt.Sprintf(`{"league_id":%q,"gameweek":1}`, memory.LeagueIDLiga1Indonesia)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/gameweek-rollover", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/gameweek-rollover", strings.NewReader(body))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/catalog-sync", strings.NewReader(fmt.Sprintf(`{"league_id":%q}`, memory.LeagueIDLiga1Indonesia)))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
