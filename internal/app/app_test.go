package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		Rules:              fantasy.DefaultRules(),
		TransferSessionTTL: time.Minute,
		CORSAllowedOrigins: []string{"*"},
		GameweekWorkers:    2,
		AnubisTimeout:      time.Second,
	}
}

func TestNewWiresMemoryStack(t *testing.T) {
	app, err := New(t.Context(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	require.NotNil(t, app.Scheduler, "session sweep always runs")
	require.Nil(t, app.Services.CatalogSync)

	rec := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewBuildsSchedulerAndCatalogSync(t *testing.T) {
	cfg := memoryConfig()
	cfg.GameweekRolloverCron = "0 0 3 * * TUE"
	cfg.CatalogFeedEnabled = true
	cfg.CatalogFeedBaseURL = "http://127.0.0.1:1"
	cfg.CatalogFeedTimeout = time.Second

	app, err := New(t.Context(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	require.NotNil(t, app.Scheduler)
	require.NotNil(t, app.Services.CatalogSync)
}

func TestNewRejectsInvalidRolloverCron(t *testing.T) {
	cfg := memoryConfig()
	cfg.GameweekRolloverCron = "every tuesday"
	_, err := New(t.Context(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewRejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	_, err := New(t.Context(), cfg, nil)
	require.Error(t, err)
}
