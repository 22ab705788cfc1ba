package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if cfg.TransferSessionTTL != 30*time.Minute {
		t.Fatalf("unexpected transfer session ttl: %s", cfg.TransferSessionTTL)
	}
	if cfg.TransferSessionSweep != time.Minute {
		t.Fatalf("unexpected transfer session sweep: %s", cfg.TransferSessionSweep)
	}
	if cfg.Rules.SquadSize != 15 || cfg.Rules.BudgetCap != 1000 {
		t.Fatalf("expected default rules, got %+v", cfg.Rules)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod")
	}
	if cfg.GameweekWorkers != 8 {
		t.Fatalf("unexpected gameweek workers: %d", cfg.GameweekWorkers)
	}
}

func TestLoad_ProdDisablesSwaggerByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod")
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage driver", env: map[string]string{"STORAGE_DRIVER": "mongo"}},
		{name: "uptrace without dsn", env: map[string]string{"UPTRACE_ENABLED": "true", "UPTRACE_DSN": ""}},
		{name: "pyroscope without address", env: map[string]string{"PYROSCOPE_ENABLED": "true"}},
		{name: "catalog feed without base url", env: map[string]string{"CATALOG_FEED_ENABLED": "true"}},
		{name: "malformed league map", env: map[string]string{"CATALOG_FEED_LEAGUE_MAP": "idn-liga-1-2025"}},
		{name: "non-positive session ttl", env: map[string]string{"TRANSFER_SESSION_TTL": "0s"}},
		{name: "non-positive session sweep", env: map[string]string{"TRANSFER_SESSION_SWEEP_INTERVAL": "-1m"}},
		{name: "bad cron", env: map[string]string{"GAMEWEEK_ROLLOVER_CRON": "every tuesday"}},
		{name: "zero workers", env: map[string]string{"GAMEWEEK_WORKERS": "0"}},
		{name: "bad log level", env: map[string]string{"APP_LOG_LEVEL": "loud"}},
		{name: "missing rules file", env: map[string]string{"RULES_FILE": "/nonexistent/rules.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %v", tt.env)
			}
		})
	}
}

func TestLoad_CatalogFeedAndScheduler(t *testing.T) {
	t.Setenv("APP_ENV", EnvStage)
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("CATALOG_FEED_ENABLED", "true")
	t.Setenv("CATALOG_FEED_BASE_URL", "https://feed.example.com")
	t.Setenv("CATALOG_FEED_LEAGUE_MAP", "idn-liga-1-2025:liga1, eng-premier-league-2025:epl")
	t.Setenv("GAMEWEEK_ROLLOVER_CRON", "0 0 3 * * TUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StoragePostgres {
		t.Fatalf("unexpected storage driver: %q", cfg.StorageDriver)
	}
	if got := cfg.CatalogFeedLeagueByLeague["eng-premier-league-2025"]; got != "epl" {
		t.Fatalf("unexpected league map entry: %q", got)
	}
	if cfg.GameweekRolloverCron != "0 0 3 * * TUE" {
		t.Fatalf("unexpected cron: %q", cfg.GameweekRolloverCron)
	}
}

func TestLoad_ReadsRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("budget_cap: 1050\ntransfer_point_cost: 6\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RULES_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Rules.BudgetCap != 1050 || cfg.Rules.TransferPointCost != 6 {
		t.Fatalf("rules file not applied: %+v", cfg.Rules)
	}
	if cfg.Rules.SquadSize != 15 {
		t.Fatalf("expected untouched keys to keep defaults, got squad size %d", cfg.Rules.SquadSize)
	}
}

func TestParseRules(t *testing.T) {
	t.Run("quota override merges per position", func(t *testing.T) {
		rules, err := ParseRules([]byte(`
squad_size: 16
quota_by_position:
  DEF: 6
`))
		if err != nil {
			t.Fatalf("parse rules: %v", err)
		}
		if rules.Quota(player.PositionDefender) != 6 || rules.Quota(player.PositionGoalkeeper) != 2 {
			t.Fatalf("unexpected quotas: %+v", rules.QuotaByPosition)
		}
	})

	t.Run("inconsistent quotas are rejected", func(t *testing.T) {
		_, err := ParseRules([]byte("squad_size: 11\n"))
		if !errors.Is(err, fantasy.ErrInvalidRules) {
			t.Fatalf("expected ErrInvalidRules, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		if _, err := ParseRules([]byte("budget_cap: [")); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}

func TestParseUptraceDSNFromOTLPHeaders(t *testing.T) {
	got := parseUptraceDSNFromOTLPHeaders(`foo=bar, uptrace-dsn="https://token@api.uptrace.dev?grpc=4317"`)
	if got != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", got)
	}
	if parseUptraceDSNFromOTLPHeaders("") != "" {
		t.Fatalf("expected empty dsn")
	}
}
