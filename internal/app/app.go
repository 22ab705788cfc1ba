package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/fantasy-squad/external/anubis"
	"github.com/riskibarqy/fantasy-squad/external/catalogfeed"
	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/catalog"
	cacherepo "github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-squad/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-squad/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-squad/internal/scheduler"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

// App is the assembled service: an HTTP server, an optional rollover
// scheduler and whatever storage handles must be released on shutdown.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler
	Services  Services

	closers []func() error
}

type Services struct {
	League      *usecase.LeagueService
	Player      *usecase.PlayerService
	Squad       *usecase.SquadService
	Transfer    *usecase.TransferService
	Gameweek    *usecase.GameweekService
	CatalogSync *usecase.CatalogSyncService
}

type repositories struct {
	leagues     league.Repository
	teams       team.Repository
	players     player.Repository
	squads      fantasy.Repository
	transfers   fantasy.TransferRepository
	invalidator usecase.CatalogInvalidator
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{}
	repos, err := app.openRepositories(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Services = newServices(cfg, repos, logger)

	app.Scheduler, err = newScheduler(cfg, repos, app.Services, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	verifier := anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     tracedHTTPClient(cfg.AnubisTimeout),
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		CacheTTL:       tokenCacheTTL(cfg),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(httpapi.HandlerDeps{
		LeagueService:      app.Services.League,
		PlayerService:      app.Services.Player,
		SquadService:       app.Services.Squad,
		TransferService:    app.Services.Transfer,
		GameweekService:    app.Services.Gameweek,
		CatalogSyncService: app.Services.CatalogSync,
		Logger:             logger,
	})
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

func newScheduler(cfg config.Config, repos repositories, services Services, logger *logging.Logger) (*scheduler.Scheduler, error) {
	s := scheduler.New(logger)

	sweep := cfg.TransferSessionSweep
	if sweep <= 0 {
		sweep = time.Minute
	}
	if err := s.AddSessionSweep(sweep, services.Transfer); err != nil {
		return nil, err
	}

	if cfg.GameweekRolloverCron != "" {
		if err := s.AddGameweekRollover(cfg.GameweekRolloverCron, repos.leagues, services.Gameweek); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Close releases storage handles in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := OpenDB(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		a.closers = append(a.closers, db.Close)

		if cfg.AppEnv == config.EnvDev {
			if err := postgres.BootstrapSeed(ctx, db); err != nil {
				return repositories{}, fmt.Errorf("seed catalog: %w", err)
			}
		}

		repos = repositories{
			leagues:   postgres.NewLeagueRepository(db),
			teams:     postgres.NewTeamRepository(db),
			players:   postgres.NewPlayerRepository(db),
			squads:    postgres.NewSquadRepository(db),
			transfers: postgres.NewTransferRepository(db),
		}
	default:
		repos = repositories{
			leagues:   memory.NewLeagueRepository(memory.SeedLeagues()),
			teams:     memory.NewTeamRepository(memory.SeedTeams()),
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			squads:    memory.NewSquadRepository(),
			transfers: memory.NewTransferRepository(),
		}
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore[any](cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.players = cacherepo.NewPlayerRepository(repos.players, store)
		repos.invalidator = cacherepo.NewInvalidator(store)
	}

	logger.Info("storage ready", "driver", cfg.StorageDriver, "cache_enabled", cfg.CacheEnabled)
	return repos, nil
}

func newServices(cfg config.Config, repos repositories, logger *logging.Logger) Services {
	rules := cfg.Rules
	if rules.SquadSize == 0 {
		rules = fantasy.DefaultRules()
	}

	services := Services{
		League: usecase.NewLeagueService(repos.leagues, repos.teams),
		Player: usecase.NewPlayerService(repos.leagues, repos.players),
		Squad: usecase.NewSquadService(
			repos.leagues, repos.players, repos.squads, rules,
			idgen.NewUUIDGenerator(), logger,
		),
		Transfer: usecase.NewTransferService(
			repos.leagues, repos.players, repos.squads, repos.transfers, rules,
			idgen.NewULIDGenerator(), idgen.NewULIDGenerator(),
			usecase.TransferServiceConfig{SessionTTL: cfg.TransferSessionTTL},
			logger,
		),
		Gameweek: usecase.NewGameweekService(repos.leagues, repos.squads, rules, cfg.GameweekWorkers, logger),
	}

	if cfg.CatalogFeedEnabled {
		feed := catalogfeed.NewClient(catalogfeed.ClientConfig{
			HTTPClient: tracedHTTPClient(cfg.CatalogFeedTimeout),
			BaseURL:    cfg.CatalogFeedBaseURL,
			Token:      cfg.CatalogFeedToken,
			MaxRetries: cfg.CatalogFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CatalogFeedCircuitEnabled,
				FailureThreshold: cfg.CatalogFeedCircuitFailures,
				OpenTimeout:      cfg.CatalogFeedCircuitOpenTimeout,
			},
		})
		services.CatalogSync = usecase.NewCatalogSyncService(
			catalog.NewSource(feed, cfg.CatalogFeedLeagueByLeague),
			repos.leagues, repos.teams, repos.players,
			repos.invalidator, logger,
		)
	}

	return services
}

// OpenDB connects to Postgres with query tracing and verifies the connection.
func OpenDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func tracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// tokenCacheTTL maps a non-positive setting to a disabled token cache.
func tokenCacheTTL(cfg config.Config) time.Duration {
	if cfg.AnubisTokenCacheTTL <= 0 {
		return -1
	}
	return cfg.AnubisTokenCacheTTL
}
