package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

// CatalogRejection describes a feed record dropped during normalisation.
type CatalogRejection struct {
	Kind       string `json:"kind"`
	ExternalID string `json:"external_id"`
	Reason     string `json:"reason"`
}

type CatalogTeamBatch struct {
	Teams    []team.Team
	Rejected []CatalogRejection
}

type CatalogPlayerBatch struct {
	Players  []player.Player
	Rejected []CatalogRejection
}

// CatalogSource fetches and normalises clubs and players for one league from
// an upstream provider.
type CatalogSource interface {
	FetchTeams(ctx context.Context, leagueID string) (CatalogTeamBatch, error)
	FetchPlayers(ctx context.Context, leagueID string) (CatalogPlayerBatch, error)
}

// CatalogInvalidator drops cached catalog reads for a league.
type CatalogInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueID string)
}

type CatalogSyncResult struct {
	LeagueID   string             `json:"league_id"`
	Teams      int                `json:"teams"`
	Players    int                `json:"players"`
	Rejected   []CatalogRejection `json:"rejected"`
	DurationMs int64              `json:"duration_ms"`
}

type CatalogSyncService struct {
	source      CatalogSource
	leagueRepo  league.Repository
	teamRepo    team.Repository
	playerRepo  player.Repository
	invalidator CatalogInvalidator
	logger      *logging.Logger
	now         func() time.Time
}

func NewCatalogSyncService(
	source CatalogSource,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	playerRepo player.Repository,
	invalidator CatalogInvalidator,
	logger *logging.Logger,
) *CatalogSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CatalogSyncService{
		source:      source,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		playerRepo:  playerRepo,
		invalidator: invalidator,
		logger:      logger.Named("catalog"),
		now:         time.Now,
	}
}

// Sync refreshes a league's catalog. Teams and players are fetched
// concurrently; players whose club is not part of the fetched teams (or
// already stored) are rejected rather than written.
func (s *CatalogSyncService) Sync(ctx context.Context, leagueID string) (CatalogSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSyncService.Sync")
	defer span.End()

	if s.source == nil {
		return CatalogSyncResult{}, fmt.Errorf("%w: catalog feed is not configured", ErrDependencyUnavailable)
	}

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return CatalogSyncResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return CatalogSyncResult{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return CatalogSyncResult{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	start := s.now()
	var teams CatalogTeamBatch
	var players CatalogPlayerBatch

	fetches := pool.New().WithContext(ctx).WithCancelOnError()
	fetches.Go(func(ctx context.Context) error {
		batch, err := s.source.FetchTeams(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		teams = batch
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		batch, err := s.source.FetchPlayers(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("fetch players: %w", err)
		}
		players = batch
		return nil
	})
	if err := fetches.Wait(); err != nil {
		recordSpanError(span, err)
		return CatalogSyncResult{}, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}

	knownTeams, err := s.knownTeams(ctx, leagueID, teams.Teams)
	if err != nil {
		return CatalogSyncResult{}, err
	}

	rejected := append(append([]CatalogRejection{}, teams.Rejected...), players.Rejected...)
	accepted := make([]player.Player, 0, len(players.Players))
	for _, p := range players.Players {
		if _, ok := knownTeams[p.TeamID]; !ok {
			rejected = append(rejected, CatalogRejection{Kind: "player", ExternalID: p.ID, Reason: "unknown team " + p.TeamID})
			continue
		}
		accepted = append(accepted, p)
	}

	if err := s.teamRepo.UpsertMany(ctx, teams.Teams); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("upsert teams: %w", err)
	}
	if err := s.playerRepo.UpsertMany(ctx, accepted); err != nil {
		return CatalogSyncResult{}, fmt.Errorf("upsert players: %w", err)
	}
	if s.invalidator != nil {
		s.invalidator.InvalidateLeague(ctx, leagueID)
	}

	result := CatalogSyncResult{
		LeagueID:   leagueID,
		Teams:      len(teams.Teams),
		Players:    len(accepted),
		Rejected:   rejected,
		DurationMs: s.now().Sub(start).Milliseconds(),
	}
	s.logger.InfoContext(ctx, "catalog synced",
		"league_id", leagueID,
		"teams", result.Teams,
		"players", result.Players,
		"rejected", len(result.Rejected),
	)
	return result, nil
}

func (s *CatalogSyncService) knownTeams(ctx context.Context, leagueID string, fetched []team.Team) (map[string]struct{}, error) {
	stored, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list stored teams: %w", err)
	}

	known := make(map[string]struct{}, len(stored)+len(fetched))
	for _, item := range stored {
		known[item.ID] = struct{}{}
	}
	for _, item := range fetched {
		known[item.ID] = struct{}{}
	}
	return known, nil
}
