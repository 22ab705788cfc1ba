package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

const (
	defaultRolloverWorkers = 8
	maxRolloverWorkers     = 64
	rolloverMaxAttempts    = 3
)

type StartGameweekInput struct {
	LeagueID string
	// Gameweek must be greater than the league's current gameweek.
	Gameweek   int
	MaxWorkers int
}

type GameweekResult struct {
	LeagueID    string `json:"league_id"`
	Gameweek    int    `json:"gameweek"`
	SquadCount  int    `json:"squad_count"`
	Updated     int    `json:"updated"`
	Unchanged   int    `json:"unchanged"`
	Failed      int    `json:"failed"`
	WorkerCount int    `json:"worker_count"`
	DurationMs  int64  `json:"duration_ms"`
}

// GameweekService advances a league to a new gameweek and grants every squad
// its rollover free transfer.
type GameweekService struct {
	leagueRepo league.Repository
	squadRepo  fantasy.Repository
	rules      fantasy.Rules
	workers    int
	logger     *logging.Logger
	now        func() time.Time
}

func NewGameweekService(
	leagueRepo league.Repository,
	squadRepo fantasy.Repository,
	rules fantasy.Rules,
	workers int,
	logger *logging.Logger,
) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GameweekService{
		leagueRepo: leagueRepo,
		squadRepo:  squadRepo,
		rules:      rules,
		workers:    workers,
		logger:     logger.Named("gameweek"),
		now:        time.Now,
	}
}

// StartGameweek moves the league marker first so a repeated trigger for the
// same gameweek is rejected and never grants a second free transfer.
func (s *GameweekService) StartGameweek(ctx context.Context, input StartGameweekInput) (GameweekResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.StartGameweek")
	defer span.End()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.LeagueID == "" {
		return GameweekResult{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.Gameweek <= 0 {
		return GameweekResult{}, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}

	leagueItem, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
	if err != nil {
		return GameweekResult{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return GameweekResult{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
	}
	if input.Gameweek <= leagueItem.CurrentGameweek {
		return GameweekResult{}, fmt.Errorf("%w: league=%s already at gameweek %d", ErrConflict, input.LeagueID, leagueItem.CurrentGameweek)
	}

	if err := s.leagueRepo.SetCurrentGameweek(ctx, input.LeagueID, input.Gameweek); err != nil {
		return GameweekResult{}, fmt.Errorf("set current gameweek: %w", err)
	}

	squads, err := s.squadRepo.ListByLeague(ctx, input.LeagueID)
	if err != nil {
		recordSpanError(span, err)
		return GameweekResult{}, fmt.Errorf("list squads by league: %w", err)
	}

	start := s.now()
	workerCount := normalizeWorkerCount(input.MaxWorkers, s.workers, len(squads))
	result := GameweekResult{
		LeagueID:    input.LeagueID,
		Gameweek:    input.Gameweek,
		SquadCount:  len(squads),
		WorkerCount: workerCount,
	}
	if len(squads) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return GameweekResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var updated, unchanged, failed atomic.Int32
	var workers sync.WaitGroup
	for _, squad := range squads {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			changed, err := s.rollover(ctx, squad)
			switch {
			case err != nil:
				failed.Add(1)
				s.logger.WarnContext(ctx, "free transfer rollover failed",
					"squad_id", squad.ID,
					"gameweek", input.Gameweek,
					"error", err,
				)
			case changed:
				updated.Add(1)
			default:
				unchanged.Add(1)
			}
		}); err != nil {
			workers.Done()
			failed.Add(1)
			s.logger.ErrorContext(ctx, "submit rollover task", "squad_id", squad.ID, "error", err)
		}
	}
	workers.Wait()

	result.Updated = int(updated.Load())
	result.Unchanged = int(unchanged.Load())
	result.Failed = int(failed.Load())
	result.DurationMs = s.now().Sub(start).Milliseconds()

	s.logger.InfoContext(ctx, "gameweek started",
		"league_id", result.LeagueID,
		"gameweek", result.Gameweek,
		"squads", result.SquadCount,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

// rollover retries on version conflicts by re-reading the squad, since users
// may be editing it while the job runs.
func (s *GameweekService) rollover(ctx context.Context, squad fantasy.Squad) (bool, error) {
	for attempt := 1; ; attempt++ {
		next := fantasy.RolloverFreeTransfers(squad, s.rules)
		if next.FreeTransfers == squad.FreeTransfers {
			return false, nil
		}
		next.Version = squad.Version + 1
		next.UpdatedAt = s.now().UTC()

		err := s.squadRepo.Upsert(ctx, next, squad.Version)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, fantasy.ErrVersionConflict) || attempt >= rolloverMaxAttempts {
			return false, err
		}

		fresh, exists, getErr := s.squadRepo.GetByUserAndLeague(ctx, squad.UserID, squad.LeagueID)
		if getErr != nil {
			return false, fmt.Errorf("reload squad: %w", getErr)
		}
		if !exists {
			return false, nil
		}
		squad = fresh
	}
}

func normalizeWorkerCount(requested, configured, tasks int) int {
	count := requested
	if count <= 0 {
		count = configured
	}
	if count <= 0 {
		count = defaultRolloverWorkers
	}
	count = min(count, maxRolloverWorkers)
	if tasks > 0 {
		count = min(count, tasks)
	}
	return max(count, 1)
}
