package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

type LeagueLister interface {
	List(ctx context.Context) ([]league.League, error)
}

type GameweekStarter interface {
	StartGameweek(ctx context.Context, input usecase.StartGameweekInput) (usecase.GameweekResult, error)
}

type SessionSweeper interface {
	SweepExpiredSessions(ctx context.Context) int
}

// Scheduler runs the periodic maintenance tasks: gameweek rollover for every
// league and eviction of abandoned transfer sessions.
type Scheduler struct {
	cron    *cron.Cron
	leagues LeagueLister
	starter GameweekStarter
	sweeper SessionSweeper
	logger  *logging.Logger
	timeout time.Duration
}

// New returns a scheduler with no tasks. Overlapping runs of a task are skipped.
func New(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	cronLog := cronLogger{logger: logger}
	return &Scheduler{
		logger:  logger,
		timeout: 10 * time.Minute,
		cron: cron.New(
			cron.WithParser(cron.NewParser(config.CronSpecParser)),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}
}

func (s *Scheduler) AddGameweekRollover(spec string, leagues LeagueLister, starter GameweekStarter) error {
	s.leagues = leagues
	s.starter = starter
	if _, err := s.cron.AddFunc(spec, s.rolloverTask); err != nil {
		return fmt.Errorf("register gameweek rollover %q: %w", spec, err)
	}
	return nil
}

// AddSessionSweep evicts expired transfer sessions every interval.
func (s *Scheduler) AddSessionSweep(interval time.Duration, sweeper SessionSweeper) error {
	if interval <= 0 {
		return fmt.Errorf("session sweep interval must be positive, got %s", interval)
	}
	s.sweeper = sweeper
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(s.sweepTask))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts the schedule and waits for a running task until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for scheduled tasks: %w", ctx.Err())
	}
}

func (s *Scheduler) rolloverTask() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunRollover(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled gameweek rollover finished with errors", "error", err)
	}
}

func (s *Scheduler) sweepTask() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if removed := s.sweeper.SweepExpiredSessions(ctx); removed > 0 {
		s.logger.InfoContext(ctx, "expired transfer sessions evicted", "count", removed)
	}
}

// RunRollover starts gameweek current+1 for every league. A league that
// fails does not stop the others; the failures are joined into the error.
func (s *Scheduler) RunRollover(ctx context.Context) ([]usecase.GameweekResult, error) {
	if s.leagues == nil || s.starter == nil {
		return nil, fmt.Errorf("gameweek rollover is not registered")
	}
	leagues, err := s.leagues.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	results := make([]usecase.GameweekResult, 0, len(leagues))
	var errs []error
	for _, item := range leagues {
		next := item.CurrentGameweek + 1
		result, err := s.starter.StartGameweek(ctx, usecase.StartGameweekInput{
			LeagueID: item.ID,
			Gameweek: next,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "gameweek rollover failed", "league_id", item.ID, "gameweek", next, "error", err)
			errs = append(errs, fmt.Errorf("league %s: %w", item.ID, err))
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
