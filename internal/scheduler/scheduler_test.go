package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

type recordingStarter struct {
	calls []usecase.StartGameweekInput
	fail  map[string]error
}

func (s *recordingStarter) StartGameweek(_ context.Context, input usecase.StartGameweekInput) (usecase.GameweekResult, error) {
	s.calls = append(s.calls, input)
	if err := s.fail[input.LeagueID]; err != nil {
		return usecase.GameweekResult{}, err
	}
	return usecase.GameweekResult{LeagueID: input.LeagueID, Gameweek: input.Gameweek}, nil
}

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) SweepExpiredSessions(context.Context) int {
	s.calls.Add(1)
	return 1
}

func newRolloverScheduler(t *testing.T, spec string, leagues LeagueLister, starter GameweekStarter) *Scheduler {
	t.Helper()
	s := New(logging.NewNop())
	require.NoError(t, s.AddGameweekRollover(spec, leagues, starter))
	return s
}

func TestAddGameweekRolloverRejectsInvalidSpec(t *testing.T) {
	err := New(logging.NewNop()).AddGameweekRollover("not a cron", memory.NewLeagueRepository(nil), &recordingStarter{})
	require.Error(t, err)
}

func TestRunRolloverRequiresRegistration(t *testing.T) {
	_, err := New(logging.NewNop()).RunRollover(t.Context())
	require.Error(t, err)
}

func TestAddSessionSweepRejectsNonPositiveInterval(t *testing.T) {
	require.Error(t, New(logging.NewNop()).AddSessionSweep(0, &countingSweeper{}))
}

func TestSessionSweepRunsOnSchedule(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(logging.NewNop())
	require.NoError(t, s.AddSessionSweep(time.Second, sweeper))

	s.Start()
	require.Eventually(t, func() bool { return sweeper.calls.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestRunRolloverAdvancesEveryLeague(t *testing.T) {
	leagues := memory.NewLeagueRepository(memory.SeedLeagues())
	require.NoError(t, leagues.SetCurrentGameweek(t.Context(), memory.LeagueIDPremierLeague, 4))

	starter := &recordingStarter{}
	s := newRolloverScheduler(t, "0 0 3 * * TUE", leagues, starter)

	results, err := s.RunRollover(t.Context())
	require.NoError(t, err)
	require.Len(t, results, 2)

	got := map[string]int{}
	for _, call := range starter.calls {
		got[call.LeagueID] = call.Gameweek
	}
	require.Equal(t, map[string]int{
		memory.LeagueIDLiga1Indonesia: 1,
		memory.LeagueIDPremierLeague:  5,
	}, got)
}

func TestRunRolloverContinuesPastFailures(t *testing.T) {
	starter := &recordingStarter{fail: map[string]error{
		memory.LeagueIDLiga1Indonesia: fmt.Errorf("%w: already started", usecase.ErrConflict),
	}}
	s := newRolloverScheduler(t, "@weekly", memory.NewLeagueRepository(memory.SeedLeagues()), starter)

	results, err := s.RunRollover(t.Context())
	require.ErrorIs(t, err, usecase.ErrConflict)
	require.Len(t, starter.calls, 2)
	require.Len(t, results, 1)
	require.Equal(t, memory.LeagueIDPremierLeague, results[0].LeagueID)
}

func TestStartStop(t *testing.T) {
	s := newRolloverScheduler(t, "@hourly", memory.NewLeagueRepository(nil), &recordingStarter{})

	s.Start()
	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
