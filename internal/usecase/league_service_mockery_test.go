package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	leaguemock "github.com/riskibarqy/fantasy-squad/internal/mocks/domain/league"
	teammock "github.com/riskibarqy/fantasy-squad/internal/mocks/domain/team"
)

type leagueTestKey struct{}

func TestLeagueService_ListTeamsByLeague_UsesSameContext(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), leagueTestKey{}, "request-456")
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	service := NewLeagueService(leagueRepo, teamRepo)

	leagueID := "idn-liga-1-2025"
	clubs := []team.Team{
		{ID: "idn-borneo", LeagueID: leagueID, Name: "Borneo FC", Short: "BOR"},
		{ID: "idn-persik", LeagueID: leagueID, Name: "Persik Kediri", Short: "PSK"},
	}
	sameCtx := mock.MatchedBy(func(v context.Context) bool { return v == ctx })

	leagueRepo.On("GetByID", sameCtx, leagueID).Return(league.League{ID: leagueID, CurrentGameweek: 4}, true, nil).Once()
	teamRepo.On("ListByLeague", sameCtx, leagueID).Return(clubs, nil).Once()

	got, err := service.ListTeamsByLeague(ctx, "  "+leagueID+" ")
	if err != nil {
		t.Fatalf("list teams by league: %v", err)
	}
	if len(got) != len(clubs) || got[1].ID != "idn-persik" {
		t.Fatalf("unexpected clubs: %+v", got)
	}
}

func TestLeagueService_ListTeamsByLeague_LeagueNotFound(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	service := NewLeagueService(leagueRepo, teamRepo)

	leagueRepo.On("GetByID", mock.Anything, "missing-league").Return(league.League{}, false, nil).Once()

	_, err := service.ListTeamsByLeague(context.Background(), "missing-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	teamRepo.AssertNotCalled(t, "ListByLeague", mock.Anything, mock.Anything)
}

func TestLeagueService_GetLeague_Validation(t *testing.T) {
	t.Parallel()

	service := NewLeagueService(leaguemock.NewRepository(t), teammock.NewRepository(t))
	if _, err := service.GetLeague(context.Background(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLeagueService_ListLeagues_RepositoryError(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	boom := errors.New("boom")
	leagueRepo.On("List", mock.Anything).Return(nil, boom).Once()

	service := NewLeagueService(leagueRepo, teammock.NewRepository(t))
	if _, err := service.ListLeagues(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}
