package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

type PlayerSort string

const (
	PlayerSortPrice       PlayerSort = "price"
	PlayerSortForm        PlayerSort = "form"
	PlayerSortTotalPoints PlayerSort = "total_points"
	PlayerSortOwnership   PlayerSort = "ownership"
	PlayerSortName        PlayerSort = "name"
)

// PlayerFilter narrows and orders the catalog listing. Zero values mean no
// filter; the default order is price descending.
type PlayerFilter struct {
	Position  string
	TeamID    string
	MaxPrice  int64
	SortBy    PlayerSort
	Ascending bool
	Limit     int
}

type PlayerService struct {
	leagueRepo league.Repository
	playerRepo player.Repository
}

func NewPlayerService(leagueRepo league.Repository, playerRepo player.Repository) *PlayerService {
	return &PlayerService{
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
	}
}

func (s *PlayerService) ListPlayers(ctx context.Context, leagueID string, filter PlayerFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var position player.Position
	if raw := strings.TrimSpace(filter.Position); raw != "" {
		parsed, ok := player.ParsePosition(strings.ToUpper(raw))
		if !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, raw)
		}
		position = parsed
	}
	less, err := playerLess(filter.SortBy)
	if err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.MaxPrice < 0 {
		return nil, fmt.Errorf("%w: limit and max price cannot be negative", ErrInvalidInput)
	}

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	var players []player.Player
	if teamID := strings.TrimSpace(filter.TeamID); teamID != "" {
		players, err = s.playerRepo.ListByTeam(ctx, leagueID, teamID)
	} else {
		players, err = s.playerRepo.ListByLeague(ctx, leagueID)
	}
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(players))
	for _, p := range players {
		if position != "" && p.Position != position {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if filter.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}

	return out, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, leagueID, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	playerID = strings.TrimSpace(playerID)
	if leagueID == "" {
		return player.Player{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return player.Player{}, err
	}

	item, exists, err := s.playerRepo.GetByID(ctx, leagueID, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s league=%s", ErrNotFound, playerID, leagueID)
	}

	return item, nil
}

func (s *PlayerService) ensureLeague(ctx context.Context, leagueID string) error {
	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return nil
}

func playerLess(sortBy PlayerSort) (func(a, b player.Player) bool, error) {
	switch sortBy {
	case "", PlayerSortPrice:
		return func(a, b player.Player) bool { return a.Price < b.Price }, nil
	case PlayerSortForm:
		return func(a, b player.Player) bool { return a.Form < b.Form }, nil
	case PlayerSortTotalPoints:
		return func(a, b player.Player) bool { return a.TotalPoints < b.TotalPoints }, nil
	case PlayerSortOwnership:
		return func(a, b player.Player) bool { return a.OwnershipPct < b.OwnershipPct }, nil
	case PlayerSortName:
		return func(a, b player.Player) bool { return a.Name < b.Name }, nil
	default:
		return nil, fmt.Errorf("%w: unsupported sort %q", ErrInvalidInput, sortBy)
	}
}
