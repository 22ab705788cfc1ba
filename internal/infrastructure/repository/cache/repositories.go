package cache

import (
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/domain/league"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
	basecache "github.com/riskibarqy/fantasy-squad/internal/platform/cache"
)

const leagueListKey = "league:list"

// Catalog keys are scoped by league so one league can be dropped without
// touching the rest.
func leagueScope(leagueID string) string {
	return "catalog:" + leagueID + ":"
}

// Invalidator drops cached catalog reads. It is shared by the league, team
// and player decorators and handed to the catalog sync job.
type Invalidator struct {
	cache *basecache.Store[any]
}

func NewInvalidator(cache *basecache.Store[any]) *Invalidator {
	return &Invalidator{cache: cache}
}

func (i *Invalidator) InvalidateLeague(ctx context.Context, leagueID string) {
	i.cache.Delete(ctx, leagueListKey)
	i.cache.DeletePrefix(ctx, leagueScope(leagueID))
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store[any]
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store[any]) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return slices.Clone(items), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueScope(leagueID)+"league", func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLookup[league.League]{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLookup[league.League])
	return cached.value, cached.exists, nil
}

// SetCurrentGameweek writes through and drops the cached league rows.
func (r *LeagueRepository) SetCurrentGameweek(ctx context.Context, leagueID string, gameweek int) error {
	if err := r.next.SetCurrentGameweek(ctx, leagueID, gameweek); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueListKey)
	r.cache.Delete(ctx, leagueScope(leagueID)+"league")
	return nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[any]
}

func NewTeamRepository(next team.Repository, cache *basecache.Store[any]) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueScope(leagueID)+"team:list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return slices.Clone(items), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, leagueID, teamID string) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueScope(leagueID)+"team:id:"+teamID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID, teamID)
		if err != nil {
			return nil, err
		}
		return cachedLookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedLookup[team.Team])
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	if err := r.next.UpsertMany(ctx, teams); err != nil {
		return err
	}
	for _, leagueID := range distinctLeagues(teams, func(t team.Team) string { return t.LeagueID }) {
		r.cache.DeletePrefix(ctx, leagueScope(leagueID)+"team:")
	}
	return nil
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[any]
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store[any]) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, leagueID string) ([]player.Player, error) {
	return r.loadList(ctx, leagueScope(leagueID)+"player:list", func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByLeague(ctx, leagueID)
	})
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, leagueID, teamID string) ([]player.Player, error) {
	return r.loadList(ctx, leagueScope(leagueID)+"player:team:"+teamID, func(ctx context.Context) ([]player.Player, error) {
		return r.next.ListByTeam(ctx, leagueID, teamID)
	})
}

func (r *PlayerRepository) GetByID(ctx context.Context, leagueID, playerID string) (player.Player, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueScope(leagueID)+"player:id:"+playerID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID, playerID)
		if err != nil {
			return nil, err
		}
		return cachedLookup[player.Player]{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedLookup[player.Player])
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, leagueID string, playerIDs []string) ([]player.Player, error) {
	ids := slices.Clone(playerIDs)
	slices.Sort(ids)
	key := leagueScope(leagueID) + "player:ids:" + strings.Join(ids, ",")
	return r.loadList(ctx, key, func(ctx context.Context) ([]player.Player, error) {
		return r.next.GetByIDs(ctx, leagueID, playerIDs)
	})
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if err := r.next.UpsertMany(ctx, players); err != nil {
		return err
	}
	for _, leagueID := range distinctLeagues(players, func(p player.Player) string { return p.LeagueID }) {
		r.cache.DeletePrefix(ctx, leagueScope(leagueID)+"player:")
	}
	return nil
}

func (r *PlayerRepository) loadList(ctx context.Context, key string, load func(context.Context) ([]player.Player, error)) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return slices.Clone(items), nil
}

type cachedLookup[T any] struct {
	value  T
	exists bool
}

func distinctLeagues[T any](items []T, leagueOf func(T) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 1)
	for _, item := range items {
		id := leagueOf(item)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
