package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	repo := &TeamRepository{items: make(map[string]map[string]team.Team)}
	_ = repo.UpsertMany(context.Background(), teams)
	return repo
}

// ListByLeague returns teams ordered by name.
func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.items[leagueID]))
	for _, item := range r.items[leagueID] {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, leagueID, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID][teamID]
	return item, ok, nil
}

func (r *TeamRepository) UpsertMany(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range teams {
		if item.LeagueID == "" || item.ID == "" {
			continue
		}
		if _, ok := r.items[item.LeagueID]; !ok {
			r.items[item.LeagueID] = make(map[string]team.Team)
		}
		r.items[item.LeagueID][item.ID] = item
	}

	return nil
}
