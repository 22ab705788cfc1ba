package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
)

type SquadRepository struct {
	mu    sync.RWMutex
	items map[string]fantasy.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{items: make(map[string]fantasy.Squad)}
}

func (r *SquadRepository) GetByUserAndLeague(_ context.Context, userID, leagueID string) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squad, ok := r.items[squadKey(userID, leagueID)]
	if !ok {
		return fantasy.Squad{}, false, nil
	}

	return squad.Clone(), true, nil
}

// ListByLeague returns squads ordered by id.
func (r *SquadRepository) ListByLeague(_ context.Context, leagueID string) ([]fantasy.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Squad, 0)
	for _, squad := range r.items {
		if squad.LeagueID == leagueID {
			out = append(out, squad.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *SquadRepository) Upsert(_ context.Context, squad fantasy.Squad, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := squadKey(squad.UserID, squad.LeagueID)
	var stored int64
	if existing, ok := r.items[key]; ok {
		stored = existing.Version
	}
	if stored != expectedVersion {
		return fmt.Errorf("%w: squad=%s stored=%d expected=%d", fantasy.ErrVersionConflict, squad.ID, stored, expectedVersion)
	}

	r.items[key] = squad.Clone()
	return nil
}

func squadKey(userID, leagueID string) string {
	return userID + "::" + leagueID
}
