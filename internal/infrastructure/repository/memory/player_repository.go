package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

type PlayerRepository struct {
	mu              sync.RWMutex
	playersByLeague map[string][]player.Player
	indexByLeague   map[string]map[string]int
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	repo := &PlayerRepository{
		playersByLeague: make(map[string][]player.Player),
		indexByLeague:   make(map[string]map[string]int),
	}
	repo.upsertLocked(players)
	return repo
}

func (r *PlayerRepository) ListByLeague(_ context.Context, leagueID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := r.playersByLeague[leagueID]
	out := make([]player.Player, 0, len(players))
	out = append(out, players...)

	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, leagueID, teamID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.playersByLeague[leagueID] {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, leagueID, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.indexByLeague[leagueID][playerID]
	if !ok {
		return player.Player{}, false, nil
	}

	return r.playersByLeague[leagueID][idx], true, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, leagueID string, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index := r.indexByLeague[leagueID]
	rows := r.playersByLeague[leagueID]
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		idx, ok := index[id]
		if !ok {
			continue
		}
		out = append(out, rows[idx])
	}

	return out, nil
}

func (r *PlayerRepository) UpsertMany(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.upsertLocked(players)
	return nil
}

func (r *PlayerRepository) upsertLocked(players []player.Player) {
	for _, p := range players {
		if p.LeagueID == "" || p.ID == "" {
			continue
		}
		index, ok := r.indexByLeague[p.LeagueID]
		if !ok {
			index = make(map[string]int)
			r.indexByLeague[p.LeagueID] = index
		}
		if idx, exists := index[p.ID]; exists {
			r.playersByLeague[p.LeagueID][idx] = p
			continue
		}
		index[p.ID] = len(r.playersByLeague[p.LeagueID])
		r.playersByLeague[p.LeagueID] = append(r.playersByLeague[p.LeagueID], p)
	}
}
