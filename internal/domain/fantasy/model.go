package fantasy

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// SquadPick represents one selected player in a user's fantasy squad.
// Team, position and price are snapshotted from the catalog when picked.
type SquadPick struct {
	PlayerID string
	TeamID   string
	Position player.Position
	Price    int64
}

// PickFromPlayer snapshots the constraint-relevant attributes of a catalog player.
func PickFromPlayer(p player.Player) SquadPick {
	return SquadPick{
		PlayerID: p.ID,
		TeamID:   p.TeamID,
		Position: p.Position,
		Price:    p.Price,
	}
}

// Squad contains user team composition for one league.
//
// Spent is never stored on the struct; it is always derived from Picks.
// Version increases on every persisted change and guards concurrent editors.
type Squad struct {
	ID            string
	UserID        string
	LeagueID      string
	Name          string
	Picks         []SquadPick
	BudgetCap     int64
	CaptainID     string
	ViceCaptainID string
	FreeTransfers int
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSquad returns an empty squad with budget and free transfers taken from rules.
func NewSquad(id, userID, leagueID, name string, rules Rules) Squad {
	return Squad{
		ID:            id,
		UserID:        userID,
		LeagueID:      leagueID,
		Name:          name,
		Picks:         []SquadPick{},
		BudgetCap:     rules.BudgetCap,
		FreeTransfers: rules.InitialFreeTransfers,
	}
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if s.LeagueID == "" {
		return fmt.Errorf("league id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("squad name is required")
	}
	if s.BudgetCap <= 0 {
		return fmt.Errorf("budget cap must be greater than zero")
	}
	if s.FreeTransfers < 0 {
		return fmt.Errorf("free transfers cannot be negative")
	}
	if s.CaptainID != "" && !s.Has(s.CaptainID) {
		return fmt.Errorf("%w: captain %s", ErrNotInSquad, s.CaptainID)
	}
	if s.ViceCaptainID != "" && !s.Has(s.ViceCaptainID) {
		return fmt.Errorf("%w: vice-captain %s", ErrNotInSquad, s.ViceCaptainID)
	}
	if s.CaptainID != "" && s.CaptainID == s.ViceCaptainID {
		return fmt.Errorf("captain and vice-captain must be different players")
	}

	return nil
}

// Spent is the sum of pick prices.
func (s Squad) Spent() int64 {
	var total int64
	for _, pick := range s.Picks {
		total += pick.Price
	}
	return total
}

func (s Squad) Remaining() int64 {
	return s.BudgetCap - s.Spent()
}

func (s Squad) Has(playerID string) bool {
	for _, pick := range s.Picks {
		if pick.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (s Squad) Pick(playerID string) (SquadPick, bool) {
	for _, pick := range s.Picks {
		if pick.PlayerID == playerID {
			return pick, true
		}
	}
	return SquadPick{}, false
}

func (s Squad) CountByPosition(pos player.Position) int {
	count := 0
	for _, pick := range s.Picks {
		if pick.Position == pos {
			count++
		}
	}
	return count
}

func (s Squad) CountByTeam(teamID string) int {
	count := 0
	for _, pick := range s.Picks {
		if pick.TeamID == teamID {
			count++
		}
	}
	return count
}

func (s Squad) PlayerIDs() []string {
	out := make([]string, 0, len(s.Picks))
	for _, pick := range s.Picks {
		out = append(out, pick.PlayerID)
	}
	return out
}

// Clone returns a copy that shares no slice storage with s.
func (s Squad) Clone() Squad {
	copied := s
	copied.Picks = append([]SquadPick(nil), s.Picks...)
	return copied
}
