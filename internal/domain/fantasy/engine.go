package fantasy

import (
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// CanAdd reports whether pick may join squad. Checks run in a fixed order so
// the first failing rule is always the one reported.
func CanAdd(squad Squad, pick SquadPick, rules Rules) Decision {
	if squad.Has(pick.PlayerID) {
		return Reject(ReasonDuplicatePlayer, "player %s is already in the squad", pick.PlayerID)
	}
	if len(squad.Picks) >= rules.SquadSize {
		return Reject(ReasonSquadFull, "squad already has %d players", rules.SquadSize)
	}
	if spent := squad.Spent(); spent+pick.Price > squad.BudgetCap {
		return Reject(ReasonInsufficientBudget, "price %d exceeds remaining budget %d", pick.Price, squad.BudgetCap-spent)
	}
	if quota := rules.Quota(pick.Position); squad.CountByPosition(pick.Position) >= quota {
		return Reject(ReasonPositionFull, "position %s already has %d players", pick.Position, quota)
	}
	if squad.CountByTeam(pick.TeamID) >= rules.MaxPlayersPerTeam {
		return Reject(ReasonClubLimitExceeded, "team %s already has %d players", pick.TeamID, rules.MaxPlayersPerTeam)
	}

	return Accept()
}

// Add validates and applies pick in one step. The returned squad is the input
// unchanged when the decision is a rejection.
func Add(squad Squad, pick SquadPick, rules Rules) (Squad, Decision) {
	decision := CanAdd(squad, pick, rules)
	if !decision.Allowed {
		return squad, decision
	}
	return applyAdd(squad, pick), decision
}

func applyAdd(squad Squad, pick SquadPick) Squad {
	next := squad.Clone()
	next.Picks = append(next.Picks, pick)
	return next
}

// Remove drops playerID from squad and clears any role it held. Removing a
// non-member returns squad untouched.
func Remove(squad Squad, playerID string) Squad {
	if !squad.Has(playerID) {
		return squad
	}

	next := squad.Clone()
	next.Picks = next.Picks[:0]
	for _, pick := range squad.Picks {
		if pick.PlayerID != playerID {
			next.Picks = append(next.Picks, pick)
		}
	}
	if next.CaptainID == playerID {
		next.CaptainID = ""
	}
	if next.ViceCaptainID == playerID {
		next.ViceCaptainID = ""
	}

	return next
}

// SetCaptain assigns the captaincy. When the target is the vice-captain the
// two roles swap.
func SetCaptain(squad Squad, playerID string) (Squad, Decision) {
	if !squad.Has(playerID) {
		return squad, Reject(ReasonNotInSquad, "player %s is not in the squad", playerID)
	}

	next := squad.Clone()
	if next.ViceCaptainID == playerID {
		next.ViceCaptainID = squad.CaptainID
	}
	next.CaptainID = playerID
	return next, Accept()
}

// SetViceCaptain mirrors SetCaptain for the vice-captain role.
func SetViceCaptain(squad Squad, playerID string) (Squad, Decision) {
	if !squad.Has(playerID) {
		return squad, Reject(ReasonNotInSquad, "player %s is not in the squad", playerID)
	}

	next := squad.Clone()
	if next.CaptainID == playerID {
		next.CaptainID = squad.ViceCaptainID
	}
	next.ViceCaptainID = playerID
	return next, Accept()
}

// CompositionComplete reports a full squad with every position quota met.
func CompositionComplete(squad Squad, rules Rules) bool {
	if len(squad.Picks) != rules.SquadSize {
		return false
	}
	for _, pos := range player.OrderedPositions {
		if squad.CountByPosition(pos) != rules.Quota(pos) {
			return false
		}
	}
	return true
}

// IsComplete additionally requires distinct captain and vice-captain.
func IsComplete(squad Squad, rules Rules) bool {
	if !CompositionComplete(squad, rules) {
		return false
	}
	if squad.CaptainID == "" || squad.ViceCaptainID == "" {
		return false
	}
	return squad.CaptainID != squad.ViceCaptainID
}

type PositionStatus struct {
	Position player.Position
	Count    int
	Quota    int
}

// Status is a read model of squad progress for UI hints.
type Status struct {
	Spent               int64
	Remaining           int64
	PlayerCount         int
	SquadSize           int
	Positions           []PositionStatus
	CompositionComplete bool
	Complete            bool
	Warnings            []string
}

const (
	WarningCaptainMissing     = "captain not assigned"
	WarningViceCaptainMissing = "vice-captain not assigned"
)

func Evaluate(squad Squad, rules Rules) Status {
	status := Status{
		Spent:               squad.Spent(),
		Remaining:           squad.Remaining(),
		PlayerCount:         len(squad.Picks),
		SquadSize:           rules.SquadSize,
		Positions:           make([]PositionStatus, 0, len(player.OrderedPositions)),
		CompositionComplete: CompositionComplete(squad, rules),
		Complete:            IsComplete(squad, rules),
		Warnings:            []string{},
	}
	for _, pos := range player.OrderedPositions {
		status.Positions = append(status.Positions, PositionStatus{
			Position: pos,
			Count:    squad.CountByPosition(pos),
			Quota:    rules.Quota(pos),
		})
	}

	if squad.CaptainID == "" {
		status.Warnings = append(status.Warnings, WarningCaptainMissing)
	}
	if squad.ViceCaptainID == "" {
		status.Warnings = append(status.Warnings, WarningViceCaptainMissing)
	}

	return status
}
