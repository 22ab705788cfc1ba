package fantasy

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var ErrInvalidTransferSession = errors.New("invalid transfer session")

type TransferState string

const (
	TransferStateEmpty      TransferState = "EMPTY"
	TransferStateUnbalanced TransferState = "UNBALANCED"
	TransferStateBalanced   TransferState = "BALANCED"
)

// TransferSession accumulates paired removals and additions against a
// baseline squad snapshot. A session is owned by one caller and is not safe
// for concurrent use.
type TransferSession struct {
	ID              string
	SquadID         string
	BaselineVersion int64
	OpenedAt        time.Time

	baseline   Squad
	plannedOut []string
	plannedIn  []SquadPick
}

// TransferResult is the outcome of a committed session.
type TransferResult struct {
	Squad             Squad
	Out               []string
	In                []SquadPick
	FreeTransfersUsed int
	PointCost         int
}

func OpenTransferSession(id string, squad Squad, now time.Time) *TransferSession {
	return &TransferSession{
		ID:              id,
		SquadID:         squad.ID,
		BaselineVersion: squad.Version,
		OpenedAt:        now,
		baseline:        squad.Clone(),
	}
}

func (s *TransferSession) State() TransferState {
	switch {
	case len(s.plannedOut) == 0 && len(s.plannedIn) == 0:
		return TransferStateEmpty
	case len(s.plannedOut) == len(s.plannedIn):
		return TransferStateBalanced
	default:
		return TransferStateUnbalanced
	}
}

func (s *TransferSession) Baseline() Squad {
	return s.baseline.Clone()
}

func (s *TransferSession) PlannedOut() []string {
	return slices.Clone(s.plannedOut)
}

func (s *TransferSession) PlannedIn() []SquadPick {
	return slices.Clone(s.plannedIn)
}

// Hypothetical is the baseline with every planned removal and addition applied.
// A captain or vice-captain sold and bought back in the same batch keeps the role.
func (s *TransferSession) Hypothetical() Squad {
	next := s.withoutOuts()
	for _, pick := range s.plannedIn {
		next = applyAdd(next, pick)
	}
	if next.CaptainID == "" && next.Has(s.baseline.CaptainID) {
		next.CaptainID = s.baseline.CaptainID
	}
	if next.ViceCaptainID == "" && next.Has(s.baseline.ViceCaptainID) {
		next.ViceCaptainID = s.baseline.ViceCaptainID
	}
	return next
}

func (s *TransferSession) withoutOuts() Squad {
	next := s.baseline.Clone()
	for _, playerID := range s.plannedOut {
		next = Remove(next, playerID)
	}
	return next
}

// MarkOut toggles playerID in the planned removals. Un-marking shrinks the
// open slots, so pending additions are re-checked in order and the ones that
// no longer fit are released and returned.
func (s *TransferSession) MarkOut(playerID string, rules Rules) (Decision, []string) {
	if !s.baseline.Has(playerID) {
		return Reject(ReasonNotInSquad, "player %s is not in the squad", playerID), nil
	}

	idx := slices.Index(s.plannedOut, playerID)
	if idx < 0 {
		s.plannedOut = append(s.plannedOut, playerID)
		return Accept(), nil
	}

	s.plannedOut = slices.Delete(s.plannedOut, idx, idx+1)
	return Accept(), s.revalidateIn(rules)
}

func (s *TransferSession) revalidateIn(rules Rules) []string {
	hypothetical := s.withoutOuts()
	kept := make([]SquadPick, 0, len(s.plannedIn))
	var released []string
	for _, pick := range s.plannedIn {
		if len(kept) >= len(s.plannedOut) {
			released = append(released, pick.PlayerID)
			continue
		}
		next, decision := Add(hypothetical, pick, rules)
		if !decision.Allowed {
			released = append(released, pick.PlayerID)
			continue
		}
		hypothetical = next
		kept = append(kept, pick)
	}
	s.plannedIn = kept
	return released
}

// MarkIn plans an addition. It needs an open removal slot and must pass
// CanAdd against the hypothetical squad of the whole pending batch. Buying
// back a player marked out is allowed and still counts as a transfer.
func (s *TransferSession) MarkIn(pick SquadPick, rules Rules) Decision {
	if len(s.plannedOut) <= len(s.plannedIn) {
		return Reject(ReasonNoFreeSlot, "mark a player out before bringing %s in", pick.PlayerID)
	}

	decision := CanAdd(s.Hypothetical(), pick, rules)
	if !decision.Allowed {
		return decision
	}
	s.plannedIn = append(s.plannedIn, pick)
	return decision
}

func (s *TransferSession) CancelIn(playerID string) {
	s.plannedIn = slices.DeleteFunc(s.plannedIn, func(pick SquadPick) bool {
		return pick.PlayerID == playerID
	})
}

// Cost is the point penalty for additions beyond the baseline free transfers.
func (s *TransferSession) Cost(rules Rules) int {
	return max(0, len(s.plannedIn)-s.baseline.FreeTransfers) * rules.TransferPointCost
}

// Commit applies the batch to current when it is balanced and current is still
// the squad the session was opened against. The session is cleared only on
// success. The error return is reserved for misuse.
func (s *TransferSession) Commit(current Squad, rules Rules) (TransferResult, Decision, error) {
	if s == nil {
		return TransferResult{}, Decision{}, fmt.Errorf("%w: session is nil", ErrInvalidTransferSession)
	}
	if s.State() == TransferStateEmpty {
		return TransferResult{}, Decision{}, fmt.Errorf("%w: nothing to commit", ErrInvalidTransferSession)
	}
	if len(s.plannedOut) != len(s.plannedIn) {
		return TransferResult{}, Reject(ReasonUnbalanced, "%d out, %d in", len(s.plannedOut), len(s.plannedIn)), nil
	}
	if current.ID != s.SquadID || current.Version != s.BaselineVersion {
		return TransferResult{}, Reject(ReasonStaleSquad, "squad changed since session %s was opened", s.ID), nil
	}

	next := s.Hypothetical()
	if err := ValidatePicksPartial(next.Picks, rules); err != nil {
		return TransferResult{}, Decision{}, fmt.Errorf("%w: %w", ErrInvalidTransferSession, err)
	}
	if next.Spent() > next.BudgetCap {
		return TransferResult{}, Decision{}, fmt.Errorf("%w: %w", ErrInvalidTransferSession, ErrExceededBudget)
	}

	used := min(next.FreeTransfers, len(s.plannedIn))
	result := TransferResult{
		Out:               s.PlannedOut(),
		In:                s.PlannedIn(),
		FreeTransfersUsed: used,
		PointCost:         s.Cost(rules),
	}
	next.FreeTransfers -= used
	result.Squad = next

	s.Discard()
	return result, Accept(), nil
}

// Discard clears the pending batch without touching any squad.
func (s *TransferSession) Discard() {
	s.plannedOut = nil
	s.plannedIn = nil
}

// Clone copies the session so a caller can commit speculatively and keep the
// original when persisting the result fails.
func (s *TransferSession) Clone() *TransferSession {
	copied := *s
	copied.baseline = s.baseline.Clone()
	copied.plannedOut = slices.Clone(s.plannedOut)
	copied.plannedIn = slices.Clone(s.plannedIn)
	return &copied
}
