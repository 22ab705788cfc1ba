package fantasy

import "fmt"

// ReasonCode classifies why a squad mutation was declined. Codes are stable
// for API consumers; messages are for humans.
type ReasonCode string

const (
	ReasonDuplicatePlayer    ReasonCode = "DUPLICATE_PLAYER"
	ReasonSquadFull          ReasonCode = "SQUAD_FULL"
	ReasonInsufficientBudget ReasonCode = "INSUFFICIENT_BUDGET"
	ReasonPositionFull       ReasonCode = "POSITION_FULL"
	ReasonClubLimitExceeded  ReasonCode = "CLUB_LIMIT_EXCEEDED"
	ReasonNotInSquad         ReasonCode = "NOT_IN_SQUAD"
	ReasonUnbalanced         ReasonCode = "UNBALANCED"
	ReasonNoFreeSlot         ReasonCode = "NO_FREE_SLOT"
	ReasonStaleSquad         ReasonCode = "STALE_SQUAD"
)

var reasonErrors = map[ReasonCode]error{
	ReasonDuplicatePlayer:    ErrDuplicatePlayerInSquad,
	ReasonSquadFull:          ErrSquadFull,
	ReasonInsufficientBudget: ErrExceededBudget,
	ReasonPositionFull:       ErrPositionFull,
	ReasonClubLimitExceeded:  ErrExceededTeamLimit,
	ReasonNotInSquad:         ErrNotInSquad,
	ReasonUnbalanced:         ErrUnbalancedTransfer,
	ReasonNoFreeSlot:         ErrNoFreeTransferSlot,
	ReasonStaleSquad:         ErrStaleSquad,
}

// Sentinel returns the error matching a reason code, nil for unknown codes.
func (c ReasonCode) Sentinel() error {
	return reasonErrors[c]
}

// Decision is the outcome of asking the engine whether a mutation is legal.
// Rejections are ordinary results, not errors.
type Decision struct {
	Allowed bool
	Reason  ReasonCode
	Message string
}

func Accept() Decision {
	return Decision{Allowed: true}
}

func Reject(reason ReasonCode, format string, args ...any) Decision {
	return Decision{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Err converts a rejection into an error wrapping the reason sentinel so
// transport layers can match it with errors.Is. Accepted decisions yield nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	sentinel := d.Reason.Sentinel()
	if sentinel == nil {
		return fmt.Errorf("rejected (%s): %s", d.Reason, d.Message)
	}
	if d.Message == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, d.Message)
}
