package fantasy

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

var (
	ErrInvalidSquadSize       = errors.New("invalid squad size")
	ErrSquadFull              = errors.New("squad is full")
	ErrExceededBudget         = errors.New("budget cap exceeded")
	ErrExceededTeamLimit      = errors.New("max players from same team exceeded")
	ErrPositionFull           = errors.New("position quota reached")
	ErrInsufficientFormation  = errors.New("position quota requirement not met")
	ErrUnknownPlayerPosition  = errors.New("unknown player position")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
	ErrNotInSquad             = errors.New("player is not in squad")
	ErrUnbalancedTransfer     = errors.New("transfer session is unbalanced")
	ErrNoFreeTransferSlot     = errors.New("no transfer out slot available")
	ErrStaleSquad             = errors.New("squad changed since transfer session was opened")
	ErrVersionConflict        = errors.New("squad version conflict")
	ErrInvalidRules           = errors.New("invalid fantasy rules")
)

// Rules stores fantasy roster validation parameters.
//
// Prices and BudgetCap are expressed in tenths of a currency-million.
// QuotaByPosition is both floor and ceiling for a complete squad.
type Rules struct {
	SquadSize            int                     `yaml:"squad_size"`
	BudgetCap            int64                   `yaml:"budget_cap"`
	MaxPlayersPerTeam    int                     `yaml:"max_players_per_team"`
	QuotaByPosition      map[player.Position]int `yaml:"quota_by_position"`
	InitialFreeTransfers int                     `yaml:"initial_free_transfers"`
	MaxFreeTransfers     int                     `yaml:"max_free_transfers"`
	TransferPointCost    int                     `yaml:"transfer_point_cost"`
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		BudgetCap:         1000,
		MaxPlayersPerTeam: 3,
		QuotaByPosition: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
		InitialFreeTransfers: 1,
		MaxFreeTransfers:     2,
		TransferPointCost:    4,
	}
}

// Quota returns the required count for a position, zero when unknown.
func (r Rules) Quota(pos player.Position) int {
	return r.QuotaByPosition[pos]
}

func (r Rules) Validate() error {
	if r.SquadSize <= 0 {
		return fmt.Errorf("%w: squad size must be > 0", ErrInvalidRules)
	}
	if r.BudgetCap <= 0 {
		return fmt.Errorf("%w: budget cap must be > 0", ErrInvalidRules)
	}
	if r.MaxPlayersPerTeam <= 0 {
		return fmt.Errorf("%w: max players per team must be > 0", ErrInvalidRules)
	}
	if r.InitialFreeTransfers < 0 || r.MaxFreeTransfers < 0 {
		return fmt.Errorf("%w: free transfers cannot be negative", ErrInvalidRules)
	}
	if r.InitialFreeTransfers > r.MaxFreeTransfers {
		return fmt.Errorf("%w: initial free transfers %d exceed max %d", ErrInvalidRules, r.InitialFreeTransfers, r.MaxFreeTransfers)
	}
	if r.TransferPointCost < 0 {
		return fmt.Errorf("%w: transfer point cost cannot be negative", ErrInvalidRules)
	}

	total := 0
	for _, pos := range player.OrderedPositions {
		quota, ok := r.QuotaByPosition[pos]
		if !ok || quota <= 0 {
			return fmt.Errorf("%w: quota for %s must be > 0", ErrInvalidRules, pos)
		}
		total += quota
	}
	if len(r.QuotaByPosition) != len(player.OrderedPositions) {
		return fmt.Errorf("%w: quota contains unknown positions", ErrInvalidRules)
	}
	if total != r.SquadSize {
		return fmt.Errorf("%w: quotas sum to %d, squad size is %d", ErrInvalidRules, total, r.SquadSize)
	}

	return nil
}

// ValidatePicks validates a full squad submitted in one request.
func ValidatePicks(picks []SquadPick, rules Rules) error {
	if len(picks) != rules.SquadSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(picks))
	}

	positionCounter, err := validatePickSet(picks, rules)
	if err != nil {
		return err
	}

	for _, pos := range player.OrderedPositions {
		required := rules.Quota(pos)
		if positionCounter[pos] != required {
			return fmt.Errorf("%w: pos=%s required=%d current=%d", ErrInsufficientFormation, pos, required, positionCounter[pos])
		}
	}

	return nil
}

// ValidatePicksPartial validates draft picks while user builds squad incrementally.
// Only ceilings are enforced; an empty squad is valid.
func ValidatePicksPartial(picks []SquadPick, rules Rules) error {
	if len(picks) > rules.SquadSize {
		return fmt.Errorf("%w: expected at most %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(picks))
	}

	_, err := validatePickSet(picks, rules)
	return err
}

func validatePickSet(picks []SquadPick, rules Rules) (map[player.Position]int, error) {
	teamCounter := make(map[string]int)
	positionCounter := make(map[player.Position]int)
	playerSet := make(map[string]struct{})
	var totalCost int64

	for _, pick := range picks {
		if pick.PlayerID == "" {
			return nil, fmt.Errorf("player id is required")
		}
		if _, exists := playerSet[pick.PlayerID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePlayerInSquad, pick.PlayerID)
		}
		playerSet[pick.PlayerID] = struct{}{}

		if _, ok := player.AllPositions[pick.Position]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, pick.Position)
		}
		if pick.TeamID == "" {
			return nil, fmt.Errorf("team id is required for player %s", pick.PlayerID)
		}
		if pick.Price <= 0 {
			return nil, fmt.Errorf("player price must be greater than zero: %s", pick.PlayerID)
		}

		teamCounter[pick.TeamID]++
		if teamCounter[pick.TeamID] > rules.MaxPlayersPerTeam {
			return nil, fmt.Errorf("%w: team=%s max=%d", ErrExceededTeamLimit, pick.TeamID, rules.MaxPlayersPerTeam)
		}

		positionCounter[pick.Position]++
		if positionCounter[pick.Position] > rules.Quota(pick.Position) {
			return nil, fmt.Errorf("%w: pos=%s max=%d", ErrPositionFull, pick.Position, rules.Quota(pick.Position))
		}
		totalCost += pick.Price
	}

	if totalCost > rules.BudgetCap {
		return nil, fmt.Errorf("%w: cap=%d used=%d", ErrExceededBudget, rules.BudgetCap, totalCost)
	}

	return positionCounter, nil
}
