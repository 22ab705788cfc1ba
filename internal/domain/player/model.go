package player

import "fmt"

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

// OrderedPositions lists positions in the order squads are usually displayed.
var OrderedPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// Player is a selectable athlete in a fantasy league pool.
//
// Price is stored in tenths of a currency-million (55 == 5.5). Form,
// TotalPoints, OwnershipPct and the transfer counters are informational
// and never take part in squad constraints.
type Player struct {
	ID           string
	LeagueID     string
	TeamID       string
	Name         string
	Position     Position
	Price        int64
	ImageURL     string
	Form         float64
	TotalPoints  int
	OwnershipPct float64
	TransfersIn  int64
	TransfersOut int64
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.LeagueID == "" {
		return fmt.Errorf("player league id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}

// ParsePosition maps loose position labels to a Position.
func ParsePosition(raw string) (Position, bool) {
	switch raw {
	case "GK", "GKP", "Goalkeeper", "goalkeeper":
		return PositionGoalkeeper, true
	case "DEF", "Defender", "defender":
		return PositionDefender, true
	case "MID", "Midfielder", "midfielder":
		return PositionMidfielder, true
	case "FWD", "FW", "Forward", "forward", "Attacker", "attacker":
		return PositionForward, true
	default:
		return "", false
	}
}
