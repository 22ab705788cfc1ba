package fantasy

import (
	"context"
	"time"
)

// Repository describes squad persistence needs from use cases.
//
// Upsert stores squad only when the persisted version equals expectedVersion
// (zero for a squad that has never been stored) and returns
// ErrVersionConflict otherwise.
type Repository interface {
	GetByUserAndLeague(ctx context.Context, userID, leagueID string) (Squad, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Squad, error)
	Upsert(ctx context.Context, squad Squad, expectedVersion int64) error
}

// TransferRecord is the audit row written for every committed transfer
// session. PointCost is consumed by scoring outside this service.
type TransferRecord struct {
	ID                string
	SquadID           string
	UserID            string
	LeagueID          string
	Gameweek          int
	OutPlayerIDs      []string
	InPlayerIDs       []string
	FreeTransfersUsed int
	PointCost         int
	CreatedAt         time.Time
}

type TransferRepository interface {
	Append(ctx context.Context, record TransferRecord) error
	ListBySquad(ctx context.Context, squadID string) ([]TransferRecord, error)
}
