package player

import "context"

// Repository describes catalog lookups needed by use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Player, error)
	ListByTeam(ctx context.Context, leagueID, teamID string) ([]Player, error)
	GetByID(ctx context.Context, leagueID, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, leagueID string, playerIDs []string) ([]Player, error)
	UpsertMany(ctx context.Context, players []Player) error
}
