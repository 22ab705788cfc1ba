package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

const playerUpsertSuffix = `ON CONFLICT (public_id) DO UPDATE SET
    league_public_id = EXCLUDED.league_public_id,
    team_public_id = EXCLUDED.team_public_id,
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    is_active = TRUE,
    image_url = EXCLUDED.image_url,
    form = EXCLUDED.form,
    total_points = EXCLUDED.total_points,
    ownership_pct = EXCLUDED.ownership_pct,
    transfers_in = EXCLUDED.transfers_in,
    transfers_out = EXCLUDED.transfers_out,
    updated_at = NOW(),
    deleted_at = NULL`

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByLeague(ctx context.Context, leagueID string) ([]player.Player, error) {
	return r.selectPlayers(ctx, "league",
		qb.Eq("league_public_id", leagueID),
		qb.Eq("is_active", true),
		qb.NotDeleted(),
	)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, leagueID, teamID string) ([]player.Player, error) {
	return r.selectPlayers(ctx, "team",
		qb.Eq("league_public_id", leagueID),
		qb.Eq("team_public_id", teamID),
		qb.Eq("is_active", true),
		qb.NotDeleted(),
	)
}

func (r *PlayerRepository) GetByID(ctx context.Context, leagueID, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("public_id", playerID),
			qb.NotDeleted(),
		).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, leagueID string, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	return r.selectPlayers(ctx, "ids",
		qb.Eq("league_public_id", leagueID),
		qb.In("public_id", stringSliceToAny(playerIDs)),
		qb.NotDeleted(),
	)
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range players {
		query, args, err := qb.InsertModel("players", playerInsertFromDomain(item), playerUpsertSuffix)
		if err != nil {
			return fmt.Errorf("build upsert player=%s query: %w", item.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player upsert tx: %w", err)
	}
	return nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, scope string, conditions ...qb.Condition) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by %s query: %w", scope, err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by %s: %w", scope, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func stringSliceToAny(items []string) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item)
	}
	return out
}
