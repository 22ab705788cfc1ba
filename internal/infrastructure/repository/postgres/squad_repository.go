package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByUserAndLeague(ctx context.Context, userID, leagueID string) (fantasy.Squad, bool, error) {
	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("league_public_id", leagueID),
			qb.NotDeleted(),
		).
		ToSQL()
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("build get squad query: %w", err)
	}

	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	picks, err := r.loadPicks(ctx, []string{row.PublicID})
	if err != nil {
		return fantasy.Squad{}, false, err
	}

	return squadFromRow(row, picks[row.PublicID]), true, nil
}

// ListByLeague returns squads ordered by public id with their picks loaded in
// a single extra query.
func (r *SquadRepository) ListByLeague(ctx context.Context, leagueID string) ([]fantasy.Squad, error) {
	query, args, err := qb.Select("*").From("fantasy_squads").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.NotDeleted(),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list squads query: %w", err)
	}

	var rows []squadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list squads by league: %w", err)
	}
	if len(rows) == 0 {
		return []fantasy.Squad{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	picks, err := r.loadPicks(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]fantasy.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, squadFromRow(row, picks[row.PublicID]))
	}
	return out, nil
}

// Upsert writes the squad row and replaces its picks in one transaction.
// The row is only touched when its stored version equals expectedVersion;
// otherwise fantasy.ErrVersionConflict is returned and nothing changes.
func (r *SquadRepository) Upsert(ctx context.Context, squad fantasy.Squad, expectedVersion int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for squad upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if expectedVersion == 0 {
		err = insertSquad(ctx, tx, squad)
	} else {
		err = updateSquad(ctx, tx, squad, expectedVersion)
	}
	if err != nil {
		return err
	}

	const clearPicksQuery = `
UPDATE fantasy_squad_picks
SET deleted_at = NOW()
WHERE squad_public_id = :squad_public_id
  AND deleted_at IS NULL`
	clearSQL, clearArgs, err := sqlx.Named(clearPicksQuery, map[string]any{
		"squad_public_id": squad.ID,
	})
	if err != nil {
		return fmt.Errorf("bind clear squad picks query: %w", err)
	}
	clearSQL = tx.Rebind(clearSQL)
	if _, err := tx.ExecContext(ctx, clearSQL, clearArgs...); err != nil {
		return fmt.Errorf("soft delete existing squad picks: %w", err)
	}

	for _, pick := range squad.Picks {
		pickSQL, pickArgs, err := qb.InsertModel("fantasy_squad_picks", squadPickInsertModel{
			SquadID:  squad.ID,
			PlayerID: pick.PlayerID,
			TeamID:   pick.TeamID,
			Position: string(pick.Position),
			Price:    pick.Price,
		}, "")
		if err != nil {
			return fmt.Errorf("build insert squad pick player=%s query: %w", pick.PlayerID, err)
		}
		if _, err := tx.ExecContext(ctx, pickSQL, pickArgs...); err != nil {
			return fmt.Errorf("insert squad pick player=%s: %w", pick.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit squad upsert tx: %w", err)
	}

	return nil
}

func insertSquad(ctx context.Context, tx *sqlx.Tx, squad fantasy.Squad) error {
	query, args, err := qb.InsertModel("fantasy_squads", squadInsertFromDomain(squad),
		"ON CONFLICT (user_id, league_public_id) WHERE deleted_at IS NULL DO NOTHING RETURNING public_id")
	if err != nil {
		return fmt.Errorf("build insert squad query: %w", err)
	}

	var publicID string
	if err := tx.GetContext(ctx, &publicID, query, args...); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: squad for user=%s league=%s already exists", fantasy.ErrVersionConflict, squad.UserID, squad.LeagueID)
		}
		return fmt.Errorf("insert squad: %w", err)
	}
	return nil
}

func updateSquad(ctx context.Context, tx *sqlx.Tx, squad fantasy.Squad, expectedVersion int64) error {
	query, args, err := qb.Update("fantasy_squads").
		Set("name", squad.Name).
		Set("budget_cap", squad.BudgetCap).
		Set("total_cost", squad.Spent()).
		Set("captain_public_id", squad.CaptainID).
		Set("vice_captain_public_id", squad.ViceCaptainID).
		Set("free_transfers", squad.FreeTransfers).
		Set("version", squad.Version).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", squad.ID),
			qb.Eq("version", expectedVersion),
			qb.NotDeleted(),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update squad query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update squad: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read squad rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: squad=%s expected=%d", fantasy.ErrVersionConflict, squad.ID, expectedVersion)
	}
	return nil
}

func (r *SquadRepository) loadPicks(ctx context.Context, squadIDs []string) (map[string][]fantasy.SquadPick, error) {
	const picksQuery = `
SELECT squad_public_id, player_public_id, team_public_id, position, price
FROM fantasy_squad_picks
WHERE squad_public_id = ANY($1)
  AND deleted_at IS NULL
ORDER BY id`

	var rows []squadPickTableModel
	if err := r.db.SelectContext(ctx, &rows, picksQuery, pq.Array(squadIDs)); err != nil {
		return nil, fmt.Errorf("list squad picks: %w", err)
	}

	out := make(map[string][]fantasy.SquadPick, len(squadIDs))
	for _, row := range rows {
		out[row.SquadID] = append(out[row.SquadID], fantasy.SquadPick{
			PlayerID: row.PlayerID,
			TeamID:   row.TeamID,
			Position: player.Position(row.Position),
			Price:    row.Price,
		})
	}
	return out, nil
}

func squadFromRow(row squadTableModel, picks []fantasy.SquadPick) fantasy.Squad {
	if picks == nil {
		picks = []fantasy.SquadPick{}
	}
	return fantasy.Squad{
		ID:            row.PublicID,
		UserID:        row.UserID,
		LeagueID:      row.LeagueID,
		Name:          row.Name,
		Picks:         picks,
		BudgetCap:     row.BudgetCap,
		CaptainID:     row.CaptainID,
		ViceCaptainID: row.ViceCaptainID,
		FreeTransfers: row.FreeTransfers,
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func squadInsertFromDomain(squad fantasy.Squad) squadInsertModel {
	return squadInsertModel{
		PublicID:      squad.ID,
		UserID:        squad.UserID,
		LeagueID:      squad.LeagueID,
		Name:          squad.Name,
		BudgetCap:     squad.BudgetCap,
		TotalCost:     squad.Spent(),
		CaptainID:     squad.CaptainID,
		ViceCaptainID: squad.ViceCaptainID,
		FreeTransfers: squad.FreeTransfers,
		Version:       squad.Version,
	}
}
