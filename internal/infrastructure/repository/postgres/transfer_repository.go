package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

// TransferRepository stores the append-only transfer audit trail.
type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

func (r *TransferRepository) Append(ctx context.Context, record fantasy.TransferRecord) error {
	query, args, err := qb.InsertModel("fantasy_transfers", transferInsertModel{
		PublicID:          record.ID,
		SquadID:           record.SquadID,
		UserID:            record.UserID,
		LeagueID:          record.LeagueID,
		Gameweek:          record.Gameweek,
		OutPlayerIDs:      pq.StringArray(record.OutPlayerIDs),
		InPlayerIDs:       pq.StringArray(record.InPlayerIDs),
		FreeTransfersUsed: record.FreeTransfersUsed,
		PointCost:         record.PointCost,
		CreatedAt:         record.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return fmt.Errorf("build insert transfer record query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert transfer record=%s: %w", record.ID, err)
	}
	return nil
}

// ListBySquad returns records oldest first.
func (r *TransferRepository) ListBySquad(ctx context.Context, squadID string) ([]fantasy.TransferRecord, error) {
	query, args, err := qb.Select("*").From("fantasy_transfers").
		Where(qb.Eq("squad_public_id", squadID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transfer records query: %w", err)
	}

	var rows []transferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfer records: %w", err)
	}

	out := make([]fantasy.TransferRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.TransferRecord{
			ID:                row.PublicID,
			SquadID:           row.SquadID,
			UserID:            row.UserID,
			LeagueID:          row.LeagueID,
			Gameweek:          row.Gameweek,
			OutPlayerIDs:      []string(row.OutPlayerIDs),
			InPlayerIDs:       []string(row.InPlayerIDs),
			FreeTransfersUsed: row.FreeTransfersUsed,
			PointCost:         row.PointCost,
			CreatedAt:         row.CreatedAt,
		})
	}
	return out, nil
}
