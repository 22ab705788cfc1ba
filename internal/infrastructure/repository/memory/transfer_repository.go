package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
)

type TransferRepository struct {
	mu      sync.RWMutex
	bySquad map[string][]fantasy.TransferRecord
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{bySquad: make(map[string][]fantasy.TransferRecord)}
}

func (r *TransferRepository) Append(_ context.Context, record fantasy.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.OutPlayerIDs = slices.Clone(record.OutPlayerIDs)
	record.InPlayerIDs = slices.Clone(record.InPlayerIDs)
	r.bySquad[record.SquadID] = append(r.bySquad[record.SquadID], record)
	return nil
}

// ListBySquad returns records oldest first.
func (r *TransferRepository) ListBySquad(_ context.Context, squadID string) ([]fantasy.TransferRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.bySquad[squadID]
	out := make([]fantasy.TransferRecord, 0, len(rows))
	for _, row := range rows {
		row.OutPlayerIDs = slices.Clone(row.OutPlayerIDs)
		row.InPlayerIDs = slices.Clone(row.InPlayerIDs)
		out = append(out, row)
	}
	return out, nil
}
