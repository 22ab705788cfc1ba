package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows to be not found")
	}
	if !isNotFound(fmt.Errorf("get squad: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fmt.Errorf("pq: relation fantasy_squads does not exist")) {
		t.Fatalf("expected unrelated error to be ignored")
	}
}

func TestSquadFromRow(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	row := squadTableModel{
		PublicID:      "squad-001",
		UserID:        "user-1",
		LeagueID:      "idn-liga-1-2025",
		Name:          "Garuda XI",
		BudgetCap:     1000,
		CaptainID:     "idn-fwd-01",
		ViceCaptainID: "idn-mid-02",
		FreeTransfers: 2,
		Version:       7,
		CreatedAt:     createdAt,
	}

	got := squadFromRow(row, nil)
	require.NotNil(t, got.Picks, "squads without picks must carry an empty slice")
	require.Empty(t, got.Picks)
	require.Equal(t, int64(7), got.Version)
	require.Equal(t, "idn-mid-02", got.ViceCaptainID)
	require.Equal(t, 2, got.FreeTransfers)
	require.Equal(t, createdAt, got.CreatedAt)
}

func TestSquadInsertFromDomainDerivesTotalCost(t *testing.T) {
	squad := fantasy.Squad{
		ID:        "squad-001",
		UserID:    "user-1",
		LeagueID:  "idn-liga-1-2025",
		Name:      "Garuda XI",
		BudgetCap: 1000,
		Version:   1,
		Picks: []fantasy.SquadPick{
			{PlayerID: "idn-fwd-01", TeamID: "idn-persija", Position: player.PositionForward, Price: 95},
			{PlayerID: "idn-gk-02", TeamID: "idn-persib", Position: player.PositionGoalkeeper, Price: 45},
		},
	}

	got := squadInsertFromDomain(squad)
	require.Equal(t, int64(140), got.TotalCost)
	require.Equal(t, int64(1), got.Version)
}

func TestPlayerRowRoundTripKeepsInformationalFields(t *testing.T) {
	in := player.Player{
		ID:           "idn-mid-01",
		LeagueID:     "idn-liga-1-2025",
		TeamID:       "idn-persija",
		Name:         "Maciej Gajos",
		Position:     player.PositionMidfielder,
		Price:        75,
		Form:         3.4,
		TotalPoints:  26,
		OwnershipPct: 6.3,
		TransfersIn:  120,
	}

	insert := playerInsertFromDomain(in)
	require.True(t, insert.IsActive)

	row := playerTableModel{
		PublicID:     insert.PublicID,
		LeagueID:     insert.LeagueID,
		TeamID:       insert.TeamID,
		Name:         insert.Name,
		Position:     insert.Position,
		Price:        insert.Price,
		Form:         insert.Form,
		TotalPoints:  insert.TotalPoints,
		OwnershipPct: insert.OwnershipPct,
		TransfersIn:  insert.TransfersIn,
	}
	require.Equal(t, in, row.toDomain())
}
