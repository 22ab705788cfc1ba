package querybuilder

import (
	"testing"
	"time"
)

func TestSelectPlayersByTeam(t *testing.T) {
	query, args, err := Select("*").
		From("players").
		Where(Eq("league_public_id", "idn-liga-1-2025"), In("team_public_id", []any{"idn-persija", "idn-persib"}), NotDeleted()).
		OrderBy("id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT * FROM players WHERE league_public_id = $1 AND team_public_id IN ($2, $3) AND deleted_at IS NULL ORDER BY id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "idn-liga-1-2025" || args[2] != "idn-persib" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectEmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("players").Where(In("public_id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestSelectRequiresTable(t *testing.T) {
	if _, _, err := Select("*").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
}

type transferRow struct {
	PublicID  string    `db:"public_id"`
	PointCost int       `db:"point_cost"`
	CreatedAt time.Time `db:"created_at,omitempty"`
	Internal  string    `db:"-"`
	note      string
}

func TestInsertModel(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	row := transferRow{PublicID: "tr-1", PointCost: 4, CreatedAt: createdAt, Internal: "skip", note: "skip"}

	query, args, err := InsertModel("fantasy_transfers", &row, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fantasy_transfers (public_id, point_cost, created_at) VALUES ($1, $2, $3) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "tr-1" || args[1] != 4 || args[2] != createdAt {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelRejectsNonStruct(t *testing.T) {
	var row *transferRow
	if _, _, err := InsertModel("fantasy_transfers", row, ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, _, err := InsertModel("fantasy_transfers", "tr-1", ""); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
}

func TestUpdateForwardOnlyGameweek(t *testing.T) {
	query, args, err := Update("leagues").
		Set("current_gameweek", 5).
		SetExpr("updated_at", "NOW()").
		Where(Eq("public_id", "eng-premier-league-2025"), Expr("current_gameweek < ?", 5), NotDeleted()).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE leagues SET current_gameweek = $1, updated_at = NOW() WHERE public_id = $2 AND current_gameweek < $3 AND deleted_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 5 || args[1] != "eng-premier-league-2025" || args[2] != 5 {
		t.Fatalf("unexpected args: %+v", args)
	}
}
