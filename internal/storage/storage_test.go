package storage

import (
	"context"
	"testing"

	"github.com/pable/go-ulti-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTeamInsertAndLookup(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	id, err := db.InsertTeam(ctx, model.Team{Name: "Classy", Region: "Northwest"})
	if err != nil {
		t.Fatalf("InsertTeam: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero team id")
	}

	team, err := db.TeamByName(ctx, "Classy")
	if err != nil {
		t.Fatalf("TeamByName: %v", err)
	}
	if team == nil || team.ID != id || team.Region != "Northwest" {
		t.Errorf("unexpected team %+v", team)
	}

	missing, err := db.TeamByName(ctx, "Nobody")
	if err != nil {
		t.Fatalf("TeamByName missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown team")
	}

	teams, err := db.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams: %v", err)
	}
	if len(teams) != 1 {
		t.Errorf("expected 1 team, got %d", len(teams))
	}
}

func TestPlayersFilter(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	teamID, _ := db.InsertTeam(ctx, model.Team{Name: "Classy"})
	roster := []model.Player{
		{Name: "Ana", Gender: "F", Position: "Handler", OD: "O", TeamID: teamID},
		{Name: "Ben", Gender: "M", Position: "Cutter", OD: "D", TeamID: teamID},
		{Name: "Cal", Gender: "M", Position: "Handler"},
	}
	for _, p := range roster {
		if _, err := db.InsertPlayer(ctx, p); err != nil {
			t.Fatalf("InsertPlayer: %v", err)
		}
	}

	all, err := db.Players(ctx, model.PlayerFilter{})
	if err != nil {
		t.Fatalf("Players: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 players, got %d", len(all))
	}
	if all[0].Name != "Ana" || all[0].TeamID != teamID || all[0].OD != "O" {
		t.Errorf("Ana mismatch: %+v", all[0])
	}
	if all[2].TeamID != 0 {
		t.Errorf("Cal should have no team, got %d", all[2].TeamID)
	}

	men, _ := db.Players(ctx, model.PlayerFilter{Gender: "M"})
	if len(men) != 2 {
		t.Errorf("expected 2 male players, got %d", len(men))
	}
	handlersOnTeam, _ := db.Players(ctx, model.PlayerFilter{TeamID: teamID, Position: "Handler"})
	if len(handlersOnTeam) != 1 || handlersOnTeam[0].Name != "Ana" {
		t.Errorf("expected only Ana, got %+v", handlersOnTeam)
	}

	exists, _ := db.PlayerExists(ctx, "Ben")
	if !exists {
		t.Error("expected Ben to exist")
	}
	names, err := db.PlayerIDsByName(ctx)
	if err != nil {
		t.Fatalf("PlayerIDsByName: %v", err)
	}
	if names["Ben"] != all[1].ID {
		t.Errorf("Ben id: want %d, got %d", all[1].ID, names["Ben"])
	}
}

func TestEventsRoundTripPreservesOrderAndNulls(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	var ids []model.PlayerID
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		id, err := db.InsertPlayer(ctx, model.Player{Name: name, Gender: "F"})
		if err != nil {
			t.Fatalf("InsertPlayer: %v", err)
		}
		ids = append(ids, id)
	}
	var lineup model.Lineup
	copy(lineup[:], ids)

	events := []model.Event{
		{Title: "t1", Date: "2016-07-09", Tournament: "Boston Invite", Opponent: "Montréal",
			Line: "O", OurScore: 1, EventType: "Offense", Action: "Catch",
			Passer: ids[0], Receiver: ids[1], Lineup: lineup, SecondsElapsed: 12},
		{Title: "t2", Date: "2016-07-09", Tournament: "Boston Invite", Opponent: "Montréal",
			Line: "O", OurScore: 1, EventType: "Offense", Action: "Goal",
			Passer: ids[1], Receiver: ids[2]},
		{Title: "t0", Date: "2016-07-08", Tournament: "Boston Invite", Opponent: "Slow White",
			Line: "D", TheirScore: 1, EventType: "Defense", Action: "Goal"},
	}
	if err := db.InsertEvents(ctx, events); err != nil {
		t.Fatalf("InsertEvents: %v", err)
	}

	got, err := db.Events(ctx, model.EventFilter{})
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	// Import order, not date order.
	if got[0].Title != "t1" || got[2].Title != "t0" {
		t.Errorf("unexpected order: %s, %s, %s", got[0].Title, got[1].Title, got[2].Title)
	}
	if got[0].Lineup != lineup {
		t.Errorf("lineup mismatch: %v", got[0].Lineup)
	}
	if got[0].Opponent != "Montréal" {
		t.Errorf("opponent bytes changed: %q", got[0].Opponent)
	}
	if got[1].Lineup != (model.Lineup{}) {
		t.Errorf("expected empty lineup on second event, got %v", got[1].Lineup)
	}
	if got[2].Receiver.Valid() || got[2].Passer.Valid() {
		t.Error("expected null passer/receiver on opponent goal")
	}
	if got[0].SecondsElapsed != 12 {
		t.Errorf("seconds elapsed: want 12, got %d", got[0].SecondsElapsed)
	}

	dline, _ := db.Events(ctx, model.EventFilter{Line: "D"})
	if len(dline) != 1 {
		t.Errorf("expected 1 D-line event, got %d", len(dline))
	}
	vsSlow, _ := db.Events(ctx, model.EventFilter{Opponent: "Slow White", Tournament: "Boston Invite"})
	if len(vsSlow) != 1 {
		t.Errorf("expected 1 event vs Slow White, got %d", len(vsSlow))
	}

	exists, _ := db.EventTitleExists(ctx, "t2")
	if !exists {
		t.Error("expected title t2 to exist")
	}
}

func TestOverviewAndQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	db.InsertTeam(ctx, model.Team{Name: "Classy"})
	db.InsertPlayer(ctx, model.Player{Name: "Ana", Gender: "F"})
	db.InsertEvents(ctx, []model.Event{
		{Title: "a", Date: "2016-07-08", Opponent: "X", Tournament: "T1"},
		{Title: "b", Date: "2016-07-09", Opponent: "Y", Tournament: "T1"},
		{Title: "c", Date: "2016-07-09", Opponent: "Y", Tournament: "T2"},
	})

	ov, err := db.GetDBOverview(ctx)
	if err != nil {
		t.Fatalf("GetDBOverview: %v", err)
	}
	if ov.Teams != 1 || ov.Players != 1 || ov.Events != 3 || ov.Games != 2 || ov.Tournaments != 2 {
		t.Errorf("unexpected overview %+v", ov)
	}
	if ov.EarliestDate != "2016-07-08" || ov.LatestDate != "2016-07-09" {
		t.Errorf("unexpected date range %s..%s", ov.EarliestDate, ov.LatestDate)
	}

	cols, rows, err := db.QueryRaw(ctx, "SELECT title, passer FROM events ORDER BY id")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || len(rows) != 3 {
		t.Fatalf("unexpected shape: %v / %d rows", cols, len(rows))
	}
	if rows[0][0] != "a" || rows[0][1] != "NULL" {
		t.Errorf("unexpected first row %v", rows[0])
	}
}

func TestRebind(t *testing.T) {
	db := &DB{driver: DriverPostgres}
	got := db.rebind("SELECT 1 FROM t WHERE a = ? AND b = ?")
	if got != "SELECT 1 FROM t WHERE a = $1 AND b = $2" {
		t.Errorf("unexpected rebind: %s", got)
	}
	sqlite := &DB{driver: DriverSQLite}
	if q := sqlite.rebind("a = ?"); q != "a = ?" {
		t.Errorf("sqlite query should be unchanged, got %s", q)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/metrics.db"
	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.InsertTeam(context.Background(), model.Team{Name: "Classy"})
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second open should not re-apply migrations: %v", err)
	}
	defer db2.Close()
	teams, _ := db2.ListTeams(context.Background())
	if len(teams) != 1 {
		t.Errorf("expected team to survive reopen, got %d", len(teams))
	}
}
