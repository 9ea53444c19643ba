package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// ---- Teams ----

// InsertTeam stores a team and returns its ID.
func (db *DB) InsertTeam(ctx context.Context, t model.Team) (int64, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx, db.rebind(
		`INSERT INTO teams(name, region) VALUES (?, ?) RETURNING id`),
		t.Name, t.Region,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert team %q: %w", t.Name, err)
	}
	return id, nil
}

// TeamByName returns the first team with the given name, or nil.
func (db *DB) TeamByName(ctx context.Context, name string) (*model.Team, error) {
	var t model.Team
	var region sql.NullString
	err := db.conn.QueryRowContext(ctx, db.rebind(
		`SELECT id, name, region FROM teams WHERE name = ? ORDER BY id LIMIT 1`), name).
		Scan(&t.ID, &t.Name, &region)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Region = region.String
	return &t, nil
}

// ListTeams returns all teams ordered by name.
func (db *DB) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name, region FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Team
	for rows.Next() {
		var t model.Team
		var name, region sql.NullString
		if err := rows.Scan(&t.ID, &name, &region); err != nil {
			return nil, err
		}
		t.Name, t.Region = name.String, region.String
		out = append(out, t)
	}
	return out, rows.Err()
}

// ---- Players ----

// InsertPlayer stores a player and returns the assigned ID.
func (db *DB) InsertPlayer(ctx context.Context, p model.Player) (model.PlayerID, error) {
	var id int64
	err := db.conn.QueryRowContext(ctx, db.rebind(`
		INSERT INTO players(name, gender, position, od, team_id)
		VALUES (?, ?, ?, ?, ?) RETURNING id`),
		p.Name, p.Gender, p.Position, p.OD, nullInt(p.TeamID),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert player %q: %w", p.Name, err)
	}
	return model.PlayerID(id), nil
}

// PlayerExists reports whether a player with this name is stored.
func (db *DB) PlayerExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, db.rebind(`SELECT COUNT(1) FROM players WHERE name = ?`), name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Players returns the players matching filter in ID order.
func (db *DB) Players(ctx context.Context, filter model.PlayerFilter) ([]model.Player, error) {
	var where []string
	var args []any
	if filter.TeamID != 0 {
		where = append(where, "team_id = ?")
		args = append(args, filter.TeamID)
	}
	if filter.Gender != "" {
		where = append(where, "gender = ?")
		args = append(args, filter.Gender)
	}
	if filter.Position != "" {
		where = append(where, "position = ?")
		args = append(args, filter.Position)
	}

	q := `SELECT id, name, gender, position, od, team_id FROM players`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := db.conn.QueryContext(ctx, db.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		var id int64
		var name, gender, position, od sql.NullString
		var teamID sql.NullInt64
		if err := rows.Scan(&id, &name, &gender, &position, &od, &teamID); err != nil {
			return nil, err
		}
		p.ID = model.PlayerID(id)
		p.Name, p.Gender, p.Position, p.OD = name.String, gender.String, position.String, od.String
		p.TeamID = teamID.Int64
		out = append(out, p)
	}
	return out, rows.Err()
}

// PlayerIDsByName maps every stored player name to its ID. When names repeat
// across teams the lowest ID wins.
func (db *DB) PlayerIDsByName(ctx context.Context) (map[string]model.PlayerID, error) {
	players, err := db.Players(ctx, model.PlayerFilter{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.PlayerID, len(players))
	for _, p := range players {
		if _, ok := out[p.Name]; !ok {
			out[p.Name] = p.ID
		}
	}
	return out, nil
}

// ---- Events ----

const eventColumns = `id, title, date, tournament, opponent, seconds_elapsed, line,
	our_score, their_score, event_type, action, passer, receiver, defender,
	player_1, player_2, player_3, player_4, player_5, player_6, player_7`

// EventTitleExists reports whether an event with this title was imported.
func (db *DB) EventTitleExists(ctx context.Context, title string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, db.rebind(`SELECT COUNT(1) FROM events WHERE title = ?`), title).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertEvents bulk-inserts events in a transaction, preserving slice order
// as ID order.
func (db *DB) InsertEvents(ctx context.Context, events []model.Event) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, db.rebind(`
		INSERT INTO events(
			title, date, tournament, opponent, seconds_elapsed, line,
			our_score, their_score, event_type, action, passer, receiver, defender,
			player_1, player_2, player_3, player_4, player_5, player_6, player_7
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		_, err = stmt.ExecContext(ctx,
			e.Title, e.Date, e.Tournament, e.Opponent, e.SecondsElapsed, e.Line,
			e.OurScore, e.TheirScore, e.EventType, e.Action,
			nullID(e.Passer), nullID(e.Receiver), nullID(e.Defender),
			nullID(e.Lineup[0]), nullID(e.Lineup[1]), nullID(e.Lineup[2]), nullID(e.Lineup[3]),
			nullID(e.Lineup[4]), nullID(e.Lineup[5]), nullID(e.Lineup[6]),
		)
		if err != nil {
			return fmt.Errorf("insert event %q: %w", e.Title, err)
		}
	}
	return tx.Commit()
}

// Events returns the events matching filter in import (ID) order.
func (db *DB) Events(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	var where []string
	var args []any
	for _, f := range []struct {
		col, val string
	}{
		{"tournament", filter.Tournament},
		{"opponent", filter.Opponent},
		{"date", filter.Date},
		{"line", filter.Line},
	} {
		if f.val != "" {
			where = append(where, f.col+" = ?")
			args = append(args, f.val)
		}
	}

	q := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"

	rows, err := db.conn.QueryContext(ctx, db.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEvent(rows *sql.Rows) (model.Event, error) {
	var e model.Event
	var title, date, tournament, opponent, line, eventType, action sql.NullString
	var secs, our, their sql.NullInt64
	var passer, receiver, defender sql.NullInt64
	var lineup [model.LineupSize]sql.NullInt64
	err := rows.Scan(
		&e.ID, &title, &date, &tournament, &opponent, &secs, &line,
		&our, &their, &eventType, &action, &passer, &receiver, &defender,
		&lineup[0], &lineup[1], &lineup[2], &lineup[3], &lineup[4], &lineup[5], &lineup[6],
	)
	if err != nil {
		return e, err
	}
	e.Title, e.Date, e.Tournament, e.Opponent = title.String, date.String, tournament.String, opponent.String
	e.SecondsElapsed = int(secs.Int64)
	e.Line, e.EventType, e.Action = line.String, eventType.String, action.String
	e.OurScore, e.TheirScore = int(our.Int64), int(their.Int64)
	e.Passer = model.PlayerID(passer.Int64)
	e.Receiver = model.PlayerID(receiver.Int64)
	e.Defender = model.PlayerID(defender.Int64)
	for i, slot := range lineup {
		e.Lineup[i] = model.PlayerID(slot.Int64)
	}
	return e, nil
}

func nullID(id model.PlayerID) any {
	if !id.Valid() {
		return nil
	}
	return int64(id)
}

func nullInt(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
