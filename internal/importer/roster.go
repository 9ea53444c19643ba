package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pable/go-ulti-metrics/internal/model"
)

const KindRoster = "roster"

var rosterColumns = []string{"Name", "Gender", "Position", "OD", "Team"}

// Roster imports a Name,Gender,Position,OD,Team CSV. Players whose name is
// already stored are skipped. Teams are resolved by name.
func (im *Importer) Roster(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	t, err := newTable(r, rosterColumns)
	if err != nil {
		return res, fmt.Errorf("roster: %w", err)
	}

	teams := make(map[string]int64)
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("roster line %d: %w", t.line+1, err)
		}

		name := row.get("Name")
		if name == "" {
			im.logger.Warn().Int("line", row.line).Msg("skipping roster row without a name")
			res.Skipped++
			continue
		}
		exists, err := im.store.PlayerExists(ctx, name)
		if err != nil {
			return res, fmt.Errorf("roster line %d: %w", row.line, err)
		}
		if exists {
			im.logger.Debug().Str("player", name).Msg("player already stored, skipping")
			res.Skipped++
			continue
		}

		teamID, err := im.resolveTeam(ctx, teams, row.get("Team"))
		if err != nil {
			return res, fmt.Errorf("roster line %d: %w", row.line, err)
		}
		p := model.Player{
			Name:     name,
			Gender:   row.get("Gender"),
			Position: row.get("Position"),
			OD:       row.get("OD"),
			TeamID:   teamID,
		}
		if _, err := im.store.InsertPlayer(ctx, p); err != nil {
			return res, fmt.Errorf("roster line %d: %w", row.line, err)
		}
		im.logger.Debug().Str("player", name).Int64("team_id", teamID).Msg("player added")
		res.Inserted++
	}

	im.record(KindRoster, res)
	im.logger.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("roster imported")
	return res, nil
}

// resolveTeam maps a team name to its ID, 0 for no team.
func (im *Importer) resolveTeam(ctx context.Context, cache map[string]int64, name string) (int64, error) {
	if name == "" {
		return 0, nil
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}
	team, err := im.store.TeamByName(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("look up team %q: %w", name, err)
	}
	var id int64
	switch {
	case team != nil:
		id = team.ID
	case im.CreateTeams:
		id, err = im.store.InsertTeam(ctx, model.Team{Name: name})
		if err != nil {
			return 0, err
		}
		im.logger.Info().Str("team", name).Int64("team_id", id).Msg("team created")
	default:
		im.logger.Warn().Str("team", name).Msg("unknown team, player stored without one")
	}
	cache[name] = id
	return id, nil
}
