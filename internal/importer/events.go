package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-ulti-metrics/internal/model"
)

const KindEvents = "events"

// Column names of the ultianalytics team export. "Tournamemnt" is spelled the
// way the export spells it.
const (
	colDate       = "Date/Time"
	colTournament = "Tournamemnt"
	colOpponent   = "Opponent"
	colElapsed    = "Point Elapsed Seconds"
	colLine       = "Line"
	colOurScore   = "Our Score - End of Point"
	colTheirScore = "Their Score - End of Point"
	colEventType  = "Event Type"
	colAction     = "Action"
	colPasser     = "Passer"
	colReceiver   = "Receiver"
	colDefender   = "Defender"
)

var eventColumns = []string{
	colDate, colTournament, colOpponent, colElapsed, colLine, colOurScore,
	colTheirScore, colEventType, colAction, colPasser, colReceiver, colDefender,
}

func lineupColumn(i int) string { return "Player " + strconv.Itoa(i) }

// Play describes an event in words, e.g. "Ana to Ben" or "Pull by Cal".
func Play(action, passer, receiver, defender string) string {
	switch action {
	case model.ActionCatch:
		return fmt.Sprintf("%s to %s", passer, receiver)
	case model.ActionDrop:
		return "Drop by " + receiver
	case model.ActionD:
		return "Block by " + defender
	case model.ActionGoal:
		return fmt.Sprintf("Goal from %s to %s", passer, receiver)
	case model.ActionPull:
		return "Pull by " + defender
	case model.ActionPullOb:
		return "OB pull by " + defender
	case model.ActionThrowaway:
		return "Throwaway by " + passer
	}
	return "Unknown play"
}

// Title is the dedup key of an imported event:
// "tournament > opponent > our-their > play". Two identical plays in one
// point collapse into one.
func Title(tournament, opponent, ourScore, theirScore, play string) string {
	return fmt.Sprintf("%s > %s > %s-%s > %s", tournament, opponent, ourScore, theirScore, play)
}

// Events imports an ultianalytics play-by-play export. Player names are
// resolved against the stored roster; unknown or blank names become null
// references. Rows whose title is already stored, or repeats an earlier row of
// the same file, are skipped. Accepted rows are written in file order in one
// transaction.
func (im *Importer) Events(ctx context.Context, r io.Reader) (Result, error) {
	var res Result
	t, err := newTable(r, eventColumns)
	if err != nil {
		return res, fmt.Errorf("events: %w", err)
	}
	names, err := im.store.PlayerIDsByName(ctx)
	if err != nil {
		return res, fmt.Errorf("events: load players: %w", err)
	}
	resolve := func(name string) model.PlayerID {
		if name == "" {
			return model.NoPlayer
		}
		id, ok := names[name]
		if !ok {
			im.logger.Debug().Str("player", name).Msg("unknown player name, storing null")
		}
		return id
	}

	seen := make(map[string]struct{})
	var batch []model.Event
	for {
		row, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("events line %d: %w", t.line+1, err)
		}

		e, err := parseEvent(row, resolve)
		if err != nil {
			return res, fmt.Errorf("events line %d: %w", row.line, err)
		}
		if _, dup := seen[e.Title]; dup {
			res.Skipped++
			continue
		}
		seen[e.Title] = struct{}{}
		exists, err := im.store.EventTitleExists(ctx, e.Title)
		if err != nil {
			return res, fmt.Errorf("events line %d: %w", row.line, err)
		}
		if exists {
			im.logger.Debug().Str("title", e.Title).Msg("event already stored, skipping")
			res.Skipped++
			continue
		}
		batch = append(batch, e)
	}

	if len(batch) > 0 {
		if err := im.store.InsertEvents(ctx, batch); err != nil {
			return Result{Skipped: res.Skipped}, fmt.Errorf("events: %w", err)
		}
	}
	res.Inserted = len(batch)
	im.record(KindEvents, res)
	im.logger.Info().Int("inserted", res.Inserted).Int("skipped", res.Skipped).Msg("events imported")
	return res, nil
}

func parseEvent(r row, resolve func(string) model.PlayerID) (model.Event, error) {
	our, their := r.get(colOurScore), r.get(colTheirScore)
	e := model.Event{
		Date:       r.get(colDate),
		Tournament: r.get(colTournament),
		Opponent:   r.get(colOpponent),
		Line:       r.get(colLine),
		EventType:  r.get(colEventType),
		Action:     r.get(colAction),
		Passer:     resolve(r.get(colPasser)),
		Receiver:   resolve(r.get(colReceiver)),
		Defender:   resolve(r.get(colDefender)),
	}

	var err error
	if e.SecondsElapsed, err = atoi(colElapsed, r.get(colElapsed)); err != nil {
		return e, err
	}
	if e.OurScore, err = atoi(colOurScore, our); err != nil {
		return e, err
	}
	if e.TheirScore, err = atoi(colTheirScore, their); err != nil {
		return e, err
	}
	for i := range e.Lineup {
		e.Lineup[i] = resolve(r.get(lineupColumn(i)))
	}

	play := Play(e.Action, r.get(colPasser), r.get(colReceiver), r.get(colDefender))
	e.Title = Title(e.Tournament, e.Opponent, our, their, play)
	return e, nil
}

// atoi parses a numeric column; blank means 0.
func atoi(col, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("column %q: %q is not a number", col, v)
	}
	return n, nil
}
