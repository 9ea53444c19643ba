// Package importer loads roster and play-by-play CSV exports into storage.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// Store is the write side of storage used by imports.
type Store interface {
	TeamByName(ctx context.Context, name string) (*model.Team, error)
	InsertTeam(ctx context.Context, t model.Team) (int64, error)
	PlayerExists(ctx context.Context, name string) (bool, error)
	InsertPlayer(ctx context.Context, p model.Player) (model.PlayerID, error)
	PlayerIDsByName(ctx context.Context) (map[string]model.PlayerID, error)
	EventTitleExists(ctx context.Context, title string) (bool, error)
	InsertEvents(ctx context.Context, events []model.Event) error
}

// Recorder receives per-run row counts. *telemetry.Metrics satisfies it.
type Recorder interface {
	ImportRows(kind string, inserted, skipped int)
}

// Result counts rows written and rows skipped as already present.
type Result struct {
	Inserted int
	Skipped  int
}

type Importer struct {
	store    Store
	logger   zerolog.Logger
	recorder Recorder

	// CreateTeams inserts roster teams that do not exist yet instead of
	// leaving the player without a team.
	CreateTeams bool
}

func New(store Store, logger zerolog.Logger, recorder Recorder) *Importer {
	return &Importer{store: store, logger: logger, recorder: recorder}
}

func (im *Importer) record(kind string, res Result) {
	if im.recorder != nil {
		im.recorder.ImportRows(kind, res.Inserted, res.Skipped)
	}
}

// table is a CSV body addressed by header name.
type table struct {
	reader *csv.Reader
	index  map[string]int
	line   int
}

func newTable(r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return &table{reader: cr, index: index, line: 1}, nil
}

// next returns the following row, or io.EOF.
func (t *table) next() (row, error) {
	rec, err := t.reader.Read()
	if err != nil {
		return row{}, err
	}
	t.line++
	return row{rec: rec, index: t.index, line: t.line}, nil
}

type row struct {
	rec   []string
	index map[string]int
	line  int
}

// get returns the trimmed value of col, or "" when the row is short or the
// column absent.
func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}
