package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// GetDBOverview counts what is stored.
func (db *DB) GetDBOverview(ctx context.Context) (model.DBOverview, error) {
	var ov model.DBOverview
	var earliest, latest sql.NullString
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(1) FROM teams),
			(SELECT COUNT(1) FROM players),
			(SELECT COUNT(1) FROM events),
			(SELECT COUNT(1) FROM (SELECT DISTINCT date, opponent FROM events) g),
			(SELECT COUNT(DISTINCT tournament) FROM events),
			(SELECT MIN(date) FROM events),
			(SELECT MAX(date) FROM events)`).
		Scan(&ov.Teams, &ov.Players, &ov.Events, &ov.Games, &ov.Tournaments, &earliest, &latest)
	if err != nil {
		return ov, fmt.Errorf("overview: %w", err)
	}
	ov.EarliestDate, ov.LatestDate = earliest.String, latest.String
	return ov, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
