package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  teams(id, name, region)
  players(id, name, gender, position, od, team_id)
  events(id, title, date, tournament, opponent, seconds_elapsed, line,
    our_score, their_score, event_type, action, passer, receiver, defender,
    player_1 .. player_7)

passer, receiver, defender and player_N reference players.id and may be NULL.
Example: ultimetrics sql "SELECT action, COUNT(*) FROM events GROUP BY action"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return printQuery(cmd, db, strings.Join(args, " "))
}

func printQuery(cmd *cobra.Command, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(cmd.Context(), query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := report.NewTable(os.Stdout)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
