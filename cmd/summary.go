package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/report"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display what is stored: team, player and event counts, the date range,
and how the roster splits by gender and position.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	ov, err := db.GetDBOverview(ctx)
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Players == 0 && ov.Events == 0 {
		fmt.Fprintln(os.Stdout, "Nothing stored yet. Run 'ultimetrics import roster <file.csv>' to start.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n=== Database Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Teams         : %d\n", ov.Teams)
	fmt.Fprintf(os.Stdout, "  Players       : %d\n", ov.Players)
	fmt.Fprintf(os.Stdout, "  Events        : %d\n", ov.Events)
	fmt.Fprintf(os.Stdout, "  Games         : %d\n", ov.Games)
	fmt.Fprintf(os.Stdout, "  Tournaments   : %d\n", ov.Tournaments)
	if ov.Events > 0 {
		fmt.Fprintf(os.Stdout, "  Date range    : %s → %s\n", ov.EarliestDate, ov.LatestDate)
	}

	players, err := db.Players(ctx, model.PlayerFilter{})
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	type cell struct{ gender, position string }
	counts := make(map[cell]int)
	for _, p := range players {
		counts[cell{p.Gender, p.Position}]++
	}

	fmt.Fprintf(os.Stdout, "\n--- Roster ---\n\n")
	t := report.NewTable(os.Stdout)
	t.Header("GENDER", "HANDLERS", "CUTTERS", "OTHER", "TOTAL")
	for _, g := range []string{model.GenderFemale, model.GenderMale} {
		h, c := counts[cell{g, model.PositionHandler}], counts[cell{g, model.PositionCutter}]
		total := 0
		for k, n := range counts {
			if k.gender == g {
				total += n
			}
		}
		t.Append(g, strconv.Itoa(h), strconv.Itoa(c), strconv.Itoa(total-h-c), strconv.Itoa(total))
	}
	t.Render()
	return nil
}
