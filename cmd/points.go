package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var (
	pointsFilter      model.EventFilter
	pointsFullLine    bool
	pointsComposition string
)

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List points with their line composition and result",
	Long: `Group stored events into points (same date, opponent and score) and print one
row per point in the order the points were first seen.`,
	Args: cobra.NoArgs,
	RunE: runPoints,
}

func init() {
	addEventFilterFlags(pointsCmd, &pointsFilter)
	pointsCmd.Flags().BoolVar(&pointsFullLine, "full-line", false, "only points with a complete seven-player lineup")
	pointsCmd.Flags().StringVar(&pointsComposition, "composition", "", "only points with this line composition (4-3 or 3-4)")
}

// addEventFilterFlags registers the event filter flags shared by points, stats,
// export and analyze.
func addEventFilterFlags(cmd *cobra.Command, f *model.EventFilter) {
	cmd.Flags().StringVar(&f.Tournament, "tournament", "", "only events from this tournament")
	cmd.Flags().StringVar(&f.Opponent, "opponent", "", "only events against this opponent")
	cmd.Flags().StringVar(&f.Date, "date", "", "only events with this date value")
	cmd.Flags().StringVar(&f.Line, "line-type", "", "only events played by this line (O or D)")
}

func runPoints(cmd *cobra.Command, _ []string) error {
	var comp points.Composition
	if pointsComposition != "" {
		c, err := points.ParseComposition(pointsComposition)
		if err != nil {
			return err
		}
		comp = c
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	svc, cleanup, err := newService(cmd.Context(), db, telemetry.New())
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := svc.Snapshot(cmd.Context(), service.Query{Filter: pointsFilter, FullLine: pointsFullLine})
	if err != nil {
		return err
	}
	pts := snap.Points
	if comp != "" {
		pts = points.WithComposition(pts, snap.Cohorts.Male, comp)
	}
	if len(pts) == 0 {
		fmt.Fprintln(os.Stdout, "No points match.")
		return nil
	}

	players, err := db.Players(cmd.Context(), model.PlayerFilter{})
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	names := make(map[model.PlayerID]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}

	report.PrintPoints(os.Stdout, pts, snap.Cohorts, names)
	fmt.Fprintf(os.Stdout, "\n(%d points)\n", len(pts))
	return nil
}
