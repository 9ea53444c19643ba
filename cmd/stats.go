package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var (
	statsFilter    model.EventFilter
	statsFullLine  bool
	statsJSON      bool
	statsBreakdown string
	statsPosition  string
	statsLine      string
)

var statsCmd = &cobra.Command{
	Use:   "stats <metric>",
	Short: "Compute a gender metric over stored events",
	Long: `Compute one metric over the stored events and print it as a table (or JSON).

Metrics:
  receives      catches, goals and drops by receiver gender (--breakdown 4-3|3-4)
  goals         goals by receiver gender
  dees          blocks by defender gender
  passes        passes attempted (completed or not) by thrower gender
  position      receives by a position cohort (--position handlers|cutters)
  handlers      handler lines on the field, keyed male-female
  contribution  scoring involvement on won and lost points
  conversion    points won per possession by line (--line O|D)
  lines         points per line composition
  all           everything above`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: service.Metrics,
	RunE:      runStats,
}

func init() {
	addEventFilterFlags(statsCmd, &statsFilter)
	statsCmd.Flags().BoolVar(&statsFullLine, "full-line", false, "only points with a complete seven-player lineup")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON instead of a table")
	statsCmd.Flags().StringVar(&statsBreakdown, "breakdown", "", "receives: only points with this composition (4-3 or 3-4)")
	statsCmd.Flags().StringVar(&statsPosition, "position", "", "position: handlers or cutters (default handlers)")
	statsCmd.Flags().StringVar(&statsLine, "line", "", "conversion: O or D (default both)")
}

func runStats(cmd *cobra.Command, args []string) error {
	req := service.Request{
		Metric:    strings.ToLower(args[0]),
		Breakdown: statsBreakdown,
		Position:  statsPosition,
		Line:      statsLine,
	}
	if err := req.Validate(); err != nil {
		return err
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

	result, err := svc.Stat(cmd.Context(), service.Query{Filter: statsFilter, FullLine: statsFullLine}, req)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	label := req.Metric
	if req.Breakdown != "" {
		label += " (" + req.Breakdown + ")"
	}
	if req.Metric == service.MetricPosition {
		label = "receives (" + orDefault(req.Position, "handlers") + ")"
	}
	fmt.Fprintln(os.Stdout)
	return report.PrintStat(os.Stdout, label, result)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
