package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var (
	exportFilter   model.EventFilter
	exportFullLine bool
	exportOut      string
)

// exportDoc is the JSON schema written by export.
type exportDoc struct {
	GeneratedAt string            `json:"generated_at"`
	Filters     model.EventFilter `json:"filters"`
	FullLine    bool              `json:"full_line"`
	analytics.Summary
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every metric as one JSON document",
	Long: `Compute every metric and write them as a single JSON document, for dashboards
or for comparing seasons.

Examples:
  ultimetrics export --out classy-2016.json
  ultimetrics export --tournament "US Open" --full-line`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addEventFilterFlags(exportCmd, &exportFilter)
	exportCmd.Flags().BoolVar(&exportFullLine, "full-line", false, "only points with a complete seven-player lineup")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
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

	snap, err := svc.Snapshot(cmd.Context(), service.Query{Filter: exportFilter, FullLine: exportFullLine})
	if err != nil {
		return err
	}
	doc := exportDoc{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Filters:     exportFilter,
		FullLine:    exportFullLine,
		Summary:     snap.Summarize(),
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	b = append(b, '\n')
	if exportOut == "" {
		_, err = os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(exportOut, b, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d events, %d points)\n", exportOut, doc.Events, doc.Points)
	return nil
}
