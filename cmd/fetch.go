package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/importer"
	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
	"github.com/pable/go-ulti-metrics/internal/ultianalytics"
)

var (
	// fetchGames lists the team's games instead of importing.
	fetchGames bool
	// fetchSave keeps a copy of the downloaded export, zstd-compressed when
	// the name ends in .zst.
	fetchSave string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <team-id>",
	Short: "Download a team's play-by-play export from ultianalytics and import it",
	Long: `Downloads the CSV export of an ultianalytics team and imports it as events.
The team ID is the number in the team's ultianalytics URL.

Examples:
  ultimetrics fetch 5699535384870912
  ultimetrics fetch 5699535384870912 --save classy-2016.csv.zst
  ultimetrics fetch 5699535384870912 --games`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchGames, "games", false, "list the team's games and exit")
	fetchCmd.Flags().StringVar(&fetchSave, "save", "", "also write the downloaded CSV to this path")
}

func runFetch(cmd *cobra.Command, args []string) error {
	teamID := args[0]
	ctx := cmd.Context()
	client := ultianalytics.NewClient(cfg.UltianalyticsURL, cfg.UltianalyticsTimeout, log)

	if fetchGames {
		games, err := client.Games(ctx, teamID)
		if err != nil {
			return fmt.Errorf("list games: %w", err)
		}
		table := report.NewTable(os.Stdout)
		table.Header("ID", "TOURNAMENT", "OPPONENT", "SCORE")
		for _, g := range games {
			table.Append(g.GameID, g.Tournament, g.Opponent, strconv.Itoa(g.OurScore)+"-"+strconv.Itoa(g.TheirScore))
		}
		table.Render()
		return nil
	}

	fmt.Fprintf(os.Stderr, "Downloading export for team %s...\n", teamID)
	body, err := client.ExportCSV(ctx, teamID)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	if fetchSave != "" {
		if err := saveExport(fetchSave, body); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %s\n", fetchSave)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := importer.New(db, log, telemetry.New()).Events(ctx, bytes.NewReader(body))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d events for team %s (%d already present).\n", res.Inserted, teamID, res.Skipped)
	return nil
}

func saveExport(path string, body []byte) error {
	if !strings.HasSuffix(path, ".zst") {
		return os.WriteFile(path, body, 0644)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()
	return os.WriteFile(path, enc.EncodeAll(body, nil), 0644)
}
