package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/importer"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var importCreateTeams bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import roster or play-by-play CSV files",
	Long: `Import CSV exports into the database. Files ending in .zst or .gz are
decompressed on the fly. Rows already present are skipped, so re-importing a
file is safe.

Import the roster first: event rows reference players by name.`,
}

var importRosterCmd = &cobra.Command{
	Use:   "roster <file.csv>",
	Short: "Import players from a Name,Gender,Position,OD,Team CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportRoster,
}

var importEventsCmd = &cobra.Command{
	Use:   "events <file.csv>",
	Short: "Import an ultianalytics play-by-play export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportEvents,
}

func init() {
	importRosterCmd.Flags().BoolVar(&importCreateTeams, "create-teams", false, "create teams named in the roster that are not stored yet")
	importCmd.AddCommand(importRosterCmd)
	importCmd.AddCommand(importEventsCmd)
}

func runImportRoster(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args[0], importer.KindRoster)
}

func runImportEvents(cmd *cobra.Command, args []string) error {
	return runImport(cmd, args[0], importer.KindEvents)
}

func runImport(cmd *cobra.Command, path, kind string) error {
	f, err := importer.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	im := importer.New(db, log, telemetry.New())
	im.CreateTeams = importCreateTeams

	var res importer.Result
	if kind == importer.KindRoster {
		res, err = im.Roster(cmd.Context(), f)
	} else {
		res, err = im.Events(cmd.Context(), f)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Imported %d %s rows from %s (%d already present).\n", res.Inserted, kind, path, res.Skipped)
	return nil
}
