package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/storage"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List stored teams",
	Args:  cobra.NoArgs,
	RunE:  runTeams,
}

func runTeams(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	teams, err := db.ListTeams(cmd.Context())
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		fmt.Fprintln(os.Stdout, "No teams stored yet. Use 'ultimetrics import roster --create-teams'.")
		return nil
	}
	report.PrintTeams(os.Stdout, teams)
	return nil
}

func teamNames(cmd *cobra.Command, db *storage.DB) (map[int64]string, error) {
	teams, err := db.ListTeams(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	out := make(map[int64]string, len(teams))
	for _, t := range teams {
		out[t.ID] = t.Name
	}
	return out, nil
}
