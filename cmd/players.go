package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/report"
)

var playersFilter model.PlayerFilter

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List stored players",
	Args:  cobra.NoArgs,
	RunE:  runPlayers,
}

func init() {
	playersCmd.Flags().Int64Var(&playersFilter.TeamID, "team", 0, "only players of this team ID")
	playersCmd.Flags().StringVar(&playersFilter.Gender, "gender", "", "only players with this gender (F or M)")
	playersCmd.Flags().StringVar(&playersFilter.Position, "position", "", "only players with this position (Handler or Cutter)")
}

func runPlayers(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	players, err := db.Players(ctx, playersFilter)
	if err != nil {
		return fmt.Errorf("list players: %w", err)
	}
	if len(players) == 0 {
		fmt.Fprintln(os.Stdout, "No players stored yet. Run 'ultimetrics import roster <file.csv>' to add some.")
		return nil
	}
	teams, err := teamNames(cmd, db)
	if err != nil {
		return err
	}
	report.PrintPlayers(os.Stdout, players, teams)
	fmt.Fprintf(os.Stdout, "\n(%d players)\n", len(players))
	return nil
}
