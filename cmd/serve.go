package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/api"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve players, teams and metrics as a JSON API",
	Long: `Start an HTTP server exposing:

  GET /api/players          ?team_id= &gender= &position=
  GET /api/teams
  GET /api/stats            list of metric names
  GET /api/stats/{metric}   ?breakdown= &position= &line= &full_line= &tournament= &opponent= &date=
  GET /healthz
  GET /metrics              Prometheus exposition`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	metrics := telemetry.New()
	svc, cleanup, err := newService(ctx, db, metrics)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := orDefault(serveAddr, cfg.Addr)
	err = api.NewServer(svc, db, metrics, log).ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
