// Package api serves players, teams and analytics as JSON over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

// Store is the storage surface the handlers need beyond the service.
type Store interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	Ping(ctx context.Context) error
}

type Server struct {
	svc     *service.Service
	store   Store
	metrics *telemetry.Metrics
	logger  zerolog.Logger
}

func NewServer(svc *service.Service, store Store, metrics *telemetry.Metrics, logger zerolog.Logger) *Server {
	return &Server{svc: svc, store: store, metrics: metrics, logger: logger}
}

// Router wires middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.observe)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.players)
		r.Get("/teams", s.teams)
		r.Get("/stats", s.statIndex)
		r.Get("/stats/{metric}", s.stat)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
