// Package service loads stored events and cohorts and runs analytics over them.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
)

// Store is the read side of storage the analytics need. Events must come back
// in import order.
type Store interface {
	cohort.PlayerSource
	Events(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
}

type Service struct {
	store   Store
	cohorts *cohort.Provider
	logger  zerolog.Logger
}

func New(store Store, cohorts *cohort.Provider, logger zerolog.Logger) *Service {
	return &Service{store: store, cohorts: cohorts, logger: logger}
}

// Query selects the events a snapshot is built from.
type Query struct {
	Filter model.EventFilter
	// FullLine keeps only points whose lineup has all seven slots filled.
	FullLine bool
}

// Snapshot fetches events and cohorts concurrently and groups the events into
// points. Cohorts may be up to the provider's TTL old.
func (s *Service) Snapshot(ctx context.Context, q Query) (*analytics.Snapshot, error) {
	start := time.Now()

	var (
		events  []model.Event
		cohorts cohort.Cohorts
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.store.Events(gctx, q.Filter)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		cohorts, err = s.cohorts.Cohorts(gctx)
		if err != nil {
			return fmt.Errorf("load cohorts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := analytics.NewSnapshot(events, cohorts)
	if q.FullLine {
		snap = snap.FullLine()
	}
	s.logger.Debug().
		Int("events", len(snap.Events)).
		Int("points", len(snap.Points)).
		Bool("full_line", q.FullLine).
		Dur("took", time.Since(start)).
		Msg("snapshot built")
	return snap, nil
}

// Players passes a player query through to the store.
func (s *Service) Players(ctx context.Context, filter model.PlayerFilter) ([]model.Player, error) {
	return s.store.Players(ctx, filter)
}

// Stat builds a snapshot for q and computes one metric on it.
func (s *Service) Stat(ctx context.Context, q Query, req Request) (any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return Compute(snap, req)
}
