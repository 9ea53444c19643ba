package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
)

type fakeStore struct {
	mu          sync.Mutex
	players     []model.Player
	events      []model.Event
	playerCalls int
	eventCalls  int
	lastFilter  model.EventFilter
	eventsErr   error
}

func (f *fakeStore) Players(_ context.Context, _ model.PlayerFilter) ([]model.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerCalls++
	return f.players, nil
}

func (f *fakeStore) Events(_ context.Context, filter model.EventFilter) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.eventCalls++
	f.lastFilter = filter
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events, nil
}

func newStore() *fakeStore {
	return &fakeStore{
		players: []model.Player{
			{ID: 1, Gender: "F", Position: "Handler"},
			{ID: 2, Gender: "M", Position: "Handler"},
			{ID: 3, Gender: "M", Position: "Cutter"},
			{ID: 4, Gender: "M"},
			{ID: 5, Gender: "F"},
			{ID: 6, Gender: "F", Position: "Cutter"},
			{ID: 7, Gender: "M"},
		},
		events: []model.Event{
			{Date: "d", Opponent: "X", OurScore: 1, Line: "O", EventType: "Offense", Action: "Catch",
				Passer: 1, Receiver: 2, Lineup: model.Lineup{1, 2, 3, 4, 5, 6, 7}},
			{Date: "d", Opponent: "X", OurScore: 1, Line: "O", EventType: "Offense", Action: "Goal",
				Passer: 2, Receiver: 6},
			{Date: "d", Opponent: "X", OurScore: 1, TheirScore: 1, Line: "D", EventType: "Offense", Action: "Catch",
				Passer: 6, Receiver: 1, Lineup: model.Lineup{1, 2}},
			{Date: "d", Opponent: "X", OurScore: 1, TheirScore: 1, Line: "D", EventType: "Defense", Action: "Goal"},
		},
	}
}

func newService(store *fakeStore) *Service {
	provider := cohort.NewProvider(store, cohort.NewMemoryCache(), 0, 0)
	return New(store, provider, zerolog.Nop())
}

func TestSnapshot(t *testing.T) {
	store := newStore()
	svc := newService(store)
	filter := model.EventFilter{Opponent: "X"}

	snap, err := svc.Snapshot(context.Background(), Query{Filter: filter})
	require.NoError(t, err)
	assert.Len(t, snap.Events, 4)
	assert.Len(t, snap.Points, 2)
	assert.Equal(t, filter, store.lastFilter)
	assert.True(t, snap.Cohorts.Female.Has(6))

	full, err := svc.Snapshot(context.Background(), Query{FullLine: true})
	require.NoError(t, err)
	assert.Len(t, full.Points, 1)
	assert.Len(t, full.Events, 2)
}

func TestSnapshot_CohortsAreCached(t *testing.T) {
	store := newStore()
	svc := newService(store)

	_, err := svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)
	first := store.playerCalls

	_, err = svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, first, store.playerCalls, "second snapshot should hit the cohort cache")
	assert.Equal(t, 2, store.eventCalls)
}

func TestSnapshot_StoreError(t *testing.T) {
	store := newStore()
	store.eventsErr = errors.New("disk gone")
	svc := newService(store)

	_, err := svc.Snapshot(context.Background(), Query{})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.eventsErr)
	assert.Contains(t, err.Error(), "load events")
}

func TestStat(t *testing.T) {
	svc := newService(newStore())
	ctx := context.Background()

	got, err := svc.Stat(ctx, Query{}, Request{Metric: MetricReceives})
	require.NoError(t, err)
	assert.Equal(t, analytics.GenderSplit{Total: 3, Female: "66.67%", Male: "33.33%", FemaleCount: 2, MaleCount: 1}, got)

	got, err = svc.Stat(ctx, Query{}, Request{Metric: MetricReceives, Breakdown: "4-3"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.(analytics.GenderSplit).Total)

	got, err = svc.Stat(ctx, Query{}, Request{Metric: MetricConversion, Line: "O"})
	require.NoError(t, err)
	conv := got.(map[string]analytics.Conversion)
	assert.Equal(t, "100.00%", conv["O"].Rate)
	assert.NotContains(t, conv, "D")

	got, err = svc.Stat(ctx, Query{}, Request{Metric: MetricLines})
	require.NoError(t, err)
	assert.Equal(t, 1, got.(map[points.Composition]int)[points.FourThree])

	got, err = svc.Stat(ctx, Query{}, Request{Metric: MetricAll})
	require.NoError(t, err)
	assert.Equal(t, 2, got.(analytics.Summary).Points)
}

func TestStat_InvalidArguments(t *testing.T) {
	store := newStore()
	svc := newService(store)
	ctx := context.Background()

	_, err := svc.Stat(ctx, Query{}, Request{Metric: "assists"})
	assert.ErrorIs(t, err, analytics.ErrInvalidArgument)
	assert.Zero(t, store.eventCalls, "unknown metric must fail before loading data")

	for _, req := range []Request{
		{Metric: MetricReceives, Breakdown: "5-2"},
		{Metric: MetricPosition, Position: "goalie"},
		{Metric: MetricConversion, Line: "X"},
	} {
		_, err := svc.Stat(ctx, Query{}, req)
		var argErr *analytics.InvalidArgumentError
		require.ErrorAs(t, err, &argErr, "%+v", req)
	}
}
