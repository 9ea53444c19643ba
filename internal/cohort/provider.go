package cohort

import (
	"context"
	"fmt"
	"time"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// DefaultTTL is how long a cohort may be served before it is recomputed.
const DefaultTTL = 30 * time.Second

// PlayerSource is the read side of the player store.
type PlayerSource interface {
	Players(ctx context.Context, filter model.PlayerFilter) ([]model.Player, error)
}

// Provider resolves cohorts through a Cache. Callers may observe sets up to
// TTL old.
type Provider struct {
	source PlayerSource
	cache  Cache
	ttl    time.Duration
	teamID int64
}

// NewProvider returns a Provider. A non-positive ttl selects DefaultTTL.
// A non-zero teamID restricts the player set to that team and namespaces the
// cache keys.
func NewProvider(source PlayerSource, cache Cache, ttl time.Duration, teamID int64) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{source: source, cache: cache, ttl: ttl, teamID: teamID}
}

// TTL reports the configured validity window.
func (p *Provider) TTL() time.Duration { return p.ttl }

// Cohorts returns all four base cohorts. Keys that miss together are filled
// from a single roster read; a mix of hits and misses may still combine sets
// computed up to TTL apart.
func (p *Provider) Cohorts(ctx context.Context) (Cohorts, error) {
	var classified *Cohorts
	classify := func(ctx context.Context) (Cohorts, error) {
		if classified != nil {
			return *classified, nil
		}
		c, err := p.classify(ctx)
		if err != nil {
			return Cohorts{}, err
		}
		classified = &c
		return c, nil
	}

	var out Cohorts
	for _, name := range Names {
		set, err := p.cohort(ctx, name, classify)
		if err != nil {
			return Cohorts{}, err
		}
		switch name {
		case Female:
			out.Female = set
		case Male:
			out.Male = set
		case Handlers:
			out.Handlers = set
		case Cutters:
			out.Cutters = set
		}
	}
	return out, nil
}

// Cohort returns one named cohort.
func (p *Provider) Cohort(ctx context.Context, name string) (Set, error) {
	return p.cohort(ctx, name, p.classify)
}

func (p *Provider) cohort(ctx context.Context, name string, classify func(context.Context) (Cohorts, error)) (Set, error) {
	if _, err := (Cohorts{}).ByName(name); err != nil {
		return nil, err
	}
	ids, err := p.cache.GetOrCompute(ctx, p.key(name), p.ttl, func(ctx context.Context) ([]model.PlayerID, error) {
		c, err := classify(ctx)
		if err != nil {
			return nil, err
		}
		set, _ := c.ByName(name)
		return set.IDs(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("cohort %s: %w", name, err)
	}
	return NewSet(ids...), nil
}

func (p *Provider) classify(ctx context.Context) (Cohorts, error) {
	players, err := p.source.Players(ctx, model.PlayerFilter{TeamID: p.teamID})
	if err != nil {
		return Cohorts{}, fmt.Errorf("fetch players: %w", err)
	}
	return Classify(players), nil
}

func (p *Provider) key(name string) string {
	if p.teamID == 0 {
		return "cohort:" + name
	}
	return fmt.Sprintf("cohort:team:%d:%s", p.teamID, name)
}
