// Package cohort classifies players into named identifier sets (gender and
// position) and caches those sets for a bounded time.
package cohort

import (
	"fmt"
	"sort"

	"github.com/pable/go-ulti-metrics/internal/model"
)

// Cohort names used as cache keys and as CLI/API arguments.
const (
	Female   = "female"
	Male     = "male"
	Handlers = "handlers"
	Cutters  = "cutters"
)

// Names lists every cohort in a stable order.
var Names = []string{Female, Male, Handlers, Cutters}

// Set is an immutable set of player IDs.
type Set map[model.PlayerID]struct{}

// NewSet builds a set from ids, ignoring null references.
func NewSet(ids ...model.PlayerID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id.Valid() {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(id model.PlayerID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int { return len(s) }

// IDs returns the members in ascending order.
func (s Set) IDs() []model.PlayerID {
	out := make([]model.PlayerID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intersect returns the members present in both sets.
func (s Set) Intersect(o Set) Set {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Cohorts holds the four base sets. Gender and position axes overlap; a
// player is in at most one gender set and at most one position set.
type Cohorts struct {
	Female   Set
	Male     Set
	Handlers Set
	Cutters  Set
}

// Classify derives all cohorts from the full player collection using exact,
// case-sensitive field matches.
func Classify(players []model.Player) Cohorts {
	c := Cohorts{Female: Set{}, Male: Set{}, Handlers: Set{}, Cutters: Set{}}
	for _, p := range players {
		if !p.ID.Valid() {
			continue
		}
		switch p.Gender {
		case model.GenderFemale:
			c.Female[p.ID] = struct{}{}
		case model.GenderMale:
			c.Male[p.ID] = struct{}{}
		}
		switch p.Position {
		case model.PositionHandler:
			c.Handlers[p.ID] = struct{}{}
		case model.PositionCutter:
			c.Cutters[p.ID] = struct{}{}
		}
	}
	return c
}

// ByName returns the named cohort.
func (c Cohorts) ByName(name string) (Set, error) {
	switch name {
	case Female:
		return c.Female, nil
	case Male:
		return c.Male, nil
	case Handlers:
		return c.Handlers, nil
	case Cutters:
		return c.Cutters, nil
	}
	return nil, fmt.Errorf("unknown cohort %q", name)
}

func (c Cohorts) FemaleHandlers() Set { return c.Female.Intersect(c.Handlers) }
func (c Cohorts) MaleHandlers() Set   { return c.Male.Intersect(c.Handlers) }
func (c Cohorts) FemaleCutters() Set  { return c.Female.Intersect(c.Cutters) }
func (c Cohorts) MaleCutters() Set    { return c.Male.Intersect(c.Cutters) }
