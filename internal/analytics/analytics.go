// Package analytics computes gender-representation metrics over an
// in-memory snapshot of events and player cohorts.
//
// Every operation is a pure function of the snapshot: it never mutates events
// or cohorts, and calling it twice yields identical output.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
)

// ErrInvalidArgument matches every *InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports an unrecognized breakdown, position or line.
// No data is returned alongside it.
type InvalidArgumentError struct {
	Param   string
	Value   string
	Allowed []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Param, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// Percent formats subset/total as a percentage rounded to two decimals, e.g.
// "42.86%". A zero total yields "0.00%".
func Percent(subset, total int) string {
	if total == 0 {
		return "0.00%"
	}
	pct := float64(subset) / float64(total) * 100
	return fmt.Sprintf("%.2f%%", math.Round(pct*100)/100)
}

// Snapshot is the input to every metric: the ordered events, their points,
// and the cohorts in effect when the snapshot was taken.
type Snapshot struct {
	Events  []model.Event
	Points  []points.Point
	Cohorts cohort.Cohorts
}

// NewSnapshot groups events into points once.
func NewSnapshot(events []model.Event, c cohort.Cohorts) *Snapshot {
	return &Snapshot{Events: events, Points: points.Group(events), Cohorts: c}
}

// FullLine restricts the snapshot to points whose first event has a complete
// seven-player lineup.
func (s *Snapshot) FullLine() *Snapshot {
	pts := points.FullLine(s.Points)
	return &Snapshot{Events: points.Events(pts), Points: pts, Cohorts: s.Cohorts}
}

// GenderSplit is the common result shape: how many events passed the metric's
// predicate and what share of them belongs to each gender cohort. Shares need
// not add to 100% because null or unclassified players belong to neither.
type GenderSplit struct {
	Total  int    `json:"total"`
	Female string `json:"female"`
	Male   string `json:"male"`

	FemaleCount int `json:"-"`
	MaleCount   int `json:"-"`
}

// splitBy filters events with keep, then partitions the survivors by the
// cohort membership of the field picked by who.
func splitBy(events []model.Event, keep func(*model.Event) bool, who func(*model.Event) model.PlayerID, female, male cohort.Set) GenderSplit {
	var total, f, m int
	for i := range events {
		e := &events[i]
		if !keep(e) {
			continue
		}
		total++
		id := who(e)
		switch {
		case female.Has(id):
			f++
		case male.Has(id):
			m++
		}
	}
	return GenderSplit{
		Total:       total,
		Female:      Percent(f, total),
		Male:        Percent(m, total),
		FemaleCount: f,
		MaleCount:   m,
	}
}

func receiver(e *model.Event) model.PlayerID { return e.Receiver }
func passer(e *model.Event) model.PlayerID   { return e.Passer }
func defender(e *model.Event) model.PlayerID { return e.Defender }

func hasReceiver(e *model.Event) bool { return e.Receiver.Valid() }
func hasPasser(e *model.Event) bool   { return e.Passer.Valid() }
func hasDefender(e *model.Event) bool { return e.Defender.Valid() }
