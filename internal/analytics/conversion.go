package analytics

import (
	"github.com/pable/go-ulti-metrics/internal/model"
)

// Lines accepted by ConversionRate.
var Lines = []string{model.LineOffense, model.LineDefense}

// Conversion is the points-won-per-possession rate for one line type.
type Conversion struct {
	Points      int    `json:"points"`
	Won         int    `json:"won"`
	Possessions int    `json:"possessions"`
	Rate        string `json:"rate"`
}

// ConversionRates walks points in order and, per line type, divides points
// won by possessions held. A possession starts on the first offensive event
// while we do not hold the disc and ends on a turnover or a goal.
//
// The rate is computed in floating point from the final counters.
func (s *Snapshot) ConversionRates() map[string]Conversion {
	acc := map[string]*Conversion{
		model.LineOffense: {},
		model.LineDefense: {},
	}
	for i := range s.Points {
		p := &s.Points[i]
		c, ok := acc[p.Line()]
		if !ok {
			continue
		}
		c.Points++
		c.Possessions += possessions(p.Events)
		if p.Won() {
			c.Won++
		}
	}

	out := make(map[string]Conversion, len(acc))
	for line, c := range acc {
		c.Rate = Percent(c.Won, c.Possessions)
		out[line] = *c
	}
	return out
}

// ConversionRate returns the rate for a single line, "O" or "D".
func (s *Snapshot) ConversionRate(line string) (Conversion, error) {
	c, ok := s.ConversionRates()[line]
	if !ok {
		return Conversion{}, &InvalidArgumentError{Param: "line", Value: line, Allowed: Lines}
	}
	return c, nil
}

func possessions(events []model.Event) int {
	n := 0
	held := false
	for i := range events {
		e := &events[i]
		if !held && (e.EventType == model.EventTypeOffense || e.IsGoalForUs()) {
			n++
			held = true
		}
		if e.IsTurnover() || e.Action == model.ActionGoal {
			held = false
		}
	}
	return n
}
