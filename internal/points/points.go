// Package points partitions play events into points and classifies each
// point's line composition.
package points

import (
	"github.com/pable/go-ulti-metrics/internal/model"
)

// Point is the ordered set of events sharing one PointKey. Points are derived
// on demand and never mutated.
type Point struct {
	Key    model.PointKey
	Events []model.Event
}

// Group partitions events by PointKey in a single pass. Keys appear in
// first-occurrence order; events of one point need not be contiguous in the
// input, and keep their relative order inside the point.
func Group(events []model.Event) []Point {
	index := make(map[model.PointKey]int)
	var out []Point
	for _, e := range events {
		k := e.PointKey()
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Point{Key: k})
		}
		out[i].Events = append(out[i].Events, e)
	}
	return out
}

// First returns the event that carries the point's lineup.
func (p *Point) First() *model.Event {
	if len(p.Events) == 0 {
		return nil
	}
	return &p.Events[0]
}

// Last returns the terminating play of the point. Trailing cessation rows
// (halftime, game over) share the finished point's score and are skipped.
func (p *Point) Last() *model.Event {
	for i := len(p.Events) - 1; i >= 0; i-- {
		if !p.Events[i].IsCessation() {
			return &p.Events[i]
		}
	}
	return nil
}

// Lineup returns the seven players on the field, read from the first event
// only. Later events of the same point may carry empty lineups.
func (p *Point) Lineup() model.Lineup {
	if f := p.First(); f != nil {
		return f.Lineup
	}
	return model.Lineup{}
}

// Line returns "O" or "D" as recorded on the first event.
func (p *Point) Line() string {
	if f := p.First(); f != nil {
		return f.Line
	}
	return ""
}

// Won reports whether the point ended with a goal caught by our team.
func (p *Point) Won() bool {
	l := p.Last()
	return l != nil && l.IsGoalForUs()
}

// Lost reports whether the point ended with a goal by the opponent.
func (p *Point) Lost() bool {
	l := p.Last()
	return l != nil && l.IsGoalAgainst()
}

// FullLine keeps only points whose first event has all seven lineup slots.
func FullLine(pts []Point) []Point {
	var out []Point
	for _, p := range pts {
		if p.Lineup().Complete() {
			out = append(out, p)
		}
	}
	return out
}

// Events flattens points back into one event slice, point by point.
func Events(pts []Point) []model.Event {
	var n int
	for _, p := range pts {
		n += len(p.Events)
	}
	out := make([]model.Event, 0, n)
	for _, p := range pts {
		out = append(out, p.Events...)
	}
	return out
}

// FullLineEvents returns the events of every full-line point.
func FullLineEvents(pts []Point) []model.Event {
	return Events(FullLine(pts))
}
