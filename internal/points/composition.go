package points

import (
	"fmt"

	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
)

// Composition labels the gender split of a lineup.
type Composition string

const (
	FourThree Composition = "4-3" // four male, three female
	ThreeFour Composition = "3-4" // three male, four female
	Other     Composition = "other"
)

// Compositions lists every label in report order.
var Compositions = []Composition{FourThree, ThreeFour, Other}

// Classify labels a lineup by how many of its slots are in male. Null slots
// and unknown players count toward nothing, so an incomplete lineup may still
// land on 4-3 or 3-4.
func Classify(lineup model.Lineup, male cohort.Set) Composition {
	switch lineup.Count(male.Has) {
	case 4:
		return FourThree
	case 3:
		return ThreeFour
	default:
		return Other
	}
}

// Composition classifies the point by its first-event lineup.
func (p *Point) Composition(male cohort.Set) Composition {
	return Classify(p.Lineup(), male)
}

// ParseComposition validates a breakdown filter. Only 4-3 and 3-4 filter.
func ParseComposition(s string) (Composition, error) {
	switch Composition(s) {
	case FourThree, ThreeFour:
		return Composition(s), nil
	}
	return "", fmt.Errorf("unknown breakdown %q", s)
}

// WithComposition keeps the points classified as c.
func WithComposition(pts []Point, male cohort.Set, c Composition) []Point {
	var out []Point
	for _, p := range pts {
		if p.Composition(male) == c {
			out = append(out, p)
		}
	}
	return out
}

// CompositionCounts tallies points per label. Every label is present.
func CompositionCounts(pts []Point, male cohort.Set) map[Composition]int {
	out := make(map[Composition]int, len(Compositions))
	for _, c := range Compositions {
		out[c] = 0
	}
	for _, p := range pts {
		out[p.Composition(male)]++
	}
	return out
}
