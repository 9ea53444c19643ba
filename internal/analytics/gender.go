package analytics

import (
	"fmt"

	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
)

// Breakdown values accepted by ReceivesByGender. The empty string means all points.
var Breakdowns = []string{string(points.FourThree), string(points.ThreeFour)}

// Positions accepted by ReceivesForPosition.
var Positions = []string{cohort.Handlers, cohort.Cutters}

// ReceivesByGender counts every event with a receiver (Catch, Goal, Drop). A
// non-empty breakdown restricts the input to points with that line composition.
func (s *Snapshot) ReceivesByGender(breakdown string) (GenderSplit, error) {
	events := s.Events
	if breakdown != "" {
		comp, err := points.ParseComposition(breakdown)
		if err != nil {
			return GenderSplit{}, &InvalidArgumentError{Param: "breakdown", Value: breakdown, Allowed: Breakdowns}
		}
		events = points.Events(points.WithComposition(s.Points, s.Cohorts.Male, comp))
	}
	return splitBy(events, hasReceiver, receiver, s.Cohorts.Female, s.Cohorts.Male), nil
}

// GoalsByGender counts our goals. Opponent goals have no receiver and drop out.
func (s *Snapshot) GoalsByGender() GenderSplit {
	isGoal := func(e *model.Event) bool { return e.IsGoalForUs() }
	return splitBy(s.Events, isGoal, receiver, s.Cohorts.Female, s.Cohorts.Male)
}

// DeesByGender counts blocks by the recorded defender.
func (s *Snapshot) DeesByGender() GenderSplit {
	return splitBy(s.Events, hasDefender, defender, s.Cohorts.Female, s.Cohorts.Male)
}

// PassesByGender counts every event with a passer.
func (s *Snapshot) PassesByGender() GenderSplit {
	return splitBy(s.Events, hasPasser, passer, s.Cohorts.Female, s.Cohorts.Male)
}

// ReceivesForPosition is ReceivesByGender restricted to receivers who also
// belong to the position cohort ("handlers" or "cutters"). The total still
// counts every receive, so the shares read as "of all receives".
func (s *Snapshot) ReceivesForPosition(position string) (GenderSplit, error) {
	var female, male cohort.Set
	switch position {
	case cohort.Handlers:
		female, male = s.Cohorts.FemaleHandlers(), s.Cohorts.MaleHandlers()
	case cohort.Cutters:
		female, male = s.Cohorts.FemaleCutters(), s.Cohorts.MaleCutters()
	default:
		return GenderSplit{}, &InvalidArgumentError{Param: "position", Value: position, Allowed: Positions}
	}
	return splitBy(s.Events, hasReceiver, receiver, female, male), nil
}

// HandlerGenderSplit histograms, per event, how many male and female handlers
// were on the field, keyed "{male}-{female}". The lineup comes from the
// event's point. "total" holds the number of events counted.
func (s *Snapshot) HandlerGenderSplit() map[string]int {
	maleH, femaleH := s.Cohorts.MaleHandlers(), s.Cohorts.FemaleHandlers()
	out := map[string]int{"total": 0}
	for i := range s.Points {
		p := &s.Points[i]
		lineup := p.Lineup()
		key := fmt.Sprintf("%d-%d", lineup.Count(maleH.Has), lineup.Count(femaleH.Has))
		out[key] += len(p.Events)
		out["total"] += len(p.Events)
	}
	return out
}

// ScoreContribution splits receives by whether the point was won or lost.
type ScoreContribution struct {
	Winning GenderSplit `json:"winning"`
	Losing  GenderSplit `json:"losing"`
}

// GenderContributionToScore partitions points by their terminating goal and
// runs the receive split over each partition. Points that end without a goal
// (end of half, cap) fall in neither.
func (s *Snapshot) GenderContributionToScore() ScoreContribution {
	var won, lost []points.Point
	for _, p := range s.Points {
		switch {
		case p.Won():
			won = append(won, p)
		case p.Lost():
			lost = append(lost, p)
		}
	}
	f, m := s.Cohorts.Female, s.Cohorts.Male
	return ScoreContribution{
		Winning: splitBy(points.Events(won), hasReceiver, receiver, f, m),
		Losing:  splitBy(points.Events(lost), hasReceiver, receiver, f, m),
	}
}

// LineCompositions counts points per composition label.
func (s *Snapshot) LineCompositions() map[points.Composition]int {
	return points.CompositionCounts(s.Points, s.Cohorts.Male)
}
