package analytics

import (
	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/points"
)

// Summary bundles every metric for export and the API.
type Summary struct {
	Events int `json:"events"`
	Points int `json:"points"`

	Receives          GenderSplit `json:"receives"`
	ReceivesFourThree GenderSplit `json:"receives_4_3"`
	ReceivesThreeFour GenderSplit `json:"receives_3_4"`
	Goals             GenderSplit `json:"goals"`
	Dees              GenderSplit `json:"dees"`
	Passes            GenderSplit `json:"passes"`
	HandlerReceives   GenderSplit `json:"handler_receives"`
	CutterReceives    GenderSplit `json:"cutter_receives"`

	HandlerLines map[string]int             `json:"handler_lines"`
	Lines        map[points.Composition]int `json:"lines"`
	Contribution ScoreContribution          `json:"contribution"`
	Conversion   map[string]Conversion      `json:"conversion"`
}

// Summarize runs every metric with its default arguments.
func (s *Snapshot) Summarize() Summary {
	// Fixed, known-valid arguments; the errors cannot occur.
	all, _ := s.ReceivesByGender("")
	fourThree, _ := s.ReceivesByGender(string(points.FourThree))
	threeFour, _ := s.ReceivesByGender(string(points.ThreeFour))
	handlers, _ := s.ReceivesForPosition(cohort.Handlers)
	cutters, _ := s.ReceivesForPosition(cohort.Cutters)

	return Summary{
		Events:            len(s.Events),
		Points:            len(s.Points),
		Receives:          all,
		ReceivesFourThree: fourThree,
		ReceivesThreeFour: threeFour,
		Goals:             s.GoalsByGender(),
		Dees:              s.DeesByGender(),
		Passes:            s.PassesByGender(),
		HandlerReceives:   handlers,
		CutterReceives:    cutters,
		HandlerLines:      s.HandlerGenderSplit(),
		Lines:             s.LineCompositions(),
		Contribution:      s.GenderContributionToScore(),
		Conversion:        s.ConversionRates(),
	}
}
