package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
)

func TestConversionRates(t *testing.T) {
	rates := snapshot().ConversionRates()

	assert.Equal(t, Conversion{Points: 2, Won: 2, Possessions: 3, Rate: "66.67%"}, rates["O"])
	assert.Equal(t, Conversion{Points: 1, Won: 0, Possessions: 1, Rate: "0.00%"}, rates["D"])
}

// A won point over several possessions used to floor to 0% when the ratio was
// taken in integer arithmetic before scaling.
func TestConversionRates_FractionalRateIsNotTruncated(t *testing.T) {
	events := point(1, 0, "D", model.Lineup{},
		play{"Defense", "Pull", 0, 0, 8},
		play{"Offense", "Catch", 1, 2, 0},
		play{"Offense", "Throwaway", 2, 0, 0},
		play{"Defense", "D", 0, 0, 3},
		play{"Offense", "Catch", 3, 4, 0},
		play{"Offense", "Drop", 4, 5, 0},
		play{"Defense", "D", 0, 0, 6},
		play{"Offense", "Goal", 6, 7, 0},
	)
	s := NewSnapshot(events, cohort.Classify(roster()))

	d, err := s.ConversionRate("D")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Possessions)
	assert.Equal(t, 1, d.Won)
	assert.Equal(t, "33.33%", d.Rate)
}

func TestConversionRates_GoalWithoutEventTypeStillCountsPossession(t *testing.T) {
	events := point(1, 0, "O", model.Lineup{}, play{"", "Goal", 1, 2, 0})
	s := NewSnapshot(events, cohort.Classify(roster()))

	o, err := s.ConversionRate("O")
	require.NoError(t, err)
	assert.Equal(t, "100.00%", o.Rate)
}

func TestConversionRate_InvalidLine(t *testing.T) {
	_, err := snapshot().ConversionRate("X")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestGoalBeforeHalftimeStillCountsAsWon(t *testing.T) {
	events := point(8, 5, "O", model.Lineup{},
		play{"Offense", "Catch", 1, 2, 0},
		play{"Offense", "Goal", 2, 3, 0},
		play{"Cessation", "Halftime", 0, 0, 0},
	)
	s := NewSnapshot(events, cohort.Classify(roster()))

	contrib := s.GenderContributionToScore()
	assert.Equal(t, 2, contrib.Winning.Total)
	assert.Equal(t, 0, contrib.Losing.Total)

	o, err := s.ConversionRate("O")
	require.NoError(t, err)
	assert.Equal(t, Conversion{Points: 1, Won: 1, Possessions: 1, Rate: "100.00%"}, o)
}
