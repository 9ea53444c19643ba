package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pable/go-ulti-metrics/internal/model"
)

func roster() []model.Player {
	return []model.Player{
		{ID: 1, Gender: "F", Position: "Handler"},
		{ID: 2, Gender: "M", Position: "Handler"},
		{ID: 3, Gender: "M", Position: "Cutter"},
		{ID: 4, Gender: "F", Position: "Cutter"},
		{ID: 5, Gender: "M", Position: "Hybrid"},
		{ID: 6, Gender: "f", Position: "handler"},
		{ID: 7, Gender: "", Position: ""},
	}
}

func TestClassify(t *testing.T) {
	c := Classify(roster())

	assert.Equal(t, []model.PlayerID{1, 4}, c.Female.IDs())
	assert.Equal(t, []model.PlayerID{2, 3, 5}, c.Male.IDs())
	assert.Equal(t, []model.PlayerID{1, 2}, c.Handlers.IDs())
	assert.Equal(t, []model.PlayerID{3, 4}, c.Cutters.IDs())
}

func TestClassify_CaseSensitive(t *testing.T) {
	c := Classify(roster())
	for _, set := range []Set{c.Female, c.Male, c.Handlers, c.Cutters} {
		assert.False(t, set.Has(6), "lower-case values must not match a cohort")
	}
}

func TestIntersections(t *testing.T) {
	c := Classify(roster())

	assert.Equal(t, []model.PlayerID{1}, c.FemaleHandlers().IDs())
	assert.Equal(t, []model.PlayerID{2}, c.MaleHandlers().IDs())
	assert.Equal(t, []model.PlayerID{4}, c.FemaleCutters().IDs())
	assert.Equal(t, []model.PlayerID{3}, c.MaleCutters().IDs())
}

func TestByName(t *testing.T) {
	c := Classify(roster())

	set, err := c.ByName(Handlers)
	assert.NoError(t, err)
	assert.Equal(t, 2, set.Len())

	_, err = c.ByName("goalies")
	assert.Error(t, err)
}

func TestNewSet_SkipsNull(t *testing.T) {
	s := NewSet(model.NoPlayer, 3, 3, 9)
	assert.Equal(t, []model.PlayerID{3, 9}, s.IDs())
	assert.False(t, s.Has(model.NoPlayer))
}
