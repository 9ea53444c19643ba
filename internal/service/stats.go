package service

import (
	"slices"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/cohort"
)

// Metric names understood by Compute.
const (
	MetricReceives     = "receives"
	MetricGoals        = "goals"
	MetricDees         = "dees"
	MetricPasses       = "passes"
	MetricPosition     = "position"
	MetricHandlers     = "handlers"
	MetricContribution = "contribution"
	MetricConversion   = "conversion"
	MetricLines        = "lines"
	MetricAll          = "all"
)

var Metrics = []string{
	MetricReceives, MetricGoals, MetricDees, MetricPasses, MetricPosition,
	MetricHandlers, MetricContribution, MetricConversion, MetricLines, MetricAll,
}

// Request names a metric and its optional argument. Breakdown applies to
// receives, Position to position (default handlers) and Line to conversion
// (empty means both lines).
type Request struct {
	Metric    string
	Breakdown string
	Position  string
	Line      string
}

// Validate rejects an unknown metric before any data is loaded.
func (r Request) Validate() error {
	if !slices.Contains(Metrics, r.Metric) {
		return &analytics.InvalidArgumentError{Param: "metric", Value: r.Metric, Allowed: Metrics}
	}
	return nil
}

// Compute dispatches req against snap.
func Compute(snap *analytics.Snapshot, req Request) (any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	switch req.Metric {
	case MetricReceives:
		return snap.ReceivesByGender(req.Breakdown)
	case MetricGoals:
		return snap.GoalsByGender(), nil
	case MetricDees:
		return snap.DeesByGender(), nil
	case MetricPasses:
		return snap.PassesByGender(), nil
	case MetricPosition:
		position := req.Position
		if position == "" {
			position = cohort.Handlers
		}
		return snap.ReceivesForPosition(position)
	case MetricHandlers:
		return snap.HandlerGenderSplit(), nil
	case MetricContribution:
		return snap.GenderContributionToScore(), nil
	case MetricConversion:
		if req.Line == "" {
			return snap.ConversionRates(), nil
		}
		c, err := snap.ConversionRate(req.Line)
		if err != nil {
			return nil, err
		}
		return map[string]analytics.Conversion{req.Line: c}, nil
	case MetricLines:
		return snap.LineCompositions(), nil
	default:
		return snap.Summarize(), nil
	}
}
