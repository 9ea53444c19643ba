package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
)

func TestSampleFlag(t *testing.T) {
	cases := map[int]string{0: "VERY_LOW", 19: "VERY_LOW", 20: "LOW", 49: "LOW", 50: "OK"}
	for n, want := range cases {
		if got := sampleFlag(n); got != want {
			t.Errorf("sampleFlag(%d) = %s, want %s", n, got, want)
		}
	}
}

func TestPrintSplitTable(t *testing.T) {
	var buf bytes.Buffer
	PrintSplitTable(&buf, []Split{{
		Label:       "receives",
		GenderSplit: analytics.GenderSplit{Total: 7, Female: "42.86%", Male: "57.14%", FemaleCount: 3, MaleCount: 4},
	}})
	out := buf.String()
	for _, want := range []string{"receives", "42.86% (3)", "57.14% (4)", "VERY_LOW"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintHandlerLinesOrdersByCount(t *testing.T) {
	var buf bytes.Buffer
	PrintHandlerLines(&buf, map[string]int{"total": 10, "1-2": 3, "2-1": 7})
	out := buf.String()
	if strings.Index(out, "2-1") > strings.Index(out, "1-2") {
		t.Errorf("busiest split should come first:\n%s", out)
	}
	if !strings.Contains(out, "70.00%") {
		t.Errorf("expected share of 2-1 in output:\n%s", out)
	}
}

func TestPrintStatUnknownType(t *testing.T) {
	if err := PrintStat(&bytes.Buffer{}, "x", 42); err == nil {
		t.Fatal("expected error for unsupported value")
	}
}

func TestPrintPointsMarksIncompleteLineup(t *testing.T) {
	events := []model.Event{{
		Date: "2016-07-09", Opponent: "Slow White", OurScore: 1, Line: "O",
		Action: "Goal", Receiver: 1, Lineup: model.Lineup{1, 2},
	}}
	names := map[model.PlayerID]string{1: "Ana"}
	c := cohort.Classify([]model.Player{{ID: 2, Gender: "M"}})

	var buf bytes.Buffer
	PrintPoints(&buf, points.Group(events), c, names)
	out := buf.String()
	for _, want := range []string{"Ana", "#2", "(+5 unknown)", "won", "other"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
