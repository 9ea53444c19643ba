// Package report renders analytics results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/cohort"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/points"
)

// NewTable returns a table with right-aligned cells and centred headers.
func NewTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// sampleFlag grades how far a share can be trusted given its denominator.
func sampleFlag(n int) string {
	switch {
	case n >= 50:
		return "OK"
	case n >= 20:
		return "LOW"
	default:
		return "VERY_LOW"
	}
}

// Split is one labelled row of a gender split table.
type Split struct {
	Label string
	analytics.GenderSplit
}

// PrintSplitTable prints METRIC | TOTAL | FEMALE | MALE | SAMPLE rows.
func PrintSplitTable(w io.Writer, rows []Split) {
	table := NewTable(w)
	table.Header("METRIC", "TOTAL", "FEMALE", "MALE", "SAMPLE")
	for _, r := range rows {
		table.Append(
			r.Label,
			strconv.Itoa(r.Total),
			fmt.Sprintf("%s (%d)", r.Female, r.FemaleCount),
			fmt.Sprintf("%s (%d)", r.Male, r.MaleCount),
			sampleFlag(r.Total),
		)
	}
	table.Render()
}

// PrintHandlerLines prints the handler-line histogram, busiest split first
// and the total last.
func PrintHandlerLines(w io.Writer, hist map[string]int) {
	total := hist["total"]
	keys := make([]string, 0, len(hist))
	for k := range hist {
		if k != "total" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if hist[keys[i]] != hist[keys[j]] {
			return hist[keys[i]] > hist[keys[j]]
		}
		return keys[i] < keys[j]
	})

	table := NewTable(w)
	table.Header("HANDLERS (M-F)", "EVENTS", "SHARE")
	for _, k := range keys {
		table.Append(k, strconv.Itoa(hist[k]), analytics.Percent(hist[k], total))
	}
	table.Append("total", strconv.Itoa(total), analytics.Percent(total, total))
	table.Render()
}

// PrintConversion prints one row per line type, O before D.
func PrintConversion(w io.Writer, rates map[string]analytics.Conversion) {
	table := NewTable(w)
	table.Header("LINE", "POINTS", "WON", "POSSESSIONS", "CONVERSION")
	for _, line := range analytics.Lines {
		c, ok := rates[line]
		if !ok {
			continue
		}
		table.Append(
			lineName(line),
			strconv.Itoa(c.Points),
			strconv.Itoa(c.Won),
			strconv.Itoa(c.Possessions),
			c.Rate,
		)
	}
	table.Render()
}

// PrintLineCompositions prints how many points each line composition played.
func PrintLineCompositions(w io.Writer, counts map[points.Composition]int) {
	total := 0
	for _, n := range counts {
		total += n
	}
	table := NewTable(w)
	table.Header("LINE", "POINTS", "SHARE")
	for _, c := range points.Compositions {
		table.Append(string(c), strconv.Itoa(counts[c]), analytics.Percent(counts[c], total))
	}
	table.Render()
}

// PrintContribution prints the scoring-involvement split for won and lost points.
func PrintContribution(w io.Writer, c analytics.ScoreContribution) {
	PrintSplitTable(w, []Split{
		{Label: "winning points", GenderSplit: c.Winning},
		{Label: "losing points", GenderSplit: c.Losing},
	})
}

// PrintSummary prints every metric of s in sections.
func PrintSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintf(w, "\n%d events in %d points\n", s.Events, s.Points)

	fmt.Fprintf(w, "\n--- Touches ---\n\n")
	PrintSplitTable(w, []Split{
		{Label: "receives", GenderSplit: s.Receives},
		{Label: "receives (4-3)", GenderSplit: s.ReceivesFourThree},
		{Label: "receives (3-4)", GenderSplit: s.ReceivesThreeFour},
		{Label: "goals", GenderSplit: s.Goals},
		{Label: "passes", GenderSplit: s.Passes},
		{Label: "blocks", GenderSplit: s.Dees},
		{Label: "handler receives", GenderSplit: s.HandlerReceives},
		{Label: "cutter receives", GenderSplit: s.CutterReceives},
	})

	fmt.Fprintf(w, "\n--- Scoring Involvement ---\n\n")
	PrintContribution(w, s.Contribution)

	fmt.Fprintf(w, "\n--- Handler Lines ---\n\n")
	PrintHandlerLines(w, s.HandlerLines)

	fmt.Fprintf(w, "\n--- Line Compositions ---\n\n")
	PrintLineCompositions(w, s.Lines)

	fmt.Fprintf(w, "\n--- Conversion ---\n\n")
	PrintConversion(w, s.Conversion)
}

// PrintStat renders a single metric result as returned by service.Compute.
func PrintStat(w io.Writer, label string, v any) error {
	switch x := v.(type) {
	case analytics.GenderSplit:
		PrintSplitTable(w, []Split{{Label: label, GenderSplit: x}})
	case analytics.ScoreContribution:
		PrintContribution(w, x)
	case map[string]analytics.Conversion:
		PrintConversion(w, x)
	case map[points.Composition]int:
		PrintLineCompositions(w, x)
	case map[string]int:
		PrintHandlerLines(w, x)
	case analytics.Summary:
		PrintSummary(w, x)
	default:
		return fmt.Errorf("no table layout for %T", v)
	}
	return nil
}

// PrintPlayers prints the roster. teams maps team IDs to names.
func PrintPlayers(w io.Writer, players []model.Player, teams map[int64]string) {
	table := NewTable(w)
	table.Header("ID", "NAME", "GENDER", "POSITION", "LINE", "TEAM")
	for _, p := range players {
		team := "—"
		if p.TeamID != 0 {
			team = teams[p.TeamID]
		}
		table.Append(
			strconv.FormatInt(int64(p.ID), 10),
			p.Name,
			orDash(p.Gender),
			orDash(p.Position),
			orDash(p.OD),
			team,
		)
	}
	table.Render()
}

// PrintTeams prints stored teams.
func PrintTeams(w io.Writer, teams []model.Team) {
	table := NewTable(w)
	table.Header("ID", "NAME", "REGION")
	for _, t := range teams {
		table.Append(strconv.FormatInt(t.ID, 10), t.Name, orDash(t.Region))
	}
	table.Render()
}

// PrintPoints prints one row per point with its line composition and lineup.
// names maps player IDs to display names.
func PrintPoints(w io.Writer, pts []points.Point, c cohort.Cohorts, names map[model.PlayerID]string) {
	table := NewTable(w)
	table.Header("#", "DATE", "OPPONENT", "SCORE", "LINE", "COMP", "EVENTS", "RESULT", "LINEUP")
	for i := range pts {
		p := &pts[i]
		result := "—"
		switch {
		case p.Won():
			result = "won"
		case p.Lost():
			result = "lost"
		}
		table.Append(
			strconv.Itoa(i+1),
			p.Key.Date,
			p.Key.Opponent,
			fmt.Sprintf("%d-%d", p.Key.OurScore, p.Key.TheirScore),
			orDash(p.Line()),
			string(p.Composition(c.Male)),
			strconv.Itoa(len(p.Events)),
			result,
			lineupNames(p.Lineup(), names),
		)
	}
	table.Render()
}

func lineupNames(l model.Lineup, names map[model.PlayerID]string) string {
	var parts []string
	for _, id := range l {
		if !id.Valid() {
			continue
		}
		name, ok := names[id]
		if !ok {
			name = "#" + strconv.FormatInt(int64(id), 10)
		}
		parts = append(parts, name)
	}
	if len(parts) < model.LineupSize {
		parts = append(parts, fmt.Sprintf("(+%d unknown)", model.LineupSize-len(parts)))
	}
	return strings.Join(parts, ", ")
}

func lineName(line string) string {
	switch line {
	case model.LineOffense:
		return "O-line"
	case model.LineDefense:
		return "D-line"
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
