package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/report"
	"github.com/pable/go-ulti-metrics/internal/service"
	"github.com/pable/go-ulti-metrics/internal/storage"
	"github.com/pable/go-ulti-metrics/internal/telemetry"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a persistent session against the database. Cohorts stay cached between
commands for the configured TTL. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shellSession is the state shared by REPL commands.
type shellSession struct {
	cmd *cobra.Command
	db  *storage.DB
	svc *service.Service
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	svc, cleanup, err := newService(cmd.Context(), db, telemetry.New())
	if err != nil {
		return err
	}
	defer cleanup()
	s := &shellSession{cmd: cmd, db: db, svc: svc}

	cGreeting.Println("ultimetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("ultimetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		var err error
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "players":
			err = s.players(args)
		case "teams":
			err = s.teams()
		case "stats":
			err = s.stats(args)
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			err = printQuery(cmd, db, strings.TrimSpace(strings.TrimPrefix(line, name)))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"players [F|M]", "list players, optionally one gender"},
		{"teams", "list teams"},
		{"stats <metric> [arg] [--full-line]", "compute a metric; arg is the breakdown, position or line"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
	cMuted.Printf("  metrics: %s\n\n", strings.Join(service.Metrics, ", "))
}

func (s *shellSession) ctx() context.Context { return s.cmd.Context() }

func (s *shellSession) players(args []string) error {
	var filter model.PlayerFilter
	if len(args) > 0 {
		filter.Gender = strings.ToUpper(args[0])
	}
	players, err := s.svc.Players(s.ctx(), filter)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		cMuted.Println("No players stored yet.")
		return nil
	}
	teams, err := teamNames(s.cmd, s.db)
	if err != nil {
		return err
	}
	report.PrintPlayers(os.Stdout, players, teams)
	return nil
}

func (s *shellSession) teams() error {
	teams, err := s.db.ListTeams(s.ctx())
	if err != nil {
		return err
	}
	report.PrintTeams(os.Stdout, teams)
	return nil
}

// stats parses "stats <metric> [arg] [--full-line]". The positional arg is
// routed to whichever parameter the metric takes.
func (s *shellSession) stats(args []string) error {
	var (
		q          service.Query
		positional []string
	)
	for _, a := range args {
		if a == "--full-line" {
			q.FullLine = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) == 0 {
		return fmt.Errorf("usage: stats <metric> [arg] [--full-line]")
	}

	req := service.Request{Metric: strings.ToLower(positional[0])}
	label := req.Metric
	if len(positional) > 1 {
		arg := positional[1]
		switch req.Metric {
		case service.MetricReceives:
			req.Breakdown = arg
		case service.MetricPosition:
			req.Position = arg
		case service.MetricConversion:
			req.Line = strings.ToUpper(arg)
		default:
			return fmt.Errorf("%s takes no argument", req.Metric)
		}
		label += " (" + arg + ")"
	}

	result, err := s.svc.Stat(s.ctx(), q, req)
	if err != nil {
		return err
	}
	return report.PrintStat(os.Stdout, label, result)
}
