// Command season simulates a full league season from a roster file and prints
// the calendar, the results, the final table and optionally title odds.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/utakatalp/league-engine/internal/config"
	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/season"
	"github.com/utakatalp/league-engine/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	roster     string
	configFile string
	seed       int64
	workers    int
	oddsRuns   int
	oddsAfter  int
	team       int
	schedule   bool
	results    bool
	cup        bool
	verbose    bool
}

func parseFlags(args []string, stderr io.Writer) (options, map[string]bool, error) {
	fs := flag.NewFlagSet("season", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.roster, "roster", "", "YAML roster file (default ROSTER_FILE)")
	fs.StringVar(&o.configFile, "config", "", "YAML config file (default CONFIG_FILE)")
	fs.Int64Var(&o.seed, "seed", 0, "season seed (default from config)")
	fs.IntVar(&o.workers, "workers", 0, "parallel fixtures (default from config, 0 = GOMAXPROCS)")
	fs.IntVar(&o.oddsRuns, "odds", 0, "Monte-Carlo runs for championship odds (0 = skip)")
	fs.IntVar(&o.oddsAfter, "odds-after", 0, "estimate odds after this matchday (0 = halfway)")
	fs.IntVar(&o.team, "team", 0, "team ID to manage on the live engine")
	fs.BoolVar(&o.schedule, "schedule", false, "print the calendar")
	fs.BoolVar(&o.results, "results", true, "print every result")
	fs.BoolVar(&o.cup, "cup", false, "also play a knockout cup in roster order")
	fs.BoolVar(&o.verbose, "v", false, "log progress to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if o.oddsRuns < 0 || o.oddsAfter < 0 {
		return options{}, nil, fmt.Errorf("odds runs and matchday must not be negative")
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// withDefaults fills the flags left unset from the configuration.
func (o options) withDefaults(cfg config.Config, set map[string]bool) (options, error) {
	if !set["roster"] {
		o.roster = cfg.RosterFile
	}
	if !set["seed"] {
		o.seed = cfg.Simulation.Seed
	}
	if !set["workers"] {
		o.workers = cfg.Simulation.Workers
	}
	if o.roster == "" {
		return o, fmt.Errorf("a roster file is required (-roster or ROSTER_FILE)")
	}
	return o, nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, set, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.configFile)
	if err != nil {
		return err
	}
	if o, err = o.withDefaults(cfg, set); err != nil {
		return err
	}

	teams, err := store.LoadRoster(o.roster)
	if err != nil {
		return err
	}
	if o.team != 0 && !hasTeam(teams, o.team) {
		return fmt.Errorf("team %d is not in %s", o.team, o.roster)
	}

	scfg := season.Config{
		Seed:       o.seed,
		Workers:    o.workers,
		Simulator:  league.NewSimulator(cfg.Simulation.GoalFactors),
		Controlled: o.team,
		Live:       cfg.LiveConfig(),
		Decide:     season.SimpleManager(),
	}
	if o.verbose {
		scfg.Logger = logging.NewLogger(logging.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Service: "season",
			Output:  stderr,
		})
	}

	s, err := season.Run(ctx, teams, scfg)
	if err != nil {
		return err
	}

	names := season.Names(teams)
	if o.schedule {
		season.PrintSchedule(stdout, "Schedule", s.Fixtures)
	}
	if o.results {
		season.PrintResults(stdout, "Results", s.Fixtures, s.Results)
	}
	season.PrintTable(stdout, "Final table", s.Table.Sorted(), names)

	if o.cup {
		cup, err := season.RunCup(ctx, teams, scfg)
		if err != nil {
			return err
		}
		season.PrintCup(stdout, "Cup", cup)
	}
	if o.oddsRuns > 0 {
		return printOdds(ctx, stdout, teams, s, o, scfg)
	}
	return nil
}

// printOdds replays the title race from a past matchday: the results up to it
// stand and the rest of the calendar is simulated oddsRuns times.
func printOdds(ctx context.Context, w io.Writer, teams []*league.Team, s *season.Season, o options, cfg season.Config) error {
	last := 0
	for _, f := range s.Fixtures {
		last = max(last, f.Matchday)
	}
	after := o.oddsAfter
	if after == 0 {
		after = last / 2
	}
	after = min(after, last)

	var played []league.MatchResult
	for i, f := range s.Fixtures {
		if f.Matchday <= after {
			played = append(played, s.Results[i])
		}
	}

	cfg.Controlled = 0
	preds, err := season.ChampionshipOdds(ctx, teams, s.Fixtures, played, o.oddsRuns, cfg)
	if err != nil {
		return err
	}
	season.PrintOdds(w, fmt.Sprintf("Title odds after matchday %d", after), preds)
	return nil
}

func hasTeam(teams []*league.Team, id int) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}
