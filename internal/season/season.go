// Package season plays whole competitions: it builds the calendar, simulates
// every fixture with its own seed and folds the results into the table.
package season

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
	"github.com/utakatalp/league-engine/internal/logging"
	"github.com/utakatalp/league-engine/internal/metrics"
)

// Config controls a season run. The zero Config simulates every fixture on the
// batch engine with seed 0 and GOMAXPROCS workers.
type Config struct {
	Seed      int64
	Workers   int
	Simulator *league.Simulator
	// Tactics by team ID; missing teams play league.DefaultTactic.
	Tactics map[int]*league.Tactic

	// Controlled names a team whose fixtures are played on the live engine,
	// with Decide answering every request (nil means CarryOn). Decide is never
	// called concurrently, but calls from different fixtures may interleave.
	Controlled int
	Live       live.Config
	Decide     Decider

	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Season is a played calendar. Results[i] belongs to Fixtures[i].
type Season struct {
	Fixtures []league.Fixture
	Results  []league.MatchResult
	Table    league.Table
}

// FixtureSeed derives a fixture's seed from the season seed.
func FixtureSeed(master int64, fixtureID int) int64 {
	return master ^ int64(fixtureID)
}

// Run schedules and plays a double round robin between teams.
func Run(ctx context.Context, teams []*league.Team, cfg Config) (*Season, error) {
	fixtures, err := league.GenerateFixtures(teams)
	if err != nil {
		return nil, fmt.Errorf("scheduling season: %w", err)
	}
	results, err := SimulateFixtures(ctx, fixtures, cfg)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	table := league.NewTable(ids...).Fold(results)
	logging.Info(cfg.Logger, "season simulated",
		logging.FieldTeams, len(teams),
		logging.FieldCount, len(fixtures),
		logging.FieldSeed, cfg.Seed,
	)
	return &Season{Fixtures: fixtures, Results: results, Table: table}, nil
}

// SimulateFixtures plays fixtures in parallel. The output is in fixture order
// and identical to a sequential run, since every fixture owns its seed.
func SimulateFixtures(ctx context.Context, fixtures []league.Fixture, cfg Config) ([]league.MatchResult, error) {
	sim := cfg.Simulator
	if sim == nil {
		sim = league.NewSimulator(nil)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	if cfg.Decide != nil {
		cfg.Decide = serialize(cfg.Decide)
	}

	results := make([]league.MatchResult, len(fixtures))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range fixtures {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, mode, err := playFixture(ctx, sim, f, cfg)
			if err != nil {
				return fmt.Errorf("fixture %d: %w", f.ID, err)
			}
			results[i] = res
			cfg.Metrics.RecordMatch(mode, res)
			logging.Debug(cfg.Logger, "fixture played",
				logging.FieldFixture, f.ID,
				logging.FieldMatchday, f.Matchday,
				"mode", mode,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func playFixture(ctx context.Context, sim *league.Simulator, f league.Fixture, cfg Config) (league.MatchResult, string, error) {
	seed := FixtureSeed(cfg.Seed, f.ID)
	if cfg.Controlled != 0 {
		switch cfg.Controlled {
		case f.Home.ID:
			res, err := PlayLive(ctx, cfg.Live, f, seed, league.Home, cfg.Tactics[f.Home.ID], cfg.Decide)
			return res, metrics.ModeLive, err
		case f.Away.ID:
			res, err := PlayLive(ctx, cfg.Live, f, seed, league.Away, cfg.Tactics[f.Away.ID], cfg.Decide)
			return res, metrics.ModeLive, err
		}
	}
	res := sim.Simulate(f.Home, f.Away, seed, cfg.Tactics[f.Home.ID], cfg.Tactics[f.Away.ID])
	return res, metrics.ModeBatch, nil
}
