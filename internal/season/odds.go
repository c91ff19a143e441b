package season

import (
	"context"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/utakatalp/league-engine/internal/league"
)

// runSeed spreads Monte-Carlo runs across the seed space.
func runSeed(master int64, run int) int64 {
	return int64(uint64(master) + uint64(run+1)*0x9E3779B97F4A7C15)
}

// ChampionshipOdds estimates every team's chance of finishing first by playing
// the unplayed fixtures runs times on top of the results so far. A fixture
// counts as played when a result exists for its home/away pairing.
func ChampionshipOdds(ctx context.Context, teams []*league.Team, fixtures []league.Fixture, played []league.MatchResult, runs int, cfg Config) ([]league.Prediction, error) {
	if runs <= 0 || len(teams) == 0 {
		return nil, nil
	}

	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	current := league.NewTable(ids...).Fold(played)
	remaining := Remaining(fixtures, played)

	// Only the batch engine is used for projections.
	projection := cfg
	projection.Controlled = 0
	projection.Metrics = nil
	projection.Workers = 1

	champions := make([]int, runs)
	g, ctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for run := 0; run < runs; run++ {
		g.Go(func() error {
			c := projection
			c.Seed = runSeed(cfg.Seed, run)
			results, err := SimulateFixtures(ctx, remaining, c)
			if err != nil {
				return err
			}
			champions[run] = current.Fold(results).Sorted()[0].TeamID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wins := make(map[int]int, len(teams))
	for _, id := range champions {
		wins[id]++
	}
	preds := make([]league.Prediction, 0, len(teams))
	for _, t := range teams {
		p := float64(wins[t.ID]) / float64(runs) * 100.0
		preds = append(preds, league.Prediction{Team: t, Probability: math.Round(p*100) / 100})
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Probability > preds[j].Probability
	})
	return preds, nil
}

// Remaining returns the fixtures with no result yet, in calendar order.
func Remaining(fixtures []league.Fixture, played []league.MatchResult) []league.Fixture {
	done := make(map[[2]int]bool, len(played))
	for _, r := range played {
		done[[2]int{r.HomeTeamID, r.AwayTeamID}] = true
	}
	var out []league.Fixture
	for _, f := range fixtures {
		if !done[[2]int{f.Home.ID, f.Away.ID}] {
			out = append(out, f)
		}
	}
	return out
}
