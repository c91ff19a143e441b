package season

import (
	"context"
	"fmt"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/logging"
)

// Tie is one played knockout fixture.
type Tie struct {
	Round    int
	Fixture  league.Fixture
	Result   league.MatchResult
	Shootout *league.Shootout
	Winner   *league.Team
}

// Cup is a played single-elimination bracket.
type Cup struct {
	Ties     []Tie
	Champion *league.Team
}

// RunCup plays single-leg knockout rounds in draw order until one team is left.
// Drawn ties go to penalties and an odd team out gets a bye. Between rounds each
// team's morale moves with its result; the input teams are never modified.
func RunCup(ctx context.Context, teams []*league.Team, cfg Config) (*Cup, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("drawing cup: %w", league.ErrNotEnoughTeams)
	}
	sim := cfg.Simulator
	if sim == nil {
		sim = league.NewSimulator(nil)
	}

	alive := make([]*league.Team, len(teams))
	for i, t := range teams {
		alive[i] = cloneTeam(t)
	}

	cup := &Cup{}
	nextID, matchday := 1, 1
	for round := 1; len(alive) > 1; round++ {
		fixtures := league.GenerateKnockout(alive, matchday)
		next := make([]*league.Team, 0, len(alive)/2+1)
		for _, f := range fixtures {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			f.ID = nextID
			nextID++

			res, mode, err := playFixture(ctx, sim, f, cfg)
			if err != nil {
				return nil, fmt.Errorf("cup tie %d: %w", f.ID, err)
			}
			cfg.Metrics.RecordMatch(mode, res)

			tie := Tie{Round: round, Fixture: f, Result: res}
			side, ok := res.Winner()
			if !ok {
				so := league.PenaltyShootout(f.Home, f.Away, res.Seed)
				tie.Shootout = &so
				side = so.Winner()
			}
			tie.Winner = f.Home
			if side == league.Away {
				tie.Winner = f.Away
			}

			dh, da := league.MoraleDeltas(res.HomeGoals, res.AwayGoals)
			league.ApplyMorale(f.Home, dh)
			league.ApplyMorale(f.Away, da)

			cup.Ties = append(cup.Ties, tie)
			next = append(next, tie.Winner)
		}
		if len(alive)%2 == 1 {
			next = append(next, alive[len(alive)-1])
		}
		logging.Info(cfg.Logger, "cup round played",
			logging.FieldRound, round,
			logging.FieldCount, len(fixtures),
		)
		matchday += len(fixtures)
		alive = next
	}
	cup.Champion = alive[0]
	return cup, nil
}

func cloneTeam(t *league.Team) *league.Team {
	c := *t
	c.Roster = append([]league.Player(nil), t.Roster...)
	return &c
}
