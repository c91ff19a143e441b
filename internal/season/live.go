package season

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/live"
)

// Decider answers a live engine request for the controlled side given the
// current state. SimulateFixtures holds a lock around every call, so a Decider
// does not need to be safe for concurrent use.
type Decider func(side league.Side, req live.Request, st live.SessionState) live.Decision

func serialize(decide Decider) Decider {
	var mu sync.Mutex
	return func(side league.Side, req live.Request, st live.SessionState) live.Decision {
		mu.Lock()
		defer mu.Unlock()
		return decide(side, req, st)
	}
}

// CarryOn accepts every request without changing anything.
func CarryOn(league.Side, live.Request, live.SessionState) live.Decision { return live.Decision{} }

// SimpleManager pushes for a goal when trailing in the second half and slows
// the game down when leading late on.
func SimpleManager() Decider {
	return func(side league.Side, req live.Request, st live.SessionState) live.Decision {
		ours, theirs := st.Score[side], st.Score[side.Other()]
		switch {
		case ours < theirs && req.Minute >= 60:
			return live.Decision{Order: live.OrderAttack}
		case ours > theirs && req.Minute >= 75:
			return live.Decision{Order: live.OrderCalm}
		case req.Kind == live.DecisionHalftime && ours < theirs:
			return live.Decision{Order: live.OrderPress}
		}
		return live.Decision{}
	}
}

// maxTicks bounds a live match: 90 minutes, 16 stoppage minutes and every step
// of every minute stopping for a decision still fit comfortably.
const maxTicks = 2000

// PlayLive runs one fixture on the live engine to full time.
func PlayLive(ctx context.Context, cfg live.Config, f league.Fixture, seed int64, side league.Side, tactic *league.Tactic, decide Decider) (league.MatchResult, error) {
	if decide == nil {
		decide = CarryOn
	}
	e := live.New(cfg, f.Home, f.Away, seed, side, tactic)
	for i := 0; i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return league.MatchResult{}, err
		}
		out, err := e.Tick()
		if err != nil {
			return league.MatchResult{}, fmt.Errorf("live tick: %w", err)
		}
		switch out.Kind {
		case live.OutcomeFinished:
			return *out.Result, nil
		case live.OutcomeDecisionRequested:
			d := decide(side, *out.Request, e.State())
			if err := e.Resolve(d); err != nil {
				if !errors.Is(err, live.ErrRejected) {
					return league.MatchResult{}, err
				}
				// A rejected decision falls back to carrying on.
				if err := e.Resolve(live.Decision{}); err != nil {
					return league.MatchResult{}, err
				}
			}
		}
	}
	return league.MatchResult{}, fmt.Errorf("live match %d did not finish", f.ID)
}
