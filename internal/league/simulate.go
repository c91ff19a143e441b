package league

import (
	"math"

	"github.com/utakatalp/league-engine/internal/rng"
)

const (
	lambdaBase        = 0.29
	lambdaSpan        = 1.78
	homeLambdaBoost   = 1.08
	redCardPenalty    = 0.8
	minLambda         = 0.1
	varReviewChance   = 0.18
	varDisallowChance = 0.38
)

// DefaultGoalFactors returns a fresh copy of the per-competition goal scale,
// calibrated on recent league averages. Unknown codes scale by 1.0.
func DefaultGoalFactors() map[string]float64 {
	return map[string]float64{
		"ES1": 0.93,
		"ES2": 0.81,
		"GB1": 1.08,
		"IT1": 1.02,
		"L1":  1.15,
		"FR1": 1.02,
		"NL1": 1.12,
		"PO1": 0.96,
		"BE1": 1.08,
		"TR1": 1.04,
	}
}

// Simulator plays batch matches. It is immutable after construction and safe for
// concurrent use.
type Simulator struct {
	goalFactors map[string]float64
}

// NewSimulator copies factors; a nil map selects DefaultGoalFactors.
func NewSimulator(factors map[string]float64) *Simulator {
	if factors == nil {
		factors = DefaultGoalFactors()
	}
	own := make(map[string]float64, len(factors))
	for code, f := range factors {
		own[code] = f
	}
	return &Simulator{goalFactors: own}
}

var defaultSimulator = NewSimulator(nil)

// GoalFactor returns the goal scale of a competition code.
func (s *Simulator) GoalFactor(code string) float64 {
	if f, ok := s.goalFactors[code]; ok {
		return f
	}
	return 1.0
}

// MatchGoalFactor averages the goal scale of both teams' competitions.
func (s *Simulator) MatchGoalFactor(home, away *Team) float64 {
	return float64((s.GoalFactor(home.Competition) + s.GoalFactor(away.Competition)) * 0.5)
}

// SimulateMatch plays a fixture with the default goal factors.
func SimulateMatch(home, away *Team, seed int64, homeTactic, awayTactic *Tactic) MatchResult {
	return defaultSimulator.Simulate(home, away, seed, homeTactic, awayTactic)
}

// Simulate plays one fixture. The result depends only on its arguments: the same
// teams, seed and tactics always produce the same scoreline.
func (s *Simulator) Simulate(home, away *Team, seed int64, homeTactic, awayTactic *Tactic) MatchResult {
	r := rng.New(seed)
	homeSquad, awaySquad := SelectSquad(home), SelectSquad(away)

	res := MatchResult{
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		Seed:         seed,
		HomeStrength: Strength(homeSquad, homeTactic, true),
		AwayStrength: Strength(awaySquad, awayTactic, false),
	}

	disc := SimulateDiscipline(r, homeSquad, awaySquad, homeTactic, awayTactic)
	res.HomeRedCards, res.AwayRedCards = disc.HomeRedCards, disc.AwayRedCards

	comp := s.MatchGoalFactor(home, away)
	homePace, awayPace := paceFactors(tacticOrDefault(homeTactic), tacticOrDefault(awayTactic))
	homeLambda := scaledLambda(redCardLambda(StrengthToLambda(res.HomeStrength, true), res.HomeRedCards), homePace, comp)
	awayLambda := scaledLambda(redCardLambda(StrengthToLambda(res.AwayStrength, false), res.AwayRedCards), awayPace, comp)

	homeRaw := samplePoisson(r, homeLambda)
	awayRaw := samplePoisson(r, awayLambda)
	res.HomeGoals = reviewGoals(r, homeRaw)
	res.AwayGoals = reviewGoals(r, awayRaw)
	res.HomeDisallowed = homeRaw - res.HomeGoals
	res.AwayDisallowed = awayRaw - res.AwayGoals
	return res
}

// StrengthToLambda maps a 10..99 strength onto an expected goal count.
func StrengthToLambda(strength float64, home bool) float64 {
	lam := lambdaBase + float64(((strength-minStrength)/89.0)*lambdaSpan)
	if home {
		return float64(lam * homeLambdaBoost)
	}
	return lam
}

func redCardLambda(lam float64, reds int) float64 {
	if reds <= 0 {
		return lam
	}
	return math.Max(minLambda, float64(lam*redCardPenalty))
}

func scaledLambda(lam, pace, comp float64) float64 {
	return math.Max(minLambda, float64(float64(lam*pace)*comp))
}

// paceFactors slows the game down when either side wastes time; the side doing
// it loses a little more than its opponent.
func paceFactors(home, away Tactic) (float64, float64) {
	switch {
	case home.TimeWasting && away.TimeWasting:
		return 0.82, 0.82
	case home.TimeWasting:
		return 0.88, 0.92
	case away.TimeWasting:
		return 0.92, 0.88
	default:
		return 1.0, 1.0
	}
}

// reviewGoals sends each goal to VAR with probability 0.18; a review disallows
// it with probability 0.38.
func reviewGoals(r *rng.Rand, goals int) int {
	remaining := goals
	for i := 0; i < goals; i++ {
		if r.NextDouble() < varReviewChance && r.NextDouble() < varDisallowChance {
			remaining--
		}
	}
	return clampCount(remaining, 0, MaxGoals)
}
