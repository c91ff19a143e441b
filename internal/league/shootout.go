package league

import "github.com/utakatalp/league-engine/internal/rng"

const shootoutSeedMask int64 = 0x7A4B3C2D1E0F1234

const (
	shootoutKicks     = 5
	suddenDeathRounds = 20
	basePenaltyChance = 0.72
	minPenaltyChance  = 0.55
	maxPenaltyChance  = 0.90
)

// Shootout is the penalty count of a drawn knockout tie.
type Shootout struct {
	HomePenalties int `json:"home_penalties"`
	AwayPenalties int `json:"away_penalties"`
}

// Winner returns the side that scored more penalties.
func (s Shootout) Winner() Side {
	if s.HomePenalties > s.AwayPenalties {
		return Home
	}
	return Away
}

// PenaltyShootout plays five kicks each, then up to twenty sudden-death rounds.
// If still level it is settled by a coin flip, so there is always a winner.
func PenaltyShootout(home, away *Team, seed int64) Shootout {
	r := rng.New(seed ^ shootoutSeedMask)
	homeChance := penaltyChance(SelectSquad(home))
	awayChance := penaltyChance(SelectSquad(away))

	var s Shootout
	kick := func() {
		if r.NextDouble() < homeChance {
			s.HomePenalties++
		}
		if r.NextDouble() < awayChance {
			s.AwayPenalties++
		}
	}
	for i := 0; i < shootoutKicks; i++ {
		kick()
	}
	for round := 0; s.HomePenalties == s.AwayPenalties && round < suddenDeathRounds; round++ {
		kick()
	}
	if s.HomePenalties == s.AwayPenalties {
		if r.NextBoolean() {
			s.HomePenalties++
		} else {
			s.AwayPenalties++
		}
	}
	return s
}

func penaltyChance(squad MatchSquad) float64 {
	finishing := average(squad.Players, func(p Player) float64 {
		return float64(p.Finishing+p.Shooting+p.Quality) / 3.0
	}, NeutralRating)
	return clamp(basePenaltyChance+(finishing-50.0)/250.0, minPenaltyChance, maxPenaltyChance)
}
