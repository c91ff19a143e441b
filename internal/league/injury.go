package league

import (
	"sort"

	"github.com/utakatalp/league-engine/internal/rng"
)

const injurySeedMask int64 = 0x3C5A9E1B7D2F4468

const (
	injuryChance     = 0.08
	minInjuryWeeks   = 2
	maxInjuryWeeks   = 8
	regulationMinute = 90
)

// Injury is a player lost for a number of weeks during a batch match.
type Injury struct {
	Side       Side   `json:"side"`
	TeamID     int    `json:"team_id"`
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Minute     int    `json:"minute"`
	Weeks      int    `json:"weeks"`
}

// BatchInjuries rolls each side's injury for a batch match: an 8% chance that
// one member of the match squad is out for 2 to 8 weeks. It draws from its own
// stream derived from seed, so the scoreline of SimulateMatch is unaffected.
// The result is ordered by minute.
func BatchInjuries(home, away *Team, seed int64) []Injury {
	r := rng.New(seed ^ injurySeedMask)
	var out []Injury
	for _, side := range []Side{Home, Away} {
		team := home
		if side == Away {
			team = away
		}
		if inj, ok := rollInjury(r, team, side); ok {
			out = append(out, inj)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minute < out[j].Minute })
	return out
}

func rollInjury(r *rng.Rand, team *Team, side Side) (Injury, bool) {
	squad := SelectSquad(team)
	if squad.Len() == 0 {
		return Injury{}, false
	}
	if r.NextDouble() >= injuryChance {
		return Injury{}, false
	}
	p := squad.Players[r.NextInt(squad.Len())]
	weeks := r.NextIntRange(minInjuryWeeks, maxInjuryWeeks+1)
	return Injury{
		Side:       side,
		TeamID:     team.ID,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Minute:     r.NextIntRange(1, regulationMinute+1),
		Weeks:      weeks,
	}, true
}
