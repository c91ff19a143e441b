package league

// NeutralStrength is the rating of a side with no players at all.
const NeutralStrength = 50.0

const (
	minStrength = 10.0
	maxStrength = 99.0
)

// Products are wrapped in float64 conversions so the compiler never fuses them
// into FMA instructions; ratings must be bit-identical on every GOARCH.

func weighted(v int, w float64) float64 {
	return float64(float64(v) * w)
}

func formFactor(p Player) float64 {
	return weighted(p.form()-NeutralRating, 0.05)
}

func runtimeBonus(p Player) float64 {
	return weighted(p.form()-NeutralRating, 0.02) + float64((float64(p.morale()-NeutralRating)/100.0)*2.0)
}

func goalkeeperScore(p Player) float64 {
	return weighted(p.Goalkeeping, 0.6) + weighted(p.Stamina, 0.2) + weighted(p.Quality, 0.2) + formFactor(p)
}

func defenderScore(p Player) float64 {
	return weighted(p.Tackling, 0.4) + weighted(p.Quality, 0.3) + weighted(p.Speed, 0.2) + weighted(p.Stamina, 0.1) + formFactor(p)
}

func midfielderScore(p Player) float64 {
	return weighted(p.Passing, 0.35) + weighted(p.Quality, 0.3) + weighted(p.Stamina, 0.2) + weighted(p.Shooting, 0.15) + formFactor(p)
}

func forwardScore(p Player) float64 {
	return weighted(p.Finishing, 0.4) + weighted(p.Dribbling, 0.25) + weighted(p.Quality, 0.2) + weighted(p.Shooting, 0.15) + formFactor(p)
}

func average(players []Player, score func(Player) float64, fallback float64) float64 {
	if len(players) == 0 {
		return fallback
	}
	sum := 0.0
	for _, p := range players {
		sum += score(p)
	}
	return sum / float64(len(players))
}

// Strength rates a squad on the 10..99 scale. A nil tactic means DefaultTactic.
func Strength(squad MatchSquad, tactic *Tactic, home bool) float64 {
	if squad.Len() == 0 {
		return NeutralStrength
	}
	gk := average(squad.Goalkeeper(), goalkeeperScore, NeutralRating)
	def := average(squad.Defenders(), defenderScore, NeutralRating)
	mid := average(squad.Midfielders(), midfielderScore, NeutralRating)
	fwd := average(squad.Forwards(), forwardScore, NeutralRating)

	base := float64(gk*0.15) + float64(def*0.3) + float64(mid*0.3) + float64(fwd*0.25)
	runtime := average(squad.Players, runtimeBonus, 0)
	return clamp(base+tacticOrDefault(tactic).Adjustment(home)+runtime, minStrength, maxStrength)
}

// TeamStrength selects the team's squad and rates it.
func TeamStrength(team *Team, tactic *Tactic, home bool) float64 {
	return Strength(SelectSquad(team), tactic, home)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampProbability bounds p to [0, 1].
func ClampProbability(p float64) float64 {
	return clamp(p, 0, 1)
}
