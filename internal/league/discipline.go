package league

import "github.com/utakatalp/league-engine/internal/rng"

const (
	yellowCardMean    = 1.5
	hardFoulsRedCard  = 0.05
	yellowsForRedCard = 2
)

// Discipline is the card tally of one batch-simulated match.
type Discipline struct {
	HomeYellows  int `json:"home_yellows"`
	AwayYellows  int `json:"away_yellows"`
	HomeRedCards int `json:"home_red_cards"`
	AwayRedCards int `json:"away_red_cards"`
}

// RedCards returns the dismissals of side.
func (d Discipline) RedCards(side Side) int {
	if side == Away {
		return d.AwayRedCards
	}
	return d.HomeRedCards
}

type lineupCards struct {
	yellows   []int
	dismissed []bool
}

func newLineupCards(size int) *lineupCards {
	return &lineupCards{yellows: make([]int, size), dismissed: make([]bool, size)}
}

// pickEligible draws a slot uniformly among players still on the pitch. It does
// not touch the generator when nobody is eligible.
func (c *lineupCards) pickEligible(r *rng.Rand) (int, bool) {
	eligible := make([]int, 0, len(c.dismissed))
	for i, out := range c.dismissed {
		if !out {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return 0, false
	}
	return eligible[r.NextInt(len(eligible))], true
}

// SimulateDiscipline distributes Poisson(1.5)+Poisson(1.5) yellow cards over both
// lineups, dismissing a slot on its second yellow, then gives each hard-fouling
// side a 5% chance of a straight red. Dismissals are not capped per side.
func SimulateDiscipline(r *rng.Rand, home, away MatchSquad, homeTactic, awayTactic *Tactic) Discipline {
	var d Discipline
	cards := [2]*lineupCards{newLineupCards(home.Len()), newLineupCards(away.Len())}

	total := samplePoisson(r, yellowCardMean) + samplePoisson(r, yellowCardMean)
	for i := 0; i < total; i++ {
		side := Away
		if r.NextBoolean() {
			side = Home
		}
		c := cards[side]
		slot, ok := c.pickEligible(r)
		if !ok {
			continue
		}
		c.yellows[slot]++
		d.addYellow(side)
		if c.yellows[slot] >= yellowsForRedCard {
			c.dismissed[slot] = true
			d.addRed(side)
		}
	}

	tactics := [2]Tactic{tacticOrDefault(homeTactic), tacticOrDefault(awayTactic)}
	for _, side := range []Side{Home, Away} {
		if tactics[side].Fouls != FoulsHard || r.NextDouble() >= hardFoulsRedCard {
			continue
		}
		c := cards[side]
		if slot, ok := c.pickEligible(r); ok {
			c.dismissed[slot] = true
			d.addRed(side)
		}
	}
	return d
}

func (d *Discipline) addYellow(side Side) {
	if side == Away {
		d.AwayYellows++
	} else {
		d.HomeYellows++
	}
}

func (d *Discipline) addRed(side Side) {
	if side == Away {
		d.AwayRedCards++
	} else {
		d.HomeRedCards++
	}
}
