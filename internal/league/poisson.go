package league

import (
	"math"

	"github.com/utakatalp/league-engine/internal/rng"
)

// MaxGoals caps a single Poisson draw.
const MaxGoals = 8

// samplePoisson draws from a Poisson distribution with mean lambda using Knuth's
// multiplication method, clamped to [0, MaxGoals].
func samplePoisson(r *rng.Rand, lambda float64) int {
	L := math.Exp(-lambda)
	p := 1.0
	k := 0
	for {
		k++
		p *= r.NextDouble()
		if p <= L {
			break
		}
	}
	return clampCount(k-1, 0, MaxGoals)
}

func clampCount(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
