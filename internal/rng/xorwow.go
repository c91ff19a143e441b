// Package rng implements the seeded xorwow generator used by every simulation path.
//
// The sequence is bit-identical to kotlin.random.Random(seed) so that seeds recorded
// by other clients of the engine replay to the same matches here.
package rng

import (
	"fmt"
	"math"
	"math/bits"
)

const (
	weylIncrement = 362437
	warmupDraws   = 64
	twoPow53      = float64(1 << 53)
)

// Rand is a xorwow generator with a Weyl-sequence addend. It is not safe for
// concurrent use; give every simulation its own instance.
type Rand struct {
	x, y, z, w, v int32
	addend        int32
}

// New seeds a generator from a 64-bit seed and discards the warm-up draws.
func New(seed int64) *Rand {
	lo := int32(seed)
	hi := int32(seed >> 32)
	r := &Rand{
		x:      lo,
		y:      hi,
		v:      ^lo,
		addend: (lo << 10) ^ int32(uint32(hi)>>4),
	}
	for i := 0; i < warmupDraws; i++ {
		r.NextRawInt()
	}
	return r
}

// NextRawInt advances the state and returns the next 32-bit draw.
func (r *Rand) NextRawInt() int32 {
	t := r.x
	t ^= int32(uint32(t) >> 2)
	r.x = r.y
	r.y = r.z
	r.z = r.w
	v0 := r.v
	r.w = v0
	t = (t ^ (t << 1)) ^ v0 ^ (v0 << 4)
	r.v = t
	r.addend += weylIncrement
	return t + r.addend
}

// NextBits returns the top n bits of a raw draw. n <= 0 yields 0.
func (r *Rand) NextBits(n int) int32 {
	raw := r.NextRawInt()
	if n <= 0 {
		return 0
	}
	return int32(uint32(raw) >> (32 - n))
}

// NextBoolean returns a fair coin flip.
func (r *Rand) NextBoolean() bool {
	return r.NextBits(1) != 0
}

// NextDouble returns a uniform value in [0, 1) built from 53 random bits.
func (r *Rand) NextDouble() float64 {
	hi := int64(r.NextBits(26))
	lo := int64(r.NextBits(27))
	return float64(hi<<27+lo) / twoPow53
}

// NextInt returns a value in [0, bound). It panics when bound <= 0.
func (r *Rand) NextInt(bound int) int {
	return r.NextIntRange(0, bound)
}

// NextIntRange returns a value in [from, until). It panics when until <= from
// or when either bound does not fit in 32 bits: such ranges are programming
// errors and are never clamped.
func (r *Rand) NextIntRange(from, until int) int {
	if until <= from {
		panic(fmt.Sprintf("rng: empty range [%d, %d)", from, until))
	}
	if from < math.MinInt32 || until > math.MaxInt32 {
		panic(fmt.Sprintf("rng: range [%d, %d) exceeds 32 bits", from, until))
	}
	f, u := int32(from), int32(until)
	n := u - f
	if n > 0 || n == minInt32 {
		var v int32
		if n&-n == n {
			v = r.NextBits(31 - bits.LeadingZeros32(uint32(n)))
		} else {
			for {
				raw := int32(uint32(r.NextRawInt()) >> 1)
				v = raw % n
				if raw-v+(n-1) >= 0 {
					break
				}
			}
		}
		return int(f + v)
	}
	for {
		v := r.NextRawInt()
		if f <= v && v < u {
			return int(v)
		}
	}
}

const minInt32 = int32(-1 << 31)
