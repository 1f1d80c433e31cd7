package domain

import (
	"math/rand/v2"

	"github.com/jonboulle/clockwork"
)

// Rand is the random source consumed by the generators.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// NormFloat64 returns a standard normal variate.
	NormFloat64() float64
	// Float64 returns a uniform variate in [0, 1).
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ResolveSeed returns seed unchanged unless it is zero, in which case a seed
// is derived from the clock.
func ResolveSeed(seed uint64, clock clockwork.Clock) uint64 {
	if seed != 0 {
		return seed
	}
	s := uint64(clock.Now().UnixNano())
	if s == 0 {
		return 1
	}
	return s
}

func uniform(rng Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
