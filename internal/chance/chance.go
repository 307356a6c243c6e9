// Package chance provides the random draws used by the simulation.
// Every draw goes through a Source so tests can substitute a scripted sequence
// and gameplay can be replayed from a seed.
package chance

import (
	"math/rand"
	"time"
)

// Source is the minimal random interface the simulation depends on.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64 // uniform in [0, 1)
	Intn(n int) int   // uniform in [0, n)
}

// New returns a seeded source. A zero seed selects a time-based seed.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Range returns a uniform float in [min, max).
// If max <= min it returns min without consuming a draw.
func Range(src Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + src.Float64()*(max-min)
}

// IntRange returns a uniform int in [min, max] (inclusive).
func IntRange(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Roll reports whether an event of probability p happens.
func Roll(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// Weighted pairs a relative weight with a variant.
type Weighted[T any] struct {
	Weight float64
	Value  T
}

// Pick draws one value proportionally to its weight.
// Options with a non-positive weight never win. Returns false if the total
// weight is zero, in which case no draw is consumed.
func Pick[T any](src Source, options []Weighted[T]) (T, bool) {
	var zero T

	total := 0.0
	for _, o := range options {
		if o.Weight > 0 {
			total += o.Weight
		}
	}
	if total <= 0 {
		return zero, false
	}

	r := src.Float64() * total
	acc := 0.0
	last := -1
	for i, o := range options {
		if o.Weight <= 0 {
			continue
		}
		acc += o.Weight
		last = i
		if r < acc {
			return o.Value, true
		}
	}

	// Float rounding can leave r == total; fall back to the last eligible option.
	return options[last].Value, true
}
