// Package rng provides the seeded random sampling generator used by the
// event generation and cascade code. A Generator is owned by exactly one run
// and is not safe for concurrent use; parallel runs derive independent child
// generators from the root seed.
package rng

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Sampling failure modes surfaced to callers as wrapped sentinel errors.
var (
	// ErrNoWeight indicates a discrete draw over weights with a non-positive
	// total, so no index can be selected.
	ErrNoWeight = errors.New("no positive sampling weight")
	// ErrNegativeWeight indicates a discrete draw over weights containing a
	// negative entry.
	ErrNegativeWeight = errors.New("negative sampling weight")
	// ErrBadSupport indicates a continuous draw over an empty or inverted
	// interval.
	ErrBadSupport = errors.New("invalid sampling support")
)

// Generator produces the pseudo-random numbers consumed by one run. It wraps
// a PCG stream seeded deterministically from a single 64-bit seed.
type Generator struct {
	src  *rand.Rand
	seed uint64
}

// New returns a Generator deterministically seeded from seed.
func New(seed uint64) *Generator {
	hi := splitmix64(seed ^ 0x9e3779b97f4a7c15)
	lo := splitmix64(seed ^ 0xda942042e4dd58b5)
	return &Generator{src: rand.New(rand.NewPCG(hi, lo)), seed: seed}
}

// Seed returns the seed this generator was constructed from.
func (g *Generator) Seed() uint64 { return g.seed }

// Derive returns an independent child generator for stream n. Children with
// distinct n values produce uncorrelated sequences, and the mapping from
// (seed, n) to the child stream is deterministic.
func (g *Generator) Derive(n uint64) *Generator {
	return New(splitmix64(g.seed) ^ splitmix64(n^0xbf58476d1ce4e5b9))
}

// Uint64 returns a uniformly distributed 64-bit value.
func (g *Generator) Uint64() uint64 { return g.src.Uint64() }

// Float64 returns a uniform value in [0, 1).
func (g *Generator) Float64() float64 { return g.src.Float64() }

// Uniform returns a uniform value in [a, b).
func (g *Generator) Uniform(a, b float64) float64 {
	return a + (b-a)*g.src.Float64()
}

// DiscreteIndex samples an index in [0, len(weights)) with probability
// proportional to the weights. It rejects negative weights and weight lists
// whose total is not positive.
func (g *Generator) DiscreteIndex(weights []float64) (int, error) {
	var total float64
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("weight %d is %v: %w", i, w, ErrNegativeWeight)
		}
		total += w
	}
	if total <= 0 {
		return 0, fmt.Errorf("total weight %v over %d entries: %w", total, len(weights), ErrNoWeight)
	}
	r := g.src.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		r -= w
		if r < 0 {
			return i, nil
		}
	}
	// Floating-point underflow in the cumulative walk lands on the final
	// positive-weight entry.
	return last, nil
}

// Rejection samples a value in [a, b) distributed according to pdf using
// rejection sampling with the given envelope maximum. The envelope must
// dominate pdf on the interval.
func (g *Generator) Rejection(pdf func(float64) float64, a, b, max float64) (float64, error) {
	if b <= a {
		return 0, fmt.Errorf("interval [%v, %v): %w", a, b, ErrBadSupport)
	}
	if max <= 0 {
		return 0, fmt.Errorf("envelope maximum %v: %w", max, ErrNoWeight)
	}
	for {
		x := g.Uniform(a, b)
		if g.src.Float64()*max <= pdf(x) {
			return x, nil
		}
	}
}

// splitmix64 mixes x into a new 64-bit state, used for seed expansion.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
