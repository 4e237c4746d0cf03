// Package rng provides the random sources the game core draws from.
// Every probabilistic decision (piece shape, block kind, virus infection and
// spread) goes through a Source so that games can be seeded, replayed, and
// stubbed in tests.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source is the randomness consumed by the game core. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
	// IntN returns a pseudo-random number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Compile-time check that the standard generator satisfies Source.
var _ Source = (*rand.Rand)(nil)

// New returns a PCG-backed Source. The same seed always produces the same game.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewFromTime returns a Source seeded from the wall clock, along with the seed
// used so the game can be reproduced later.
func NewFromTime() (Source, uint64) {
	seed := uint64(time.Now().UnixNano())
	return New(seed), seed
}

// Scripted replays a fixed sequence of draws. Once a sequence is exhausted it
// keeps returning Default (for Float64) or 0 (for IntN).
//
// Default starts at 0.5, which lands in the "standard" kind bucket and misses
// both the infection and spread thresholds, so exhausted scripts leave the
// board alone.
type Scripted struct {
	Floats  []float64
	Ints    []int
	Default float64

	floatDraws int
	intDraws   int
}

// NewScripted creates a Scripted source that yields floats in order.
func NewScripted(floats ...float64) *Scripted {
	return &Scripted{Floats: floats, Default: 0.5}
}

// WithInts sets the IntN sequence and returns the source for chaining.
func (s *Scripted) WithInts(ints ...int) *Scripted {
	s.Ints = ints
	return s
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	i := s.floatDraws
	s.floatDraws++
	if i < len(s.Floats) {
		return s.Floats[i]
	}
	return s.Default
}

// IntN returns the next scripted int reduced modulo n.
func (s *Scripted) IntN(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to IntN")
	}
	i := s.intDraws
	s.intDraws++
	if i < len(s.Ints) {
		v := s.Ints[i] % n
		if v < 0 {
			v += n
		}
		return v
	}
	return 0
}

// FloatDraws reports how many times Float64 has been called.
func (s *Scripted) FloatDraws() int {
	return s.floatDraws
}

// IntDraws reports how many times IntN has been called.
func (s *Scripted) IntDraws() int {
	return s.intDraws
}
