// Package simulations provides synthetic data generators and a trial-running
// simulator for evaluating stratified sketch accuracy. Each generator yields
// a sequence of id sets, one per simulated data source; repeats of an id
// within a set model repeat exposure.
package simulations

import (
	"errors"
	"iter"
	"math"
	"math/rand"
)

// SetGenerator yields one id set per data source. The sequence is finite and
// consumed once.
type SetGenerator interface {
	Sets() iter.Seq[[]uint64]
}

// FixedSetGenerator replays a fixed collection of sets. Useful in tests and
// for replaying captured inputs.
type FixedSetGenerator struct {
	sets [][]uint64
}

func NewFixedSetGenerator(sets [][]uint64) *FixedSetGenerator {
	return &FixedSetGenerator{sets: sets}
}

func (g *FixedSetGenerator) Sets() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for _, s := range g.sets {
			if !yield(s) {
				return
			}
		}
	}
}

// IndependentSetGenerator draws each set independently and uniformly from the
// id universe [0, universeSize), without repeats inside a set.
type IndependentSetGenerator struct {
	universeSize uint64
	numSets      int
	setSize      int
	rng          *rand.Rand
}

func NewIndependentSetGenerator(universeSize uint64, numSets, setSize int, seed int64) (*IndependentSetGenerator, error) {
	if universeSize == 0 {
		return nil, errors.New("universe size must be greater than 0")
	}
	if numSets < 0 || setSize < 0 {
		return nil, errors.New("number of sets and set size must not be negative")
	}
	if uint64(setSize) > universeSize {
		return nil, errors.New("set size must not exceed the universe size")
	}
	return &IndependentSetGenerator{
		universeSize: universeSize,
		numSets:      numSets,
		setSize:      setSize,
		rng:          rand.New(rand.NewSource(seed)),
	}, nil
}

func (g *IndependentSetGenerator) Sets() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for i := 0; i < g.numSets; i++ {
			if !yield(g.sampleWithoutReplacement()) {
				return
			}
		}
	}
}

func (g *IndependentSetGenerator) sampleWithoutReplacement() []uint64 {
	seen := make(map[uint64]bool, g.setSize)
	set := make([]uint64, 0, g.setSize)
	for len(set) < g.setSize {
		id := uint64(g.rng.Int63n(int64(g.universeSize)))
		if seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	return set
}

// HomogeneousMultiSetGenerator draws sets like IndependentSetGenerator but
// repeats each drawn id 1+Poisson(freqRate) times, capped at freqCap, to
// model repeat exposure with a homogeneous frequency distribution.
type HomogeneousMultiSetGenerator struct {
	inner    *IndependentSetGenerator
	freqRate float64
	freqCap  int
}

func NewHomogeneousMultiSetGenerator(universeSize uint64, numSets, setSize int, freqRate float64, freqCap int, seed int64) (*HomogeneousMultiSetGenerator, error) {
	if freqRate < 0 {
		return nil, errors.New("frequency rate must not be negative")
	}
	if freqCap < 1 {
		return nil, errors.New("frequency cap must be at least 1")
	}
	inner, err := NewIndependentSetGenerator(universeSize, numSets, setSize, seed)
	if err != nil {
		return nil, err
	}
	return &HomogeneousMultiSetGenerator{
		inner:    inner,
		freqRate: freqRate,
		freqCap:  freqCap,
	}, nil
}

func (g *HomogeneousMultiSetGenerator) Sets() iter.Seq[[]uint64] {
	return func(yield func([]uint64) bool) {
		for i := 0; i < g.inner.numSets; i++ {
			base := g.inner.sampleWithoutReplacement()
			set := make([]uint64, 0, len(base))
			for _, id := range base {
				f := 1 + g.poisson()
				if f > g.freqCap {
					f = g.freqCap
				}
				for j := 0; j < f; j++ {
					set = append(set, id)
				}
			}
			if !yield(set) {
				return
			}
		}
	}
}

// poisson draws from Poisson(freqRate) with Knuth's product method. Fine for
// the small rates used in frequency modeling.
func (g *HomogeneousMultiSetGenerator) poisson() int {
	l := math.Exp(-g.freqRate)
	k := 0
	p := 1.0
	for {
		p *= g.inner.rng.Float64()
		if p <= l {
			return k
		}
		k++
	}
}
