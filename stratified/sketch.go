/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package stratified implements a frequency-stratified cardinality sketch:
// a set of independent per-frequency cardinality sketches that together
// summarize how many distinct ids a data source observed and how often.
//
// A sketch holds maxFreq numeric buckets plus one any-frequency bucket. An id
// with true frequency f lives in bucket min(f, maxFreq); the any bucket holds
// every id regardless of frequency. Sketches built independently over
// different sources can be merged with the Pairwise or Sequential estimators
// while preserving these semantics.
//
// Sketches are immutable once constructed. Merges allocate a new sketch and
// never mutate their inputs, so concurrent reads need no locking.
package stratified

import (
	"errors"
	"fmt"
	"iter"

	"github.com/openmeasurement/stratsketch/sketches"
)

var (
	// ErrIncompatibleSketches is returned when sketches with different
	// maxFreq or seed are combined.
	ErrIncompatibleSketches = errors.New("incompatible stratified sketches")

	// ErrInvalidMaxFreq is returned when a sketch is created with a
	// non-positive frequency cap.
	ErrInvalidMaxFreq = errors.New("maximum frequency must be at least 1")

	// ErrInvalidFrequency is returned when construction input carries a
	// non-positive frequency.
	ErrInvalidFrequency = errors.New("frequency must be at least 1")

	// ErrBucketOutOfRange is returned when a numeric bucket outside
	// [1, maxFreq] is requested.
	ErrBucketOutOfRange = errors.New("bucket key out of range")

	// ErrNoSketches is returned by the sequential estimator when it is given
	// no sketches and has no empty-result configuration.
	ErrNoSketches = errors.New("no sketches to merge")
)

// Sketch is a frequency-stratified cardinality sketch over a concrete bucket
// sketch type S. Buckets 1..maxFreq partition the observed ids by capped true
// frequency; the any bucket is their union.
type Sketch[S sketches.Sketch] struct {
	maxFreq int
	seed    int64
	factory sketches.Factory[S]

	// freq[i] holds ids whose capped frequency is i+1.
	freq []S
	any  S
}

// New creates an empty stratified sketch. Every bucket is a fresh sketch from
// the factory, all built with the same seed so they stay combinable.
func New[S sketches.Sketch](maxFreq int, factory sketches.Factory[S], seed int64) (*Sketch[S], error) {
	if maxFreq < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxFreq, maxFreq)
	}
	if factory == nil {
		return nil, errors.New("sketch factory must not be nil")
	}
	s := &Sketch[S]{
		maxFreq: maxFreq,
		seed:    seed,
		factory: factory,
		freq:    make([]S, maxFreq),
		any:     factory(seed),
	}
	for i := range s.freq {
		s.freq[i] = factory(seed)
	}
	return s, nil
}

// FromFrequencies builds a stratified sketch from an id to true-frequency
// mapping. Each id lands in bucket min(frequency, maxFreq) and in the any
// bucket. Fails without building anything if any frequency is non-positive.
func FromFrequencies[S sketches.Sketch](maxFreq int, freqs map[uint64]int64, factory sketches.Factory[S], seed int64) (*Sketch[S], error) {
	for id, f := range freqs {
		if f < 1 {
			return nil, fmt.Errorf("%w: id %d has frequency %d", ErrInvalidFrequency, id, f)
		}
	}
	s, err := New(maxFreq, factory, seed)
	if err != nil {
		return nil, err
	}
	for id, f := range freqs {
		key := int(f)
		if key > maxFreq {
			key = maxFreq
		}
		s.freq[key-1].Add(id)
		s.any.Add(id)
	}
	return s, nil
}

// FromExactMultiSet builds a stratified sketch from an exact multiset of
// observations, using its counts as true frequencies.
func FromExactMultiSet[S sketches.Sketch](maxFreq int, m *sketches.ExactMultiSet, factory sketches.Factory[S], seed int64) (*Sketch[S], error) {
	counts := m.Materialize()
	freqs := make(map[uint64]int64, len(counts))
	for id, n := range counts {
		freqs[id] = int64(n)
	}
	return FromFrequencies(maxFreq, freqs, factory, seed)
}

// FromSets builds a stratified sketch from a sequence of observed id sets,
// e.g. one set per campaign or per day. Repeats of an id, within or across
// sets, accumulate its true frequency. The sequence is consumed exactly once.
//
// Counting always happens in an exact multiset first; only the final bucket
// representation uses the caller's factory. This keeps the frequency keys
// exact regardless of how lossy the bucket sketch type is.
func FromSets[S sketches.Sketch](maxFreq int, sets iter.Seq[[]uint64], factory sketches.Factory[S], seed int64) (*Sketch[S], error) {
	m := sketches.NewExactMultiSet()
	for set := range sets {
		m.AddMany(set)
	}
	return FromExactMultiSet(maxFreq, m, factory, seed)
}

// MaxFreq returns the frequency cap fixed at construction.
func (s *Sketch[S]) MaxFreq() int {
	return s.maxFreq
}

// Seed returns the sampling seed fixed at construction.
func (s *Sketch[S]) Seed() int64 {
	return s.seed
}

// NumBuckets returns the total bucket count, maxFreq numeric buckets plus the
// any bucket.
func (s *Sketch[S]) NumBuckets() int {
	return s.maxFreq + 1
}

// FrequencyBucket returns the bucket holding ids with capped frequency k,
// for k in [1, maxFreq].
func (s *Sketch[S]) FrequencyBucket(k int) (S, error) {
	if k < 1 || k > s.maxFreq {
		var zero S
		return zero, fmt.Errorf("%w: %d not in [1, %d]", ErrBucketOutOfRange, k, s.maxFreq)
	}
	return s.freq[k-1], nil
}

// AnyBucket returns the bucket holding every observed id regardless of
// frequency.
func (s *Sketch[S]) AnyBucket() S {
	return s.any
}

// AssertCompatible reports whether another sketch can be merged with this
// one. Merging requires an equal frequency cap and an equal seed; combining
// sketches sampled under different seeds would silently corrupt the result,
// so a mismatch is always surfaced as an error.
func (s *Sketch[S]) AssertCompatible(other *Sketch[S]) error {
	if s.maxFreq != other.maxFreq {
		return fmt.Errorf("%w: maxFreq %d != %d", ErrIncompatibleSketches, s.maxFreq, other.maxFreq)
	}
	if s.seed != other.seed {
		return fmt.Errorf("%w: seed %d != %d", ErrIncompatibleSketches, s.seed, other.seed)
	}
	return nil
}

// bucketKeyOf returns the 1-based numeric bucket key holding the id, or 0 if
// the id is in no numeric bucket.
func (s *Sketch[S]) bucketKeyOf(id uint64) int {
	for i, bucket := range s.freq {
		if bucket.Contains(id) {
			return i + 1
		}
	}
	return 0
}
