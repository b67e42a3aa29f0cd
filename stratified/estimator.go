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

package stratified

import (
	"github.com/openmeasurement/stratsketch/sketches"
)

// PairwiseEstimator merges exactly two stratified sketches. The operator
// supplied at construction performs every per-bucket combine.
type PairwiseEstimator[S sketches.MergeableSketch] struct {
	op sketches.Operator[S]
}

// NewPairwiseEstimator creates a pairwise estimator using the given operator.
func NewPairwiseEstimator[S sketches.MergeableSketch](op sketches.Operator[S]) *PairwiseEstimator[S] {
	return &PairwiseEstimator[S]{op: op}
}

// MergeSketches combines two compatible stratified sketches into a new one.
// The any bucket of the result is the operator union of both any buckets.
// Each id in the combined reach lands in the bucket given by the saturating
// sum of its per-input bucket keys: exact when neither input saturated, an
// understatement (never an overstatement) when one did. Inputs are never
// mutated; incompatible inputs fail before any combination is attempted.
func (e *PairwiseEstimator[S]) MergeSketches(a, b *Sketch[S]) (*Sketch[S], error) {
	if err := a.AssertCompatible(b); err != nil {
		return nil, err
	}

	out, err := New(a.maxFreq, a.factory, a.seed)
	if err != nil {
		return nil, err
	}

	anyUnion, err := e.op.Union(a.any, b.any)
	if err != nil {
		return nil, err
	}
	out.any = anyUnion

	for id := range anyUnion.Materialize() {
		key := SaturatingSum(a.bucketKeyOf(id), b.bucketKeyOf(id), a.maxFreq)
		if key > 0 {
			out.freq[key-1].Add(id)
		}
	}
	return out, nil
}

// SequentialEstimator merges an ordered list of stratified sketches in a
// single pass, equivalent to folding the pairwise merge left to right but
// without materializing N-1 intermediate sketches.
type SequentialEstimator[S sketches.MergeableSketch] struct {
	op sketches.Operator[S]

	emptyMaxFreq int
	emptySeed    int64
	emptyFactory sketches.Factory[S]
}

type SequentialOptionFunc[S sketches.MergeableSketch] func(*SequentialEstimator[S])

// WithEmptyResult configures the sketch shape returned when MergeSketches is
// given no inputs. Without it, merging an empty list fails.
func WithEmptyResult[S sketches.MergeableSketch](maxFreq int, factory sketches.Factory[S], seed int64) SequentialOptionFunc[S] {
	return func(e *SequentialEstimator[S]) {
		e.emptyMaxFreq = maxFreq
		e.emptySeed = seed
		e.emptyFactory = factory
	}
}

// NewSequentialEstimator creates a sequential estimator using the given
// operator.
func NewSequentialEstimator[S sketches.MergeableSketch](op sketches.Operator[S], opts ...SequentialOptionFunc[S]) *SequentialEstimator[S] {
	e := &SequentialEstimator[S]{op: op}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MergeSketches combines all given stratified sketches into a new one.
// Every input must be compatible with the first; compatibility is checked
// up front so no partial result is ever produced. A single input yields an
// operator-mediated copy. Because the saturating sum is associative and
// commutative, the result is bucket-for-bucket equal to any pairwise fold
// over the same inputs.
func (e *SequentialEstimator[S]) MergeSketches(list []*Sketch[S]) (*Sketch[S], error) {
	if len(list) == 0 {
		if e.emptyFactory == nil {
			return nil, ErrNoSketches
		}
		return New(e.emptyMaxFreq, e.emptyFactory, e.emptySeed)
	}

	first := list[0]
	for _, s := range list[1:] {
		if err := first.AssertCompatible(s); err != nil {
			return nil, err
		}
	}

	out, err := New(first.maxFreq, first.factory, first.seed)
	if err != nil {
		return nil, err
	}

	// Union with the fresh empty any bucket copies the first input rather
	// than aliasing it.
	anyUnion, err := e.op.Union(first.any, out.any)
	if err != nil {
		return nil, err
	}
	for _, s := range list[1:] {
		anyUnion, err = e.op.Union(anyUnion, s.any)
		if err != nil {
			return nil, err
		}
	}
	out.any = anyUnion

	for id := range anyUnion.Materialize() {
		key := 0
		for _, s := range list {
			key = SaturatingSum(key, s.bucketKeyOf(id), first.maxFreq)
		}
		if key > 0 {
			out.freq[key-1].Add(id)
		}
	}
	return out, nil
}
