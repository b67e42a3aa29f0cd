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

// Package sketches defines the cardinality-sketch capability consumed by the
// stratified frequency sketch, together with concrete implementations: the
// ExactMultiSet reference type, a roaring-bitmap-backed set sketch, and a
// bloom-filter-backed approximate membership sketch.
//
// A sketch type never merges itself. Combination is delegated to an Operator
// supplied by the caller, so the same stratified merge code works across
// exact and probabilistic representations.
package sketches

// Sketch is the minimal capability required of a per-bucket cardinality
// sketch: insertion and (possibly approximate) membership.
type Sketch interface {
	// Add inserts one occurrence of the given id.
	Add(id uint64)

	// AddMany inserts one occurrence of every id in the slice.
	// Semantically equal to repeated Add.
	AddMany(ids []uint64)

	// Contains reports whether the id is a member of this sketch.
	// Probabilistic implementations may return false positives.
	Contains(id uint64) bool
}

// MergeableSketch is a Sketch that additionally exposes an exact materialized
// view of its contents. The stratified merge estimators require this view to
// redistribute ids across frequency buckets.
type MergeableSketch interface {
	Sketch

	// Materialize returns a read-only snapshot mapping each retained id to
	// its occurrence count (1 for presence-only sketches).
	Materialize() map[uint64]uint64

	// NumRetained returns the number of distinct ids retained.
	NumRetained() int
}

// Factory produces a fresh empty sketch of a fixed concrete type. The seed
// governs any internal randomized sampling so that sketches built with equal
// seeds remain combinable at the sample level. Implementations without
// internal randomness ignore it.
type Factory[S Sketch] func(seed int64) S

// Operator is the pluggable combine rule for two sketches of the same
// concrete type. Operators are stateless; Union must not mutate either
// operand.
type Operator[S Sketch] interface {
	Union(a, b S) (S, error)
}
