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

package sketches

// ExactMultiSet is the exact reference sketch: an id to occurrence-count
// mapping. Add never fails. It serves both as ground truth in evaluations and
// as the intermediate counting structure when a stratified sketch is built
// from raw sets.
type ExactMultiSet struct {
	counts map[uint64]uint64
}

// NewExactMultiSet creates an empty exact multiset.
func NewExactMultiSet() *ExactMultiSet {
	return &ExactMultiSet{counts: make(map[uint64]uint64)}
}

// NewExactMultiSetFactory returns a Factory producing empty exact multisets.
// The seed is ignored; the exact type has no internal randomness.
func NewExactMultiSetFactory() Factory[*ExactMultiSet] {
	return func(seed int64) *ExactMultiSet {
		return NewExactMultiSet()
	}
}

// Add increments the occurrence count of the id.
func (s *ExactMultiSet) Add(id uint64) {
	s.counts[id]++
}

// AddMany increments the occurrence count of every id in the slice.
func (s *ExactMultiSet) AddMany(ids []uint64) {
	for _, id := range ids {
		s.counts[id]++
	}
}

// Contains reports whether the id has been added at least once.
func (s *ExactMultiSet) Contains(id uint64) bool {
	_, ok := s.counts[id]
	return ok
}

// Count returns the exact occurrence count of the id, 0 if absent.
func (s *ExactMultiSet) Count(id uint64) uint64 {
	return s.counts[id]
}

// Materialize returns a copy of the id to count mapping.
func (s *ExactMultiSet) Materialize() map[uint64]uint64 {
	out := make(map[uint64]uint64, len(s.counts))
	for id, n := range s.counts {
		out[id] = n
	}
	return out
}

// NumRetained returns the number of distinct ids.
func (s *ExactMultiSet) NumRetained() int {
	return len(s.counts)
}

// ExactSetOperation combines exact multisets by set union. Both operands are
// treated as plain id sets: each id appears in the result with count 1,
// matching the binary membership semantics of stratified buckets.
type ExactSetOperation struct{}

func (ExactSetOperation) Union(a, b *ExactMultiSet) (*ExactMultiSet, error) {
	out := NewExactMultiSet()
	for id := range a.counts {
		out.counts[id] = 1
	}
	for id := range b.counts {
		out.counts[id] = 1
	}
	return out, nil
}
