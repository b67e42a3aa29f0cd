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

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// BitmapSketch is a presence-only sketch backed by a compressed roaring
// bitmap. Membership and cardinality are exact; repeat additions of the same
// id are idempotent, so it is suitable for stratified buckets but not for the
// frequency-counting construction step.
type BitmapSketch struct {
	bits *roaring64.Bitmap
}

// NewBitmapSketch creates an empty bitmap sketch.
func NewBitmapSketch() *BitmapSketch {
	return &BitmapSketch{bits: roaring64.NewBitmap()}
}

// NewBitmapSketchFactory returns a Factory producing empty bitmap sketches.
// The seed is ignored; the bitmap representation is deterministic.
func NewBitmapSketchFactory() Factory[*BitmapSketch] {
	return func(seed int64) *BitmapSketch {
		return NewBitmapSketch()
	}
}

// Add inserts the id. Adding a present id is a no-op.
func (s *BitmapSketch) Add(id uint64) {
	s.bits.Add(id)
}

// AddMany inserts every id in the slice.
func (s *BitmapSketch) AddMany(ids []uint64) {
	s.bits.AddMany(ids)
}

// Contains reports exact membership of the id.
func (s *BitmapSketch) Contains(id uint64) bool {
	return s.bits.Contains(id)
}

// Materialize returns the retained ids, each mapped to count 1.
func (s *BitmapSketch) Materialize() map[uint64]uint64 {
	out := make(map[uint64]uint64, s.bits.GetCardinality())
	it := s.bits.Iterator()
	for it.HasNext() {
		out[it.Next()] = 1
	}
	return out
}

// NumRetained returns the exact number of distinct ids.
func (s *BitmapSketch) NumRetained() int {
	return int(s.bits.GetCardinality())
}

// BitmapOperation combines bitmap sketches by bitwise OR.
type BitmapOperation struct{}

func (BitmapOperation) Union(a, b *BitmapSketch) (*BitmapSketch, error) {
	out := a.bits.Clone()
	out.Or(b.bits)
	return &BitmapSketch{bits: out}, nil
}
