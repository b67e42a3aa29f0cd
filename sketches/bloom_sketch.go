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
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// BloomSketch is an approximate presence-only sketch backed by a bloom
// filter. Contains may return false positives but never false negatives.
// It uses XXHash64 with Kirsch-Mitzenmacher double hashing.
//
// BloomSketch satisfies Sketch but not MergeableSketch: no materialized view
// of its contents exists, so it can back stratified bucket construction and
// membership queries, but not the merge estimators.
type BloomSketch struct {
	seed         uint64
	numHashes    uint16
	capacityBits uint64
	bitArray     []uint64
}

// NewBloomSketch creates an empty bloom sketch with the given bit capacity
// and number of hash functions. The capacity is rounded up to a multiple of
// 64 bits.
func NewBloomSketch(numBits uint64, numHashes uint16, seed int64) (*BloomSketch, error) {
	if numBits == 0 {
		return nil, errors.New("number of bits must be greater than 0")
	}
	if numHashes == 0 {
		return nil, errors.New("number of hashes must be greater than 0")
	}
	numLongs := (numBits + 63) >> 6
	return &BloomSketch{
		seed:         uint64(seed),
		numHashes:    numHashes,
		capacityBits: numLongs << 6,
		bitArray:     make([]uint64, numLongs),
	}, nil
}

// NewBloomSketchFactory returns a Factory producing empty bloom sketches of
// fixed geometry. The factory seed becomes the hash seed, so sketches from
// the same factory and seed are bitwise combinable.
func NewBloomSketchFactory(numBits uint64, numHashes uint16) Factory[*BloomSketch] {
	return func(seed int64) *BloomSketch {
		bs, _ := NewBloomSketch(numBits, numHashes, seed)
		return bs
	}
}

// computeHashes derives two 64-bit hashes of the id for double hashing.
func (s *BloomSketch) computeHashes(id uint64) (h0, h1 uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], id)

	h := xxhash.NewWithSeed(s.seed)
	h.Write(buf[:])
	h0 = h.Sum64()

	h = xxhash.NewWithSeed(h0)
	h.Write(buf[:])
	h1 = h.Sum64()
	return
}

// getHashIndex computes the i-th hash index: g_i(x) = ((h0 + i*h1) >> 1) mod capacity.
func (s *BloomSketch) getHashIndex(h0, h1 uint64, i uint16) uint64 {
	return ((h0 + uint64(i)*h1) >> 1) % s.capacityBits
}

// Add inserts the id.
func (s *BloomSketch) Add(id uint64) {
	h0, h1 := s.computeHashes(id)
	for i := uint16(1); i <= s.numHashes; i++ {
		setBit(s.bitArray, s.getHashIndex(h0, h1, i))
	}
}

// AddMany inserts every id in the slice.
func (s *BloomSketch) AddMany(ids []uint64) {
	for _, id := range ids {
		s.Add(id)
	}
}

// Contains reports whether the id might be a member. False positives are
// possible; false negatives are not.
func (s *BloomSketch) Contains(id uint64) bool {
	h0, h1 := s.computeHashes(id)
	for i := uint16(1); i <= s.numHashes; i++ {
		if !getBit(s.bitArray, s.getHashIndex(h0, h1, i)) {
			return false
		}
	}
	return true
}

// BitsUsed returns the number of bits currently set to 1.
func (s *BloomSketch) BitsUsed() uint64 {
	return countBitsSet(s.bitArray)
}

// Capacity returns the total number of bits.
func (s *BloomSketch) Capacity() uint64 {
	return s.capacityBits
}

// Estimate returns the maximum-likelihood cardinality estimate
// n = -(m/k) * ln(1 - x/m), where m is the capacity in bits, k the number of
// hash functions and x the number of set bits. Returns +Inf when the filter
// is fully saturated.
func (s *BloomSketch) Estimate() float64 {
	m := float64(s.capacityBits)
	x := float64(s.BitsUsed())
	if x >= m {
		return math.Inf(1)
	}
	return -(m / float64(s.numHashes)) * math.Log(1-x/m)
}

// isCompatible reports whether two bloom sketches share seed and geometry.
func (s *BloomSketch) isCompatible(other *BloomSketch) bool {
	return s.seed == other.seed &&
		s.numHashes == other.numHashes &&
		s.capacityBits == other.capacityBits
}

// BloomOperation combines bloom sketches by bitwise OR. Union fails when the
// operands differ in seed, hash count or capacity.
type BloomOperation struct{}

func (BloomOperation) Union(a, b *BloomSketch) (*BloomSketch, error) {
	if !a.isCompatible(b) {
		return nil, fmt.Errorf("cannot union incompatible bloom sketches")
	}
	out := &BloomSketch{
		seed:         a.seed,
		numHashes:    a.numHashes,
		capacityBits: a.capacityBits,
		bitArray:     make([]uint64, len(a.bitArray)),
	}
	copy(out.bitArray, a.bitArray)
	orInto(out.bitArray, b.bitArray)
	return out, nil
}
