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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBloomSketchInvalidParams(t *testing.T) {
	_, err := NewBloomSketch(0, 3, 1)
	assert.Error(t, err)
	_, err = NewBloomSketch(1024, 0, 1)
	assert.Error(t, err)
}

func TestBloomSketchNoFalseNegatives(t *testing.T) {
	s, err := NewBloomSketch(1<<14, 4, 7)
	assert.NoError(t, err)

	ids := make([]uint64, 0, 500)
	for i := uint64(0); i < 500; i++ {
		ids = append(ids, i*131+7)
	}
	s.AddMany(ids)

	for _, id := range ids {
		assert.True(t, s.Contains(id))
	}
	assert.InDelta(t, 500, s.Estimate(), 50)
}

func TestBloomSketchFalsePositiveRate(t *testing.T) {
	s, err := NewBloomSketch(1<<16, 5, 3)
	assert.NoError(t, err)
	for i := uint64(0); i < 1000; i++ {
		s.Add(i)
	}

	falsePositives := 0
	for i := uint64(1_000_000); i < 1_010_000; i++ {
		if s.Contains(i) {
			falsePositives++
		}
	}
	// 1000 items in 2^16 bits with 5 hashes gives a rate well under 1%.
	assert.Less(t, falsePositives, 100)
}

func TestBloomOperationUnion(t *testing.T) {
	factory := NewBloomSketchFactory(1<<12, 3)
	a := factory(11)
	b := factory(11)
	a.Add(1)
	b.Add(2)

	out, err := BloomOperation{}.Union(a, b)
	assert.NoError(t, err)
	assert.True(t, out.Contains(1))
	assert.True(t, out.Contains(2))
	assert.False(t, b.Contains(1))
}

func TestBloomOperationIncompatible(t *testing.T) {
	a := NewBloomSketchFactory(1<<12, 3)(1)
	b := NewBloomSketchFactory(1<<12, 3)(2)
	_, err := BloomOperation{}.Union(a, b)
	assert.Error(t, err)

	c := NewBloomSketchFactory(1<<13, 3)(1)
	_, err = BloomOperation{}.Union(a, c)
	assert.Error(t, err)
}
