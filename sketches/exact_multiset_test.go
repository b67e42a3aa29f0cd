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

func TestExactMultiSetCounting(t *testing.T) {
	s := NewExactMultiSet()
	assert.Equal(t, 0, s.NumRetained())
	assert.False(t, s.Contains(1))

	s.Add(1)
	s.Add(1)
	s.AddMany([]uint64{1, 2, 2, 3})

	assert.True(t, s.Contains(1))
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(4))
	assert.Equal(t, 3, s.NumRetained())
	assert.Equal(t, uint64(3), s.Count(1))
	assert.Equal(t, uint64(2), s.Count(2))
	assert.Equal(t, uint64(1), s.Count(3))
	assert.Equal(t, uint64(0), s.Count(4))
}

func TestExactMultiSetMaterializeIsCopy(t *testing.T) {
	s := NewExactMultiSet()
	s.AddMany([]uint64{7, 7, 8})

	view := s.Materialize()
	assert.Equal(t, map[uint64]uint64{7: 2, 8: 1}, view)

	view[9] = 1
	assert.False(t, s.Contains(9))
}

func TestExactSetOperationUnion(t *testing.T) {
	a := NewExactMultiSet()
	a.AddMany([]uint64{1, 1, 2})
	b := NewExactMultiSet()
	b.AddMany([]uint64{2, 3})

	out, err := ExactSetOperation{}.Union(a, b)
	assert.NoError(t, err)
	assert.Equal(t, map[uint64]uint64{1: 1, 2: 1, 3: 1}, out.Materialize())

	// Inputs are untouched.
	assert.Equal(t, uint64(2), a.Count(1))
	assert.Equal(t, 2, b.NumRetained())
}

func TestExactMultiSetFactoryIgnoresSeed(t *testing.T) {
	factory := NewExactMultiSetFactory()
	s1 := factory(1)
	s2 := factory(42)
	s1.Add(10)
	assert.True(t, s1.Contains(10))
	assert.False(t, s2.Contains(10))
}
