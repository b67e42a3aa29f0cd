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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaturatingSum(t *testing.T) {
	assert.Equal(t, 3, SaturatingSum(1, 2, 5))
	assert.Equal(t, 5, SaturatingSum(3, 4, 5))
	assert.Equal(t, 5, SaturatingSum(5, 5, 5))
	assert.Equal(t, 0, SaturatingSum(0, 0, 5))
	assert.Equal(t, int64(7), SaturatingSum[int64](6, 6, 7))
}

// The saturating sum is a commutative monoid: capping intermediate results
// never changes the outcome, so merge results do not depend on pairing order
// or grouping.
func TestSaturatingSumMonoid(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for i := 0; i < 1000; i++ {
		m := rng.Intn(10) + 1
		a := rng.Intn(2 * m)
		b := rng.Intn(2 * m)
		c := rng.Intn(2 * m)

		capA := SaturatingSum(a, 0, m)
		capB := SaturatingSum(b, 0, m)

		// cap(cap(a)+cap(b)) == cap(a+b)
		assert.Equal(t, SaturatingSum(a, b, m), SaturatingSum(capA, capB, m))

		// Identity and commutativity.
		assert.Equal(t, capA, SaturatingSum(capA, 0, m))
		assert.Equal(t, SaturatingSum(a, b, m), SaturatingSum(b, a, m))

		// Associativity of the capped fold.
		left := SaturatingSum(SaturatingSum(a, b, m), c, m)
		right := SaturatingSum(a, SaturatingSum(b, c, m), m)
		assert.Equal(t, left, right)
	}
}
