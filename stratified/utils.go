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
	"golang.org/x/exp/constraints"
)

// SaturatingSum returns min(a+b, limit). Over non-negative operands bounded
// by the limit it forms a commutative monoid with identity 0, which is what
// makes the merge result independent of pairing order and grouping.
func SaturatingSum[T constraints.Integer](a, b, limit T) T {
	if s := a + b; s < limit {
		return s
	}
	return limit
}
