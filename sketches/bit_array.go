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

import "math/bits"

// getBit returns the value of the bit at the specified index.
func getBit(array []uint64, index uint64) bool {
	longIdx := index >> 6  // divide by 64
	bitIdx := index & 0x3F // mod 64
	return (array[longIdx] & (1 << bitIdx)) != 0
}

// setBit sets the bit at the specified index to 1.
func setBit(array []uint64, index uint64) {
	longIdx := index >> 6
	bitIdx := index & 0x3F
	array[longIdx] |= (1 << bitIdx)
}

// countBitsSet counts the number of bits set to 1 in the array.
func countBitsSet(array []uint64) uint64 {
	count := uint64(0)
	for _, val := range array {
		count += uint64(bits.OnesCount64(val))
	}
	return count
}

// orInto performs a bitwise OR of source into target.
func orInto(target, source []uint64) {
	for i := range target {
		target[i] |= source[i]
	}
}
