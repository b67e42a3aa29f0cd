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
	"unsafe"

	"github.com/twmb/murmur3"
)

// DefaultHashSeed is the murmur3 seed used by NewIDHasher when callers have
// no seed of their own.
const DefaultHashSeed = 9001

// IDHasher maps external identifiers (user ids, emails, cookies) into the
// uint64 id space shared by all sketch types. All data sources feeding
// sketches that will later be merged must hash with the same seed.
type IDHasher struct {
	seed uint64
}

// NewIDHasher creates a hasher with the given murmur3 seed.
func NewIDHasher(seed uint64) IDHasher {
	return IDHasher{seed: seed}
}

// HashString hashes a string identifier.
func (h IDHasher) HashString(item string) uint64 {
	datum := unsafe.Slice(unsafe.StringData(item), len(item))
	return murmur3.SeedSum64(h.seed, datum[:])
}

// HashUint64 hashes a numeric identifier.
func (h IDHasher) HashUint64(item uint64) uint64 {
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], item)
	return murmur3.SeedSum64(h.seed, scratch[:])
}
