// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stardict

import "github.com/shimizu-dev/stardict-go/dict"

// recordCacheSize is the number of decoded records a Dictionary keeps
// around at once. Replacement is FIFO by a rotating write pointer, not
// LRU; callers should not depend on any stronger replacement semantics.
const recordCacheSize = 2

// recordCache is a small, fixed-size cache of decoded dictionary records,
// keyed by their byte offset into the .dict stream.
type recordCache struct {
	slots [recordCacheSize]recordCacheSlot
	next  int
}

type recordCacheSlot struct {
	valid  bool
	offset uint64
	record *dict.Record
}

// get returns the cached record for offset, if present.
func (c *recordCache) get(offset uint64) (*dict.Record, bool) {
	for i := range c.slots {
		if c.slots[i].valid && c.slots[i].offset == offset {
			return c.slots[i].record, true
		}
	}
	return nil, false
}

// put stores record under offset, evicting whichever slot the rotating
// pointer currently lands on.
func (c *recordCache) put(offset uint64, record *dict.Record) {
	c.slots[c.next] = recordCacheSlot{valid: true, offset: offset, record: record}
	c.next = (c.next + 1) % recordCacheSize
}
