// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package index implements a generic in-memory sorted index with
// duplicate-aware binary search, shared by idx.WordListIndex and syn.Syn.
package index

import (
	"fmt"
	"slices"
	"sort"
)

// Index is a generic array sorted by cmp, searchable in O(log n).
type Index[V fmt.Stringer] struct {
	entries []V
	cmp     func(string, string) int
}

// New creates an index from entries, which are sorted with cmp as a side
// effect of construction (the caller's slice is copied first, not mutated).
// cmp(a, b) must return a negative number when a < b, a positive number when
// a > b, and zero when a == b, the same three-way convention used
// throughout this module's comparators.
func New[V fmt.Stringer](entries []V, cmp func(string, string) int) *Index[V] {
	sorted := make([]V, len(entries))
	copy(sorted, entries)
	slices.SortStableFunc(sorted, func(a, b V) int {
		return cmp(a.String(), b.String())
	})

	return &Index[V]{
		entries: sorted,
		cmp:     cmp,
	}
}

// Len returns the number of entries in the index.
func (idx *Index[V]) Len() int {
	return len(idx.entries)
}

// At returns the entry at position i in sorted order.
func (idx *Index[V]) At(i int) V {
	return idx.entries[i]
}

// Search performs a binary search over the index and returns every entry
// equal to query under cmp, in sorted order. A nil result means no entry
// matched.
func (idx *Index[V]) Search(query string) []V {
	lo, hi, found := idx.SearchRange(query)
	if !found {
		return nil
	}
	return idx.entries[lo:hi]
}

// SearchRange performs a binary search over the index and returns the
// half-open range [lo, hi) of positions equal to query under cmp. found
// reports whether any entry matched; when it is false, lo (== hi) is the
// position query would be inserted at to keep the index sorted -- len(idx)
// if query is greater than every entry.
func (idx *Index[V]) SearchRange(query string) (lo, hi int, found bool) {
	i, ok := sort.Find(len(idx.entries), func(i int) int {
		return idx.cmp(query, idx.entries[i].String())
	})
	if !ok {
		return i, i, false
	}

	j := i
	for ; j < len(idx.entries) && idx.cmp(query, idx.entries[j].String()) == 0; j++ {
	}
	return i, j, true
}
