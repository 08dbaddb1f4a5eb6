// Copyright 2021 Google LLC
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

package idx

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/shimizu-dev/stardict-go/internal/index"
)

// WordListIndex is a fully-loaded, in-memory index, used when a
// dictionary ships a .idx.gz file: the whole file is gzip-decompressed
// and parsed up front, giving O(1) random access and O(log n) lookup.
type WordListIndex struct {
	idx *index.Index[*Word]
}

// NewWordListIndex reads every entry out of r (already decompressed) and
// builds an index over them, ordered by cmp.
func NewWordListIndex(r io.Reader, opts *ScannerOptions, cmp func(string, string) int) (*WordListIndex, error) {
	s, err := NewScanner(r, opts)
	if err != nil {
		return nil, err
	}

	var words []*Word
	for s.Scan() {
		words = append(words, s.Word())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("idx: %w", err)
	}

	return &WordListIndex{idx: index.New(words, cmp)}, nil
}

// OpenWordListIndex opens the .idx.gz file at path and builds a
// WordListIndex from its decompressed contents.
func OpenWordListIndex(path string, opts *ScannerOptions, cmp func(string, string) int) (*WordListIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("idx: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("idx: %w", err)
	}
	defer zr.Close()

	return NewWordListIndex(zr, opts, cmp)
}

// Len returns the number of entries in the index.
func (w *WordListIndex) Len() int {
	return w.idx.Len()
}

// At returns the entry at position i in sorted order.
func (w *WordListIndex) At(i int) *Word {
	return w.idx.At(i)
}

// Lookup performs a binary search for query and returns the positions of
// every matching entry (in sorted order), plus a next-index: the
// insertion point on a miss, or InvalidIndex if query sorts past every
// entry.
func (w *WordListIndex) Lookup(query string) (indices []int, nextIdx int, found bool) {
	lo, hi, found := w.idx.SearchRange(query)
	if found {
		indices = make([]int, 0, hi-lo)
		for i := lo; i < hi; i++ {
			indices = append(indices, i)
		}
		return indices, lo, true
	}

	if lo >= w.idx.Len() {
		return nil, InvalidIndex, false
	}
	return nil, lo, false
}
