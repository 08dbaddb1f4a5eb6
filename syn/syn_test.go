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

package syn_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shimizu-dev/stardict-go/internal/testutil"
	"github.com/shimizu-dev/stardict-go/syn"
)

func asciiCompare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(a, b)
}

func TestSyn_search(t *testing.T) {
	entries := []testutil.SynEntry{
		{Word: "Colour", OriginalWordIndex: 12},
		{Word: "colour", OriginalWordIndex: 12},
		{Word: "hue", OriginalWordIndex: 12},
		{Word: "tint", OriginalWordIndex: 45},
	}
	raw := testutil.MakeSyn(entries)

	s, err := syn.New(bytes.NewReader(raw), asciiCompare, nil)
	if err != nil {
		t.Fatalf("syn.New: %v", err)
	}

	if got, want := s.Len(), len(entries); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	words, err := s.Search("colour")
	if err != nil {
		t.Fatalf("Search(colour): %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("Search(colour) = %d results, want 2 (case-insensitive duplicates)", len(words))
	}
	for _, w := range words {
		if w.OriginalWordIndex != 12 {
			t.Errorf("OriginalWordIndex = %d, want 12 (main-index position, not .syn position)", w.OriginalWordIndex)
		}
	}

	words, err = s.Search("tint")
	if err != nil {
		t.Fatalf("Search(tint): %v", err)
	}
	if len(words) != 1 || words[0].OriginalWordIndex != 45 {
		t.Fatalf("Search(tint) = %v, want single entry resolving to index 45", words)
	}

	words, err = s.Search("missing")
	if err != nil {
		t.Fatalf("Search(missing): %v", err)
	}
	if len(words) != 0 {
		t.Errorf("Search(missing) = %v, want no results", words)
	}
}

func TestSyn_sortedOrder(t *testing.T) {
	entries := []testutil.SynEntry{
		{Word: "zebra", OriginalWordIndex: 1},
		{Word: "apple", OriginalWordIndex: 2},
		{Word: "mango", OriginalWordIndex: 3},
	}
	raw := testutil.MakeSyn(entries)

	s, err := syn.New(bytes.NewReader(raw), asciiCompare, nil)
	if err != nil {
		t.Fatalf("syn.New: %v", err)
	}

	want := []string{"apple", "mango", "zebra"}
	for i, w := range want {
		if got := s.At(i).Word; got != w {
			t.Errorf("At(%d).Word = %q, want %q", i, got, w)
		}
	}
}

func TestSyn_indicesResolveToMainIndex(t *testing.T) {
	// The .syn file's own sorted position (by synonym headword) has no
	// relation to OriginalWordIndex, which always points into the
	// dictionary's main index.
	entries := []testutil.SynEntry{
		{Word: "zz-synonym", OriginalWordIndex: 0},
		{Word: "aa-synonym", OriginalWordIndex: 99},
	}
	raw := testutil.MakeSyn(entries)

	s, err := syn.New(bytes.NewReader(raw), asciiCompare, nil)
	if err != nil {
		t.Fatalf("syn.New: %v", err)
	}

	// After sorting, "aa-synonym" comes first in .syn order but still
	// resolves to main-index position 99, not 0.
	if got, want := s.At(0).Word, "aa-synonym"; got != want {
		t.Fatalf("At(0).Word = %q, want %q", got, want)
	}
	if got, want := s.At(0).OriginalWordIndex, uint32(99); got != want {
		t.Errorf("At(0).OriginalWordIndex = %d, want %d", got, want)
	}
}
