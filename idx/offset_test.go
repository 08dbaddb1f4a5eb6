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

package idx_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/shimizu-dev/stardict-go/idx"
	"github.com/shimizu-dev/stardict-go/internal/testutil"
)

// buildSortedWords returns 98 headwords in sorted order, with "031"
// duplicated three times at positions 31-33 so the duplicate spans the
// boundary between page 0 (positions 0-31) and page 1 (positions 32-63).
func buildSortedWords() []*idx.Word {
	var words []*idx.Word
	var offset uint64
	add := func(w string) {
		words = append(words, &idx.Word{Word: w, Offset: offset, Size: 10})
		offset += 10
	}
	for i := 0; i < 31; i++ {
		add(fmt.Sprintf("%03d", i))
	}
	add("031")
	add("031")
	add("031")
	for i := 32; i < 96; i++ {
		add(fmt.Sprintf("%03d", i))
	}
	return words
}

func writeIdxFixture(t *testing.T, words []*idx.Word) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.idx")
	if err := os.WriteFile(path, testutil.MakeIndex(words, 32), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOffsetIndex_twoStageSearch(t *testing.T) {
	words := buildSortedWords()
	path := writeIdxFixture(t, words)

	o, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 32})
	if err != nil {
		t.Fatalf("OpenOffsetIndex: %v", err)
	}
	defer o.Close()

	if got, want := o.Len(), len(words); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	indices, _, found, err := o.Lookup("000")
	if err != nil {
		t.Fatalf("Lookup(000): %v", err)
	}
	if !found || len(indices) != 1 || indices[0] != 0 {
		t.Errorf("Lookup(000) = %v, %v, want [0], true", indices, found)
	}

	indices, _, found, err = o.Lookup("095")
	if err != nil {
		t.Fatalf("Lookup(095): %v", err)
	}
	if !found || len(indices) != 1 {
		t.Errorf("Lookup(095) = %v, %v, want single match", indices, found)
	}

	_, _, found, err = o.Lookup("999")
	if err != nil {
		t.Fatalf("Lookup(999): %v", err)
	}
	if found {
		t.Error("Lookup(999) found = true, want false (sorts past every entry)")
	}

	_, nextIdx, found, err := o.Lookup("0295")
	if err != nil {
		t.Fatalf("Lookup(0295): %v", err)
	}
	if found {
		t.Error("Lookup(0295) found = true, want false")
	}
	if nextIdx < 0 {
		t.Error("Lookup(0295) nextIdx should be a valid insertion point, not InvalidIndex")
	}
}

func TestOffsetIndex_duplicateAcrossPageBoundary(t *testing.T) {
	words := buildSortedWords()
	path := writeIdxFixture(t, words)

	o, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 32})
	if err != nil {
		t.Fatalf("OpenOffsetIndex: %v", err)
	}
	defer o.Close()

	indices, _, found, err := o.Lookup("031")
	if err != nil {
		t.Fatalf("Lookup(031): %v", err)
	}
	if !found {
		t.Fatal("Lookup(031) found = false, want true")
	}
	want := []int{31, 32, 33}
	if len(indices) != len(want) {
		t.Fatalf("Lookup(031) = %v, want %v", indices, want)
	}
	for i := range want {
		if indices[i] != want[i] {
			t.Errorf("Lookup(031)[%d] = %d, want %d", i, indices[i], want[i])
		}
	}
}

func TestOffsetIndex_iterationMatchesSortedOrder(t *testing.T) {
	words := buildSortedWords()
	path := writeIdxFixture(t, words)

	o, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 32})
	if err != nil {
		t.Fatalf("OpenOffsetIndex: %v", err)
	}
	defer o.Close()

	for i, w := range words {
		entry, err := o.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if entry.Word != w.Word {
			t.Errorf("At(%d).Word = %q, want %q", i, entry.Word, w.Word)
		}
	}
}

// TestOffsetIndex_oftCacheRoundTrip verifies property 4: opening the same
// .idx file twice produces identical lookup results whether or not a fresh
// .oft cache is present, and that the first open leaves a cache file
// behind for the second to consume.
func TestOffsetIndex_oftCacheRoundTrip(t *testing.T) {
	words := buildSortedWords()
	path := writeIdxFixture(t, words)

	o1, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 32})
	if err != nil {
		t.Fatalf("first OpenOffsetIndex: %v", err)
	}
	defer o1.Close()

	if _, err := os.Stat(path + ".oft"); err != nil {
		t.Fatalf(".oft cache not written: %v", err)
	}

	o2, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 32})
	if err != nil {
		t.Fatalf("second OpenOffsetIndex: %v", err)
	}
	defer o2.Close()

	for _, word := range []string{"000", "031", "095"} {
		i1, _, f1, err := o1.Lookup(word)
		if err != nil {
			t.Fatalf("o1.Lookup(%q): %v", word, err)
		}
		i2, _, f2, err := o2.Lookup(word)
		if err != nil {
			t.Fatalf("o2.Lookup(%q): %v", word, err)
		}
		if f1 != f2 || len(i1) != len(i2) {
			t.Errorf("Lookup(%q) diverged between cold and warm cache: %v/%v vs %v/%v", word, i1, f1, i2, f2)
			continue
		}
		for i := range i1 {
			if i1[i] != i2[i] {
				t.Errorf("Lookup(%q)[%d] diverged: %d vs %d", word, i, i1[i], i2[i])
			}
		}
	}
}

func TestOffsetIndex_64bitOffsets(t *testing.T) {
	words := []*idx.Word{
		{Word: "000", Offset: 1 << 34, Size: 5},
		{Word: "001", Offset: (1 << 34) + 5, Size: 5},
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "test.idx")
	if err := os.WriteFile(path, testutil.MakeIndex(words, 64), 0o600); err != nil {
		t.Fatal(err)
	}

	o, err := idx.OpenOffsetIndex(path, len(words), asciiCompare, &idx.OffsetIndexOptions{OffsetBits: 64})
	if err != nil {
		t.Fatalf("OpenOffsetIndex: %v", err)
	}
	defer o.Close()

	e, err := o.At(0)
	if err != nil {
		t.Fatalf("At(0): %v", err)
	}
	if got, want := e.Offset, uint64(1<<34); got != want {
		t.Errorf("Offset = %d, want %d", got, want)
	}
}
