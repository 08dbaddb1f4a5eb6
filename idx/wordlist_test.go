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
	"bytes"
	"strings"
	"testing"

	"github.com/shimizu-dev/stardict-go/idx"
	"github.com/shimizu-dev/stardict-go/internal/testutil"
)

func asciiCompare(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(a, b)
}

func TestWordListIndex_lookup(t *testing.T) {
	words := []*idx.Word{
		{Word: "Apple", Offset: 0, Size: 10},
		{Word: "apple", Offset: 10, Size: 10},
		{Word: "banana", Offset: 20, Size: 10},
		{Word: "cherry", Offset: 30, Size: 10},
	}
	raw := testutil.MakeIndex(words, 32)

	w, err := idx.NewWordListIndex(bytes.NewReader(raw), nil, asciiCompare)
	if err != nil {
		t.Fatalf("NewWordListIndex: %v", err)
	}

	if got, want := w.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	indices, _, found := w.Lookup("apple")
	if !found {
		t.Fatal("Lookup(apple) found = false, want true")
	}
	if len(indices) != 2 {
		t.Fatalf("Lookup(apple) returned %d indices, want 2 (case-insensitive duplicates)", len(indices))
	}

	_, next, found := w.Lookup("avocado")
	if found {
		t.Fatal("Lookup(avocado) found = true, want false")
	}
	if next < 0 || next > w.Len() {
		t.Fatalf("Lookup(avocado) next = %d, out of range", next)
	}

	_, next, found = w.Lookup("zebra")
	if found {
		t.Fatal("Lookup(zebra) found = true, want false")
	}
	if next != idx.InvalidIndex {
		t.Errorf("Lookup(zebra) next = %d, want InvalidIndex", next)
	}
}

func TestWordListIndex_sortedOrder(t *testing.T) {
	words := []*idx.Word{
		{Word: "zebra", Offset: 0, Size: 1},
		{Word: "apple", Offset: 1, Size: 1},
		{Word: "mango", Offset: 2, Size: 1},
	}
	raw := testutil.MakeIndex(words, 32)

	w, err := idx.NewWordListIndex(bytes.NewReader(raw), nil, asciiCompare)
	if err != nil {
		t.Fatalf("NewWordListIndex: %v", err)
	}

	var got []string
	for i := 0; i < w.Len(); i++ {
		got = append(got, w.At(i).Word)
	}
	want := []string{"apple", "mango", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("At(%d) = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWordListIndex_64bitOffsets(t *testing.T) {
	words := []*idx.Word{
		{Word: "huge", Offset: 1 << 33, Size: 10},
	}
	raw := testutil.MakeIndex(words, 64)

	w, err := idx.NewWordListIndex(bytes.NewReader(raw), &idx.ScannerOptions{OffsetBits: 64}, asciiCompare)
	if err != nil {
		t.Fatalf("NewWordListIndex: %v", err)
	}

	indices, _, found := w.Lookup("huge")
	if !found || len(indices) != 1 {
		t.Fatalf("Lookup(huge) = %v, %v, want one index", indices, found)
	}
	if got, want := w.At(indices[0]).Offset, uint64(1<<33); got != want {
		t.Errorf("Offset = %d, want %d", got, want)
	}
}
