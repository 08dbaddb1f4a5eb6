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

package dict_test

import (
	"os"
	"testing"

	"github.com/shimizu-dev/stardict-go/dict"
	"github.com/shimizu-dev/stardict-go/internal/testutil"
)

func testRecords() [][]dict.Field {
	return [][]dict.Field{
		{{Type: dict.UTFTextType, Data: []byte("apple means a fruit")}},
		{{Type: dict.UTFTextType, Data: []byte("banana is yellow")}},
		{{Type: dict.UTFTextType, Data: []byte("cherry is red")}},
	}
}

func TestData_plain(t *testing.T) {
	schema := []dict.DataType{dict.UTFTextType}
	f, offsets, sizes := testutil.MakeTempDict(t, testRecords(), &testutil.MakeDictOptions{SameTypeSequence: schema})
	defer os.Remove(f.Name())
	defer f.Close()

	d := dict.New(f, nil)
	defer d.Close()

	rec, err := d.Record(uint64(offsets[1]), sizes[1], schema)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, want := string(rec.Fields[0].Data), "banana is yellow"; got != want {
		t.Errorf("Fields[0].Data = %q, want %q", got, want)
	}

	match, err := d.Search(uint64(offsets[1]), sizes[1], schema, [][]byte{[]byte("yellow")})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !match {
		t.Error("Search() = false, want true")
	}

	match, err = d.Search(uint64(offsets[0]), sizes[0], schema, [][]byte{[]byte("yellow")})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if match {
		t.Error("Search() = true, want false")
	}
}

func TestData_dictzip(t *testing.T) {
	schema := []dict.DataType{dict.UTFTextType}
	f, offsets, sizes := testutil.MakeTempDict(t, testRecords(), &testutil.MakeDictOptions{
		SameTypeSequence: schema,
		DictZip:          true,
	})
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	d, err := dict.Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	rec, err := d.Record(uint64(offsets[2]), sizes[2], schema)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, want := string(rec.Fields[0].Data), "cherry is red"; got != want {
		t.Errorf("Fields[0].Data = %q, want %q", got, want)
	}
}

func TestOpen_plainExtension(t *testing.T) {
	schema := []dict.DataType{dict.UTFTextType}
	f, offsets, sizes := testutil.MakeTempDict(t, testRecords(), &testutil.MakeDictOptions{SameTypeSequence: schema})
	name := f.Name()
	f.Close()
	defer os.Remove(name)

	d, err := dict.Open(name)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	rec, err := d.Record(uint64(offsets[0]), sizes[0], schema)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got, want := string(rec.Fields[0].Data), "apple means a fruit"; got != want {
		t.Errorf("Fields[0].Data = %q, want %q", got, want)
	}
}
