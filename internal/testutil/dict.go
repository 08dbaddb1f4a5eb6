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

package testutil

import (
	"encoding/binary"
	"io"
	"os"
	"testing"

	"github.com/ianlewis/go-dictzip"

	"github.com/shimizu-dev/stardict-go/dict"
)

// MakeDictOptions configures MakeTempDict.
type MakeDictOptions struct {
	// Ext is an optional file extension for the dict file. Defaults to
	// ".dict.dz" if DictZip is true, otherwise ".dict".
	Ext string

	// DictZip indicates that the dict file should be dictzip-compressed.
	DictZip bool

	// SameTypeSequence is the dictionary's sametypesequence, or empty for
	// self-describing records.
	SameTypeSequence []dict.DataType
}

func (o *MakeDictOptions) GetSameTypeSequence() []dict.DataType {
	if o == nil {
		return nil
	}
	return o.SameTypeSequence
}

func (o *MakeDictOptions) GetExt() string {
	if o != nil {
		if o.Ext != "" {
			return o.Ext
		}
		if o.DictZip {
			return ".dict.dz"
		}
	}
	return ".dict"
}

// EncodeRecord returns the on-disk bytes of a single record built from
// fields. When schema is non-empty, tags are omitted (the schema supplies
// them) and the final field's terminator or length prefix is omitted, its
// length left file-implied -- mirroring sametypesequence-encoded records.
// When schema is empty, every field carries its own leading tag and an
// explicit terminator or length prefix, including the last.
func EncodeRecord(fields []dict.Field, schema []dict.DataType) []byte {
	var b []byte
	for i, f := range fields {
		last := i == len(fields)-1
		impliedLast := len(schema) > 0 && last

		if len(schema) == 0 {
			b = append(b, byte(f.Type))
		}

		if f.Type.IsString() {
			b = append(b, f.Data...)
			if !impliedLast {
				b = append(b, 0)
			}
		} else {
			if !impliedLast {
				sz := make([]byte, 4)
				binary.BigEndian.PutUint32(sz, uint32(len(f.Data)))
				b = append(b, sz...)
			}
			b = append(b, f.Data...)
		}
	}
	return b
}

// MakeTempDict writes a sequence of records to a temporary .dict or
// .dict.dz file, in order, and returns the file (seeked to the start) plus
// the offset and size of each record as written -- ready to populate a
// matching .idx fixture.
func MakeTempDict(t *testing.T, records [][]dict.Field, opts *MakeDictOptions) (f *os.File, offsets, sizes []uint32) {
	t.Helper()
	if opts == nil {
		opts = &MakeDictOptions{}
	}

	var all []byte
	for _, fields := range records {
		raw := EncodeRecord(fields, opts.SameTypeSequence)
		offsets = append(offsets, uint32(len(all)))
		sizes = append(sizes, uint32(len(raw)))
		all = append(all, raw...)
	}

	f, err := os.CreateTemp("", "stardict.*"+opts.GetExt())
	if err != nil {
		t.Fatal(err)
	}

	if opts.DictZip {
		z, err := dictzip.NewWriter(f)
		if err != nil {
			t.Fatal(err)
		}
		defer z.Close()

		if _, err := z.Write(all); err != nil {
			t.Fatal(err)
		}
	} else {
		if _, err := f.Write(all); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	return f, offsets, sizes
}
