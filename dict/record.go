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

package dict

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedRecord is returned when a record's bytes end before its
// schema (or self-describing tags) say they should.
var ErrTruncatedRecord = errors.New("dict: truncated record")

// Field is one decoded field of a record.
type Field struct {
	Type DataType
	Data []byte
}

// Record is a decoded dictionary record, exposing both the individual
// fields and the self-describing, length-framed byte form used for
// caching and transport.
type Record struct {
	// Framed is a u32 total-length (itself included) followed by the
	// fields, each reconstructed with an explicit leading type tag and
	// either a trailing NUL (string fields) or a leading u32 length
	// prefix (binary fields) -- including the final field, whose length
	// is file-implied on disk but made explicit here.
	Framed []byte
	Fields []Field
}

// Decode parses raw, the exact idxitem_size bytes of one dictionary
// record, against schema (the dictionary's sametypesequence; empty means
// the record is self-describing, with each field preceded on disk by its
// own type tag) and reconstructs a framed, self-describing Record.
func Decode(raw []byte, schema []DataType) (*Record, error) {
	var fields []Field

	if len(schema) > 0 {
		b := raw
		for i, t := range schema {
			last := i == len(schema)-1
			data, rest, err := readField(b, t, last)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Type: t, Data: data})
			b = rest
		}
	} else {
		b := raw
		for len(b) > 0 {
			t := DataType(b[0])
			data, rest, err := readField(b[1:], t, false)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Type: t, Data: data})
			b = rest
		}
	}

	return &Record{
		Framed: frame(fields),
		Fields: fields,
	}, nil
}

// readField reads one field of type t from the front of b. impliedLast
// means b holds exactly this field's content with no on-disk terminator
// or length prefix, because its length is implied by the end of the
// record.
func readField(b []byte, t DataType, impliedLast bool) (data, rest []byte, err error) {
	if t.IsString() {
		if impliedLast {
			return b, nil, nil
		}
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: missing NUL terminator for field %q", ErrTruncatedRecord, byte(t))
		}
		return b[:i], b[i+1:], nil
	}

	if impliedLast {
		return b, nil, nil
	}
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: truncated length prefix for field %q", ErrTruncatedRecord, byte(t))
	}
	size := binary.BigEndian.Uint32(b)
	if uint32(len(b)-4) < size {
		return nil, nil, fmt.Errorf("%w: truncated field %q", ErrTruncatedRecord, byte(t))
	}
	return b[4 : 4+size], b[4+size:], nil
}

func frame(fields []Field) []byte {
	var body bytes.Buffer
	for _, f := range fields {
		body.WriteByte(byte(f.Type))
		if f.Type.IsString() {
			body.Write(f.Data)
			body.WriteByte(0)
		} else {
			var sz [4]byte
			binary.BigEndian.PutUint32(sz[:], uint32(len(f.Data)))
			body.Write(sz[:])
			body.Write(f.Data)
		}
	}

	framed := make([]byte, 4+body.Len())
	binary.BigEndian.PutUint32(framed, uint32(len(framed)))
	copy(framed[4:], body.Bytes())
	return framed
}

// Search reports whether raw contains every one of needles as a substring
// of some string-typed field. Binary fields are never searched. The record
// is considered a match as soon as every needle has been found, not
// necessarily within the same field.
func Search(raw []byte, schema []DataType, needles [][]byte) (bool, error) {
	if len(needles) == 0 {
		return true, nil
	}

	nm, err := newNeedleMatcher(needles)
	if err != nil {
		return false, err
	}

	visit := func(t DataType, data []byte) bool {
		if t.IsString() {
			nm.observe(data)
		}
		return nm.complete()
	}

	if len(schema) > 0 {
		b := raw
		for i, t := range schema {
			last := i == len(schema)-1
			data, rest, err := readField(b, t, last)
			if err != nil {
				return false, err
			}
			if visit(t, data) {
				return true, nil
			}
			b = rest
		}
	} else {
		b := raw
		for len(b) > 0 {
			t := DataType(b[0])
			data, rest, err := readField(b[1:], t, false)
			if err != nil {
				return false, err
			}
			if visit(t, data) {
				return true, nil
			}
			b = rest
		}
	}

	return nm.complete(), nil
}
