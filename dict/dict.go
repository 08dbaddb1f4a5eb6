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

// Package dict implements reading .dict and .dict.dz record data and
// decoding variable-schema dictionary records.
package dict

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ianlewis/go-dictzip"
)

// Data is a random-access reader over a dictionary's record data, backed
// either by a plain .dict file or a dictzip-compressed .dict.dz stream.
type Data struct {
	r      io.ReaderAt
	closer io.Closer
}

// Open opens the dictionary data file at path, which must name either a
// .dict or a .dict.dz file. A .dict.dz file is opened as a dictzip
// random-access stream so that individual records can be inflated without
// decompressing the whole file; a plain .dict file is read directly.
func Open(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: %w", err)
	}

	if strings.HasSuffix(path, ".dz") {
		zr, err := dictzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("dict: opening dictzip stream: %w", err)
		}
		return &Data{r: zr, closer: f}, nil
	}

	return &Data{r: f, closer: f}, nil
}

// New wraps an already-open reader, taking ownership of closer (which may
// be nil if there is nothing to close). Used by tests and by callers that
// manage file opening themselves.
func New(r io.ReaderAt, closer io.Closer) *Data {
	return &Data{r: r, closer: closer}
}

// ReadAt reads len(p) bytes of raw record data starting at off.
func (d *Data) ReadAt(p []byte, off int64) (int, error) {
	return d.r.ReadAt(p, off)
}

// Record reads the idxitem_size bytes for one headword at (offset, size)
// and decodes them against schema. offset is 64-bit to accommodate
// dictionaries whose .dict stream exceeds 4GB (idxoffsetbits=64); the
// original format's 32-bit offset is the common case.
func (d *Data) Record(offset uint64, size uint32, schema []DataType) (*Record, error) {
	raw := make([]byte, size)
	if _, err := d.r.ReadAt(raw, int64(offset)); err != nil {
		return nil, fmt.Errorf("dict: reading record at offset %d: %w", offset, err)
	}
	return Decode(raw, schema)
}

// Search reads the idxitem_size bytes for one headword and reports whether
// every one of needles appears in some string field.
func (d *Data) Search(offset uint64, size uint32, schema []DataType, needles [][]byte) (bool, error) {
	raw := make([]byte, size)
	if _, err := d.r.ReadAt(raw, int64(offset)); err != nil {
		return false, fmt.Errorf("dict: reading record at offset %d: %w", offset, err)
	}
	return Search(raw, schema, needles)
}

// Close releases the underlying file handle, if any.
func (d *Data) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
