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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidIdxOffset indicates that OffsetBits is not a supported value.
var ErrInvalidIdxOffset = errors.New("idx: invalid idxoffsetbits")

// Scanner scans a sequence of .idx entries out of a stream, in file order.
// It is the low-level primitive beneath both WordListIndex (which consumes
// every entry up front) and OffsetIndex's page loader (which scans just
// the bytes of a single page).
type Scanner struct {
	s             *bufio.Scanner
	idxoffsetbits int
}

// ScannerOptions are options for scanning an .idx file.
type ScannerOptions struct {
	// OffsetBits is the width of the offset field: 32 for the original
	// format, 64 for dictionaries whose .dict data exceeds 4GB.
	OffsetBits int
}

// DefaultScannerOptions is the default options for a Scanner.
var DefaultScannerOptions = &ScannerOptions{OffsetBits: 32}

// NewScanner returns a new Scanner reading entries from r until EOF.
func NewScanner(r io.Reader, options *ScannerOptions) (*Scanner, error) {
	if options == nil {
		options = DefaultScannerOptions
	}
	if options.OffsetBits != 32 && options.OffsetBits != 64 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdxOffset, options.OffsetBits)
	}

	s := &Scanner{
		s:             bufio.NewScanner(bufio.NewReader(r)),
		idxoffsetbits: options.OffsetBits,
	}
	s.s.Buffer(make([]byte, 0, 4096), 256+12)
	s.s.Split(s.splitIndex)
	return s, nil
}

// Scan advances to the next entry. It returns false at EOF or on error.
func (s *Scanner) Scan() bool {
	return s.s.Scan()
}

// Err returns the first non-EOF error encountered while scanning.
func (s *Scanner) Err() error {
	//nolint:wrapcheck // the scanner's own sentinel errors are part of the API
	return s.s.Err()
}

// Word returns the entry at the current scan position.
func (s *Scanner) Word() *Word {
	var e Word
	b := s.s.Bytes()
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return &e
	}

	e.Word = string(b[:i])
	rest := b[i+1:]
	if s.idxoffsetbits == 64 {
		e.Offset = binary.BigEndian.Uint64(rest)
	} else {
		e.Offset = uint64(binary.BigEndian.Uint32(rest))
	}
	e.Size = binary.BigEndian.Uint32(rest[s.idxoffsetbits/8:])

	return &e
}

// splitIndex is a bufio.SplitFunc that delimits one NUL-terminated key
// plus its fixed-width offset and size fields.
func (s *Scanner) splitIndex(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		tokenSize := i + 1 + s.idxoffsetbits/8 + 4
		if len(data) >= tokenSize {
			return tokenSize, data[:tokenSize], nil
		}
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
