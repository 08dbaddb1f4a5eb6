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

// Package syn implements reading .syn synonym files: a sorted list of
// alternate headwords, each pointing at a position in the dictionary's
// main index.
package syn

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/transform"

	"github.com/shimizu-dev/stardict-go/internal/index"
	"github.com/shimizu-dev/stardict-go/internal/mapfile"
)

// Word is a .syn file entry: a synonym headword and the position it
// refers to in the dictionary's main index.
type Word struct {
	// Word is the synonym headword.
	Word string

	// OriginalWordIndex is the referenced position in the main index.
	OriginalWordIndex uint32
}

type foldedWord struct {
	folded string
	word   *Word
}

func (w *foldedWord) String() string {
	return w.folded
}

// Options are options for a Syn.
type Options struct {
	// Folder returns a transform.Transformer applied to every synonym (and
	// every query) before ordering and search. This is layered underneath
	// the format's own comparator, for dictionaries that additionally want
	// e.g. whitespace folding. The zero value performs no extra folding.
	Folder func() transform.Transformer
}

// DefaultOptions performs no extra folding beyond the comparator's own.
var DefaultOptions = &Options{
	Folder: func() transform.Transformer {
		return transform.Nop
	},
}

// Syn is the synonym index: a sorted list of synonym headwords, each
// resolving to a position in the dictionary's main index.
type Syn struct {
	index           *index.Index[*foldedWord]
	foldTransformer func() transform.Transformer
}

// New reads every entry out of r and builds a Syn ordered by cmp (the
// format's comparator; see the root package's Compare).
func New(r io.Reader, cmp func(string, string) int, options *Options) (*Syn, error) {
	if options == nil {
		options = DefaultOptions
	}

	syn := Syn{foldTransformer: DefaultOptions.Folder}
	if options.Folder != nil {
		syn.foldTransformer = options.Folder
	}

	s, err := NewScanner(r)
	if err != nil {
		return nil, fmt.Errorf("syn: creating scanner: %w", err)
	}

	var words []*foldedWord
	for s.Scan() {
		word := s.Word()
		folded, _, err := transform.String(syn.foldTransformer(), word.Word)
		if err != nil {
			return nil, fmt.Errorf("syn: folding word %q: %w", word.Word, err)
		}
		words = append(words, &foldedWord{folded: folded, word: word})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("syn: scanning: %w", err)
	}

	syn.index = index.New(words, cmp)
	return &syn, nil
}

// OpenFromIfoPath opens the .syn file sitting alongside the dictionary's
// .ifo path and builds a Syn from it. The file is preferentially
// memory-mapped; mapping failures fall back to ordinary file reads.
func OpenFromIfoPath(ifoPath string, cmp func(string, string) int, options *Options) (*Syn, error) {
	path, err := findSynPath(ifoPath)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("syn: %w", err)
	}

	var r io.Reader
	var closer io.Closer
	if mf, mErr := mapfile.Open(path, fi.Size()); mErr == nil {
		r, closer = bytes.NewReader(mf.Bytes()), mf
	} else {
		f, fErr := os.Open(path)
		if fErr != nil {
			return nil, fmt.Errorf("syn: %w", fErr)
		}
		r, closer = f, f
	}
	defer closer.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gz" || ext == ".dz" {
		zr, zErr := gzip.NewReader(r)
		if zErr != nil {
			return nil, fmt.Errorf("syn: %w", zErr)
		}
		r = zr
	}

	return New(r, cmp, options)
}

var synExts = []string{
	".syn", ".syn.gz", ".syn.GZ", ".syn.dz", ".syn.DZ",
	".SYN", ".SYN.gz", ".SYN.GZ", ".SYN.dz", ".SYN.DZ",
}

// findSynPath tries every recognized .syn extension next to ifoPath and
// returns the first one that exists.
func findSynPath(ifoPath string) (string, error) {
	baseName := strings.TrimSuffix(ifoPath, filepath.Ext(ifoPath))

	for _, ext := range synExts {
		path := baseName + ext
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("syn: %w", err)
		}
	}
	return "", fmt.Errorf("syn: %w", os.ErrNotExist)
}

// Len returns the number of synonym entries.
func (syn *Syn) Len() int {
	return syn.index.Len()
}

// At returns the entry at position i in sorted order.
func (syn *Syn) At(i int) *Word {
	return syn.index.At(i).word
}

// Search performs a lookup by comparator and returns every synonym entry
// equal to query, each resolving to a position in the main index.
func (syn *Syn) Search(query string) ([]*Word, error) {
	foldedQuery, _, err := transform.String(syn.foldTransformer(), query)
	if err != nil {
		return nil, fmt.Errorf("syn: folding query %q: %w", query, err)
	}

	result := syn.index.Search(foldedQuery)

	words := make([]*Word, 0, len(result))
	for _, w := range result {
		words = append(words, w.word)
	}
	return words, nil
}
