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

package stardict

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/transform"

	"github.com/shimizu-dev/stardict-go/dict"
	"github.com/shimizu-dev/stardict-go/idx"
	"github.com/shimizu-dev/stardict-go/internal/folding"
	"github.com/shimizu-dev/stardict-go/internal/globmatch"
	"github.com/shimizu-dev/stardict-go/ifo"
	"github.com/shimizu-dev/stardict-go/syn"
)

// synOptions folds whitespace in both synonym headwords and lookup
// queries before the format's comparator ever sees them, so that e.g. "ice
// cream" and "ice  cream" resolve to the same synonym entry.
var synOptions = &syn.Options{
	Folder: func() transform.Transformer { return &folding.WhitespaceFolder{} },
}

// headwordIndex is the shape both idx.WordListIndex and idx.OffsetIndex
// present to a Dictionary, hiding the fact that only the latter can fail
// mid-lookup (it reads pages on demand).
type headwordIndex interface {
	Len() int
	Lookup(query string) (indices []int, nextIdx int, found bool, err error)
	At(i int) (word string, offset uint64, size uint32, err error)
}

type wordListAdapter struct {
	*idx.WordListIndex
}

func (w *wordListAdapter) Lookup(query string) ([]int, int, bool, error) {
	indices, nextIdx, found := w.WordListIndex.Lookup(query)
	return indices, nextIdx, found, nil
}

func (w *wordListAdapter) At(i int) (string, uint64, uint32, error) {
	e := w.WordListIndex.At(i)
	return e.Word, e.Offset, e.Size, nil
}

type offsetIndexAdapter struct {
	*idx.OffsetIndex
}

func (o *offsetIndexAdapter) Lookup(query string) ([]int, int, bool, error) {
	return o.OffsetIndex.Lookup(query)
}

func (o *offsetIndexAdapter) At(i int) (string, uint64, uint32, error) {
	e, err := o.OffsetIndex.At(i)
	if err != nil {
		return "", 0, 0, err
	}
	return e.Word, e.Offset, e.Size, nil
}

// Dictionary is one loaded StarDict dictionary: its metadata, headword
// index, optional synonym file, record data, and a small record cache.
type Dictionary struct {
	info   *ifo.Ifo
	schema []dict.DataType
	index  headwordIndex
	syn    *syn.Syn
	data   *dict.Data
	cache  recordCache

	// ifoPath identifies the dictionary for diagnostics.
	ifoPath string
}

// LoadDictionary loads every file belonging to the dictionary named by
// ifoPath: the .ifo itself, a .idx.gz or .idx (the former preferred), an
// optional .syn, and a .dict.dz or .dict (the former preferred). Loading
// is all-or-nothing: any failure releases whatever was already opened.
func LoadDictionary(ifoPath string) (d *Dictionary, err error) {
	f, ferr := os.Open(ifoPath)
	if ferr != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, ferr)
	}
	info, perr := ifo.Parse(f)
	f.Close()
	if perr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormat, ifoPath, perr)
	}

	stem := strings.TrimSuffix(ifoPath, filepath.Ext(ifoPath))

	d = &Dictionary{info: info, ifoPath: ifoPath, schema: parseSchema(info.SameTypeSequence())}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	dictPath, derr := preferExisting(stem+".dict.dz", stem+".dict")
	if derr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, ifoPath, derr)
	}
	data, derr := dict.Open(dictPath)
	if derr != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, derr)
	}
	d.data = data

	offsetBits := 32
	if version, ok := info.Value("version"); ok && version == "3.0.0" {
		if v, ok := info.Value("idxoffsetbits"); ok {
			n, cerr := strconv.Atoi(v)
			if cerr != nil {
				return nil, fmt.Errorf("%w: idxoffsetbits: %w", ErrFormat, cerr)
			}
			offsetBits = n
		}
	}

	hwIndex, ierr := openIndex(stem, info, offsetBits)
	if ierr != nil {
		return nil, ierr
	}
	d.index = hwIndex

	if synPath, serr := findExisting(synExtensions(stem)); serr == nil {
		synFile, serr := syn.OpenFromIfoPath(ifoPath, Compare, synOptions)
		if serr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFormat, synPath, serr)
		}
		d.syn = synFile
	}

	return d, nil
}

func openIndex(stem string, info *ifo.Ifo, offsetBits int) (headwordIndex, error) {
	if path, err := preferExisting(stem+".idx.gz", ""); err == nil {
		wl, werr := idx.OpenWordListIndex(path, &idx.ScannerOptions{OffsetBits: offsetBits}, Compare)
		if werr != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, werr)
		}
		return &wordListAdapter{wl}, nil
	}

	if path, err := preferExisting(stem+".idx", ""); err == nil {
		off, oerr := idx.OpenOffsetIndex(path, info.WordCount(), Compare, &idx.OffsetIndexOptions{OffsetBits: offsetBits})
		if oerr != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, oerr)
		}
		return &offsetIndexAdapter{off}, nil
	}

	return nil, fmt.Errorf("%w: missing .idx.gz/.idx for %s", ErrIO, stem)
}

// preferExisting returns the first of primary, fallback that exists.
// fallback may be empty, meaning there is no fallback to try.
func preferExisting(primary, fallback string) (string, error) {
	if _, err := os.Stat(primary); err == nil {
		return primary, nil
	}
	if fallback != "" {
		if _, err := os.Stat(fallback); err == nil {
			return fallback, nil
		}
	}
	return "", fmt.Errorf("neither %q nor %q exists", primary, fallback)
}

func findExisting(candidates []string) (string, error) {
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("none of %v exist", candidates)
}

func synExtensions(stem string) []string {
	exts := []string{".syn", ".syn.gz", ".syn.GZ", ".syn.dz", ".syn.DZ", ".SYN", ".SYN.gz", ".SYN.GZ", ".SYN.dz", ".SYN.DZ"}
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = stem + e
	}
	return out
}

// parseSchema converts a sametypesequence string into the equivalent
// DataType slice; an empty schema means records are self-describing.
func parseSchema(s string) []dict.DataType {
	if s == "" {
		return nil
	}
	schema := make([]dict.DataType, len(s))
	for i := 0; i < len(s); i++ {
		schema[i] = dict.DataType(s[i])
	}
	return schema
}

// Bookname is the dictionary's display name.
func (d *Dictionary) Bookname() string {
	return d.info.Bookname()
}

// Len is the number of headwords in the dictionary's main index.
func (d *Dictionary) Len() int {
	return d.index.Len()
}

// HasDataSearch reports whether this dictionary's records have at least
// one string-typed field, making it eligible for DataLookup.
func (d *Dictionary) HasDataSearch() bool {
	if len(d.schema) == 0 {
		// Self-describing records are always eligible: their string
		// fields are only known per-record, so err on the side of
		// scanning them.
		return true
	}
	for _, t := range d.schema {
		if t.IsString() {
			return true
		}
	}
	return false
}

// headword returns the text of the entry at main-index position i.
func (d *Dictionary) headword(i int) (string, error) {
	w, _, _, err := d.index.At(i)
	return w, err
}

// lookup unions the Index's exact match for word with any SynFile entries
// resolving to this dictionary's main index.
func (d *Dictionary) lookup(word string) (indices []int, nextIdx int, found bool, err error) {
	idxIndices, idxNext, idxFound, err := d.index.Lookup(word)
	if err != nil {
		return nil, 0, false, err
	}

	seen := map[int]bool{}
	for _, i := range idxIndices {
		seen[i] = true
	}

	if d.syn != nil {
		synHits, serr := d.syn.Search(word)
		if serr != nil {
			return nil, 0, false, serr
		}
		for _, h := range synHits {
			seen[int(h.OriginalWordIndex)] = true
		}
	}

	if len(seen) == 0 {
		return nil, idxNext, false, nil
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, idxNext, idxFound || len(out) > 0, nil
}

// lookupWithPattern returns the positions of every headword in the main
// index matching the glob pattern, up to maxResults (0 means unbounded).
// truncated reports whether at least one further match existed beyond
// maxResults and was dropped.
func (d *Dictionary) lookupWithPattern(pattern string, maxResults int) (results []int, truncated bool, err error) {
	matchFn := globMatcher(pattern)

	for i := 0; i < d.index.Len(); i++ {
		w, herr := d.headword(i)
		if herr != nil {
			return nil, false, herr
		}
		if !matchFn(w) {
			continue
		}
		if maxResults > 0 && len(results) >= maxResults {
			truncated = true
			break
		}
		results = append(results, i)
	}
	return results, truncated, nil
}

// globMatcher returns a matcher function for pattern, using the fast
// github.com/gobwas/glob path when the pattern has no backslash escapes
// and the escape-aware fallback otherwise (gobwas/glob has no escape
// support).
func globMatcher(pattern string) func(string) bool {
	if globmatch.HasEscape(pattern) {
		return func(s string) bool { return globmatch.Match(pattern, s) }
	}
	g, err := compileGlob(pattern)
	if err != nil {
		return func(s string) bool { return globmatch.Match(pattern, s) }
	}
	return g.Match
}

// getRecord loads and decodes the record at main-index position i,
// serving from the record cache when present.
func (d *Dictionary) getRecord(i int) (*dict.Record, error) {
	_, offset, size, err := d.index.At(i)
	if err != nil {
		return nil, err
	}

	if rec, ok := d.cache.get(offset); ok {
		return rec, nil
	}

	rec, err := d.data.Record(offset, size, d.schema)
	if err != nil {
		return nil, err
	}
	d.cache.put(offset, rec)
	return rec, nil
}

// searchData reports whether every one of needles appears in some
// string-typed field of the record at main-index position i.
func (d *Dictionary) searchData(i int, needles [][]byte) (bool, error) {
	_, offset, size, err := d.index.At(i)
	if err != nil {
		return false, err
	}
	return d.data.Search(offset, size, d.schema, needles)
}

// Close releases every resource this Dictionary holds.
func (d *Dictionary) Close() error {
	var errs []error
	if d.data != nil {
		if err := d.data.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c, ok := d.index.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
