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
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/shimizu-dev/stardict-go/internal/editdistance"
)

// initialMaxFuzzyDistance is the starting tournament threshold for
// FuzzyLookup. It only ever shrinks over the course of a lookup.
const initialMaxFuzzyDistance = 3

// defaultMaxMatchPerLib bounds how many pattern matches a single
// dictionary contributes to a PatternLookup.
const defaultMaxMatchPerLib = 100

// ProgressFunc is invoked at natural checkpoints (once per dictionary)
// during a fuzzy, pattern, or data lookup. It exists purely for progress
// reporting; it has no way to cancel the operation in progress.
type ProgressFunc func(dictionariesDone, dictionariesTotal int)

// LibraryOptions configures a Library.
type LibraryOptions struct {
	// FuzzyEnabled gates the morphology fallback cascade inside
	// SimpleLookup.
	FuzzyEnabled bool

	// MaxMatchPerLib bounds pattern-search results per dictionary. Zero
	// selects defaultMaxMatchPerLib.
	MaxMatchPerLib int

	// Progress, if non-nil, is called once per dictionary during Fuzzy,
	// Pattern, and Data lookups.
	Progress ProgressFunc

	// Logger receives per-dictionary load failures. Defaults to a
	// package-level logger writing to stderr.
	Logger *log.Logger
}

// Library owns an ordered collection of loaded dictionaries and
// implements every search mode layered on top of a single Dictionary's
// exact lookup.
type Library struct {
	dictionaries   []*Dictionary
	fuzzyEnabled   bool
	maxMatchPerLib int
	progress       ProgressFunc
	logger         *log.Logger
}

// LoadLibrary loads the dictionary named by each .ifo path, in order.
// A dictionary that fails to load is logged and skipped; the whole
// operation only fails if not a single dictionary loaded.
func LoadLibrary(ifoPaths []string, opts *LibraryOptions) (*Library, error) {
	if opts == nil {
		opts = &LibraryOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = defaultLogger
	}
	maxMatchPerLib := opts.MaxMatchPerLib
	if maxMatchPerLib == 0 {
		maxMatchPerLib = defaultMaxMatchPerLib
	}

	l := &Library{
		fuzzyEnabled:   opts.FuzzyEnabled,
		maxMatchPerLib: maxMatchPerLib,
		progress:       opts.Progress,
		logger:         logger,
	}

	for _, path := range ifoPaths {
		d, err := LoadDictionary(path)
		if err != nil {
			logger.Warn("failed to load dictionary", "path", path, "err", err)
			continue
		}
		l.dictionaries = append(l.dictionaries, d)
	}

	if len(l.dictionaries) == 0 {
		return nil, ErrNoDictionaries
	}
	return l, nil
}

// Len returns the number of loaded dictionaries.
func (l *Library) Len() int {
	return len(l.dictionaries)
}

// Dictionary returns the dictionary loaded at position i, in load order.
func (l *Library) Dictionary(i int) *Dictionary {
	return l.dictionaries[i]
}

// Close releases every loaded dictionary's resources.
func (l *Library) Close() error {
	var errs []error
	for _, d := range l.dictionaries {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// SimpleLookup looks up word in the dictionary at libIndex; if there is no
// exact (or synonym) hit and fuzzy is enabled, it falls back to the
// English morphology cascade against the same dictionary.
func (l *Library) SimpleLookup(word string, libIndex int) (indices []int, found bool, err error) {
	d := l.dictionaries[libIndex]

	indices, _, found, err = d.lookup(word)
	if err != nil {
		return nil, false, err
	}
	if found || !l.fuzzyEnabled {
		return indices, found, nil
	}

	result := map[int]bool{}
	for _, i := range indices {
		result[i] = true
	}

	hit := fallbackMorphology(word, func(candidate string) bool {
		cIndices, _, cFound, cErr := d.lookup(candidate)
		if cErr != nil || !cFound {
			return false
		}
		for _, i := range cIndices {
			result[i] = true
		}
		return true
	})
	if !hit {
		return nil, false, nil
	}

	out := make([]int, 0, len(result))
	for i := range result {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, true, nil
}

// FuzzyMatch is one result of FuzzyLookup.
type FuzzyMatch struct {
	Headword  string
	Distance  int
	DictIndex int
	Index     int
}

// FuzzyLookup returns up to n headwords, across every loaded dictionary,
// within edit distance of word. It runs an n-slot tournament: every slot
// starts at the initial maximum distance, and a candidate bumps out
// whichever slot currently holds the tournament's worst distance once it
// beats that slot's distance and its distance is strictly less than the
// query's length in runes.
func (l *Library) FuzzyLookup(word string, n int) ([]FuzzyMatch, error) {
	queryRunes := []rune(strings.ToLower(word))
	qlen := len(queryRunes)
	maxDistance := initialMaxFuzzyDistance

	type slot struct {
		headword  string
		distance  int
		dictIndex int
		index     int
	}
	slots := make([]slot, n)
	for i := range slots {
		slots[i].distance = maxDistance
	}

	worstSlot := func() int {
		worst := 0
		for i := 1; i < len(slots); i++ {
			if slots[i].distance > slots[worst].distance {
				worst = i
			}
		}
		return worst
	}
	recomputeMax := func() int {
		m := 0
		for _, s := range slots {
			if s.distance > m {
				m = s.distance
			}
		}
		return m
	}
	isDuplicate := func(hw string) bool {
		for _, s := range slots {
			if s.headword != "" && s.headword == hw {
				return true
			}
		}
		return false
	}

	for di, d := range l.dictionaries {
		for i := 0; i < d.Len(); i++ {
			hw, err := d.headword(i)
			if err != nil {
				return nil, err
			}

			candRunes := []rune(strings.ToLower(hw))
			if absInt(len(candRunes)-qlen) >= maxDistance {
				continue
			}

			dist := editdistance.Bounded(queryRunes, candRunes, maxDistance)
			if dist >= maxDistance || dist >= qlen {
				continue
			}
			if isDuplicate(hw) {
				continue
			}

			ws := worstSlot()
			if dist < slots[ws].distance {
				slots[ws] = slot{headword: hw, distance: dist, dictIndex: di, index: i}
				maxDistance = recomputeMax()
			}
		}
		if l.progress != nil {
			l.progress(di+1, len(l.dictionaries))
		}
	}

	var results []FuzzyMatch
	for _, s := range slots {
		if s.headword == "" {
			continue
		}
		results = append(results, FuzzyMatch{Headword: s.headword, Distance: s.distance, DictIndex: s.dictIndex, Index: s.index})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return Compare(results[i].Headword, results[j].Headword) < 0
	})
	return results, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PatternMatch is one result of PatternLookup.
type PatternMatch struct {
	Headword  string
	DictIndex int
	Index     int
}

// PatternLookup glob-matches pattern against every headword in every
// loaded dictionary, capping each dictionary's contribution at
// maxMatchPerLib, then deduplicates by exact headword equality and sorts
// the union by the format's comparator. truncated reports whether any
// single dictionary had more matches than maxMatchPerLib and had some
// dropped, unlike the reference engine's cap, which drops overflow with
// no way for a caller to find out.
func (l *Library) PatternLookup(pattern string) (matches []PatternMatch, truncated bool, err error) {
	var all []PatternMatch
	for di, d := range l.dictionaries {
		indices, dictTruncated, derr := d.lookupWithPattern(pattern, l.maxMatchPerLib)
		if derr != nil {
			return nil, false, derr
		}
		if dictTruncated {
			truncated = true
		}
		for _, i := range indices {
			hw, herr := d.headword(i)
			if herr != nil {
				return nil, false, herr
			}
			all = append(all, PatternMatch{Headword: hw, DictIndex: di, Index: i})
		}
		if l.progress != nil {
			l.progress(di+1, len(l.dictionaries))
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return Compare(all[i].Headword, all[j].Headword) < 0
	})

	seen := map[string]bool{}
	out := make([]PatternMatch, 0, len(all))
	for _, m := range all {
		if seen[m.Headword] {
			continue
		}
		seen[m.Headword] = true
		out = append(out, m)
	}
	return out, truncated, nil
}

// DataMatch is one result of DataLookup: a headword in one dictionary
// whose record matched every needle.
type DataMatch struct {
	Headword  string
	DictIndex int
	Index     int
}

// DataLookup parses payload into whitespace-separated needles (see
// SplitNeedles) and scans every record of every dictionary that
// advertises at least one string-typed field, returning the headwords
// whose records contain every needle.
func (l *Library) DataLookup(payload string) ([]DataMatch, error) {
	needles := SplitNeedles(payload)

	var out []DataMatch
	for di, d := range l.dictionaries {
		if d.HasDataSearch() {
			for i := 0; i < d.Len(); i++ {
				matched, serr := d.searchData(i, needles)
				if serr != nil {
					return nil, serr
				}
				if !matched {
					continue
				}
				hw, herr := d.headword(i)
				if herr != nil {
					return nil, herr
				}
				out = append(out, DataMatch{Headword: hw, DictIndex: di, Index: i})
			}
		}
		if l.progress != nil {
			l.progress(di+1, len(l.dictionaries))
		}
	}
	return out, nil
}
