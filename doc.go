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

// Package stardict implements a StarDict dictionary lookup engine in pure
// Go: parsing the on-disk format (package ifo, idx, syn, dict) and, at
// this level, the comparator and search modes layered on top of it.
//
// A Library loads an ordered collection of Dictionary values, each
// composed from a dictionary's .ifo metadata, its headword index (either
// the fully-loaded idx.WordListIndex or the demand-paged idx.OffsetIndex,
// chosen by which file the dictionary ships), an optional .syn synonym
// file (package syn), and its .dict record data.
//
// Four search modes sit on top of a Dictionary's exact lookup:
//
//   - SimpleLookup: an exact match against the index and any synonyms,
//     falling back to the English morphology cascade (case variants and a
//     cascade of suffix-trimming rules) when enabled and the exact match
//     misses.
//   - FuzzyLookup: a bounded edit-distance search across every loaded
//     dictionary, returned as an n-slot tournament of the closest matches.
//   - PatternLookup: a glob-style search ('*', '?', with '\' escapes)
//     across every headword in every loaded dictionary.
//   - DataLookup: a full-text search of record contents for dictionaries
//     whose records carry string fields, given a whitespace-separated list
//     of needles.
//
// Classify dispatches a raw query string to whichever of these four modes
// its syntax selects.
//
// Every ordering in this module, from index binary search to synonym
// resolution to fuzzy and pattern result sorting, goes through Compare,
// the format's bespoke ASCII case-insensitive comparator. Locale
// collation or plain byte comparison will not reproduce the invariants
// the on-disk indices were built under.
package stardict
