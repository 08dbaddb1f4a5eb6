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

package dict

import (
	"fmt"

	goahocorasick "github.com/anknown/ahocorasick"
)

// needleMatcher tracks, across however many string fields Search visits,
// whether every needle has appeared as a substring of some single field.
// It scans each field with a single Aho-Corasick pass rather than
// re-scanning the field once per needle.
type needleMatcher struct {
	m     *goahocorasick.Machine
	index map[string]int
	want  int
	found map[int]bool
}

func newNeedleMatcher(needles [][]byte) (*needleMatcher, error) {
	nm := &needleMatcher{want: len(needles), found: make(map[int]bool, len(needles))}
	if len(needles) == 0 {
		return nm, nil
	}

	patterns := make([][]rune, len(needles))
	index := make(map[string]int, len(needles))
	for i, n := range needles {
		patterns[i] = []rune(string(n))
		index[string(n)] = i
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, fmt.Errorf("dict: building needle automaton: %w", err)
	}
	nm.m, nm.index = m, index
	return nm, nil
}

// observe scans one string field's data, recording which needles it
// contains.
func (nm *needleMatcher) observe(data []byte) {
	if nm.m == nil || nm.complete() {
		return
	}
	for _, term := range nm.m.MultiPatternSearch([]rune(string(data)), false) {
		if i, ok := nm.index[string(term.Word)]; ok {
			nm.found[i] = true
		}
	}
}

// complete reports whether every needle has been observed.
func (nm *needleMatcher) complete() bool {
	return len(nm.found) == nm.want
}
