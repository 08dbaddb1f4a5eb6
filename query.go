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

// QueryKind classifies a raw query string for dispatch to the Library.
type QueryKind int

const (
	// QuerySimple is an exact/morphology headword lookup.
	QuerySimple QueryKind = iota
	// QueryFuzzy is an edit-distance lookup (leading '/').
	QueryFuzzy
	// QueryData is a full-text record search (leading '|').
	QueryData
	// QueryPattern is a glob-style headword search (unescaped '*' or
	// '?').
	QueryPattern
)

// String returns a human-readable name for k.
func (k QueryKind) String() string {
	switch k {
	case QuerySimple:
		return "simple"
	case QueryFuzzy:
		return "fuzzy"
	case QueryData:
		return "data"
	case QueryPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// Query is a classified query ready for dispatch.
type Query struct {
	Kind QueryKind
	// Payload is the query string with its dispatch marker (if any)
	// stripped. Pattern queries keep their escape sequences intact;
	// Data queries are further split by SplitNeedles.
	Payload string
}

// Classify dispatches a raw query string per the format's query
// classifier: empty is a simple lookup of "", a leading '/' or '|' selects
// fuzzy or data search and is stripped, an unescaped '*' or '?' anywhere
// else selects a glob pattern search, and everything else is a simple
// lookup.
func Classify(raw string) Query {
	if raw == "" {
		return Query{Kind: QuerySimple, Payload: ""}
	}
	switch raw[0] {
	case '/':
		return Query{Kind: QueryFuzzy, Payload: raw[1:]}
	case '|':
		return Query{Kind: QueryData, Payload: raw[1:]}
	}
	if hasUnescapedGlobChar(raw) {
		return Query{Kind: QueryPattern, Payload: raw}
	}
	return Query{Kind: QuerySimple, Payload: raw}
}

// hasUnescapedGlobChar reports whether s contains a '*' or '?' not
// preceded by a '\' escape. A '\' always consumes the following byte,
// escaped or not.
func hasUnescapedGlobChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == '*' || s[i] == '?' {
			return true
		}
	}
	return false
}

// SplitNeedles parses a data-query payload into whitespace-separated
// needles. '\\' escapes to a literal backslash, '\t' and '\n' escape to a
// literal tab and newline, and any other '\X' escapes to a literal X
// (including '\ ' for a literal space that would otherwise split two
// needles).
func SplitNeedles(s string) [][]byte {
	var needles [][]byte
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			needles = append(needles, cur)
			cur = nil
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 't':
				cur = append(cur, '\t')
			case 'n':
				cur = append(cur, '\n')
			default:
				cur = append(cur, s[i])
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return needles
}
