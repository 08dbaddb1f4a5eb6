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

// Package globmatch implements the glob dialect used for pattern lookups:
// '*' matches any run of runes, '?' matches exactly one rune, and '\'
// escapes the following rune so that it is matched literally, even if it
// is itself '*', '?' or '\'. This is a fallback for patterns containing an
// escape, which github.com/gobwas/glob does not support.
package globmatch

type tokenKind int

const (
	kindLiteral tokenKind = iota
	kindAny
	kindStar
)

type token struct {
	kind tokenKind
	r    rune
}

// HasEscape reports whether pattern contains a backslash escape, i.e.
// whether the fast path (github.com/gobwas/glob) must be bypassed.
func HasEscape(pattern string) bool {
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' {
			return true
		}
	}
	return false
}

func compile(pattern []rune) []token {
	var toks []token
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
			if i < len(pattern) {
				toks = append(toks, token{kind: kindLiteral, r: pattern[i]})
			}
		case '*':
			toks = append(toks, token{kind: kindStar})
		case '?':
			toks = append(toks, token{kind: kindAny})
		default:
			toks = append(toks, token{kind: kindLiteral, r: pattern[i]})
		}
	}
	return toks
}

// Match reports whether s matches the glob pattern.
func Match(pattern, s string) bool {
	toks := compile([]rune(pattern))
	str := []rune(s)

	ti, si := 0, 0
	starIdx, starS := -1, -1
	for si < len(str) {
		switch {
		case ti < len(toks) && (toks[ti].kind == kindAny || (toks[ti].kind == kindLiteral && toks[ti].r == str[si])):
			ti++
			si++
		case ti < len(toks) && toks[ti].kind == kindStar:
			starIdx, starS = ti, si
			ti++
		case starIdx != -1:
			ti = starIdx + 1
			starS++
			si = starS
		default:
			return false
		}
	}

	for ti < len(toks) && toks[ti].kind == kindStar {
		ti++
	}
	return ti == len(toks)
}
