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

import "testing"

// stemDict builds a morphLookup backed by a fixed set of known stems,
// recording every candidate it was asked about.
func stemDict(stems ...string) (morphLookup, *[]string) {
	known := map[string]bool{}
	for _, s := range stems {
		known[s] = true
	}
	var tried []string
	return func(candidate string) bool {
		tried = append(tried, candidate)
		return known[candidate]
	}, &tried
}

func TestFallbackMorphology_caseVariants(t *testing.T) {
	tests := []struct {
		name  string
		word  string
		stems []string
	}{
		{"lowercase hit", "HELLO", []string{"hello"}},
		{"uppercase hit", "hello", []string{"HELLO"}},
		{"titlecase hit", "paris", []string{"Paris"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lookup, _ := stemDict(tc.stems...)
			if !fallbackMorphology(tc.word, lookup) {
				t.Errorf("fallbackMorphology(%q) = false, want true", tc.word)
			}
		})
	}
}

// TestFallbackMorphology_suffixCascade exercises testable property 8: the
// suffix cascade reduces each lower-case inflected English word to its stem.
// Casing is covered by TestFallbackMorphology_caseInsensitiveAcrossCascade.
func TestFallbackMorphology_suffixCascade(t *testing.T) {
	tests := []struct {
		name string
		word string
		stem string
	}{
		{"trim s", "cats", "cat"},
		{"trim d after silent e", "used", "use"},
		{"trim ly", "fully", "ful"},
		{"trim ing with doubled consonant", "running", "run"},
		{"trim ed with doubled consonant", "hopped", "hop"},
		{"trim es after x", "boxes", "box"},
		{"trim es after ch", "watches", "watch"},
		{"trim ied restoring y", "tried", "try"},
		{"trim ies restoring y", "flies", "fly"},
		{"trim er", "faster", "fast"},
		{"trim est", "fastest", "fast"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lookup, tried := stemDict(tc.stem)
			if !fallbackMorphology(tc.word, lookup) {
				t.Fatalf("fallbackMorphology(%q) = false, want true (tried: %v)", tc.word, *tried)
			}
		})
	}
}

func TestFallbackMorphology_caseInsensitiveAcrossCascade(t *testing.T) {
	lookup, _ := stemDict("walk")
	for _, word := range []string{"walked", "walking", "WALKS", "Walks"} {
		if !fallbackMorphology(word, lookup) {
			t.Errorf("fallbackMorphology(%q) = false, want true", word)
		}
	}
}

func TestFallbackMorphology_miss(t *testing.T) {
	lookup, _ := stemDict("hello")
	if fallbackMorphology("goodbye", lookup) {
		t.Error("fallbackMorphology(goodbye) = true, want false")
	}
}

func TestFallbackMorphology_nonASCIISkipsSuffixCascade(t *testing.T) {
	// Suffix rules only run for pure-ASCII words; a non-ASCII word falls
	// through to case variants only.
	lookup, tried := stemDict("will never match")
	if fallbackMorphology("café", lookup) {
		t.Error("fallbackMorphology(café) = true, want false")
	}
	for _, c := range *tried {
		if c != "CAFÉ" && c != "Café" && c != "café" {
			t.Errorf("tried candidate %q, want only case variants (no suffix-trimmed forms)", c)
		}
	}
}

// TestFallbackMorphology_shortWordGuard covers the two-letter
// out-of-bounds read that a naive "ed" subcheck inside ruleTrimSOrD would
// otherwise hit: the subcheck only applies to words longer than two
// bytes, so a bare two-letter word never gets mis-trimmed.
func TestFallbackMorphology_shortWordGuard(t *testing.T) {
	lookup, _ := stemDict()
	if fallbackMorphology("ed", lookup) {
		t.Error("fallbackMorphology(ed) = true, want false")
	}
}

func TestHasDoubledConsonant(t *testing.T) {
	tests := []struct {
		stem string
		want bool
	}{
		{"runn", true},
		{"hopp", true},
		{"ful", false},
		{"ee", false},
		{"a", false},
		{"add", false},
		{"redd", true},
	}
	for _, tc := range tests {
		if got := hasDoubledConsonant(tc.stem); got != tc.want {
			t.Errorf("hasDoubledConsonant(%q) = %v, want %v", tc.stem, got, tc.want)
		}
	}
}
