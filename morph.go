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
	"strings"
	"unicode"
	"unicode/utf8"
)

// morphLookup reports whether candidate hits in the dictionary under
// search, recording any hit as a side effect (e.g. into a shared result
// set). It returns whether the candidate hit.
type morphLookup func(candidate string) bool

// fallbackMorphology tries case variants and, for pure-ASCII words, a
// cascade of English suffix rules against word, stopping at the first
// lookup that hits. It reports whether any variant hit.
//
// The cascade order and exact trimming rules mirror the reference
// implementation, except that the "trim s/ed" rule's ed-subcheck guards on
// a word length of more than two bytes rather than more than one: the
// original accesses the byte two positions from the end while only
// guaranteeing one, which is unsafe for two-letter words.
func fallbackMorphology(word string, lookup morphLookup) bool {
	if tryCandidate(lookup, word, strings.ToLower(word)) {
		return true
	}
	if tryCandidate(lookup, word, strings.ToUpper(word)) {
		return true
	}
	if tryCandidate(lookup, word, titleCase(word)) {
		return true
	}

	if !isPureASCII(word) {
		return false
	}

	for _, rule := range suffixRules {
		if rule(word, lookup) {
			return true
		}
	}
	return false
}

func tryCandidate(lookup morphLookup, original, candidate string) bool {
	if candidate == original {
		return false
	}
	return lookup(candidate)
}

// tryVariants tries candidate as-is, then, if that misses and either
// upperMatched or original starts with an upper-case code point, tries the
// lower-cased candidate.
func tryVariants(lookup morphLookup, original, candidate string, upperMatched bool) bool {
	if lookup(candidate) {
		return true
	}
	if upperMatched || firstRuneIsUpper(original) {
		lower := strings.ToLower(candidate)
		if lower != candidate {
			return lookup(lower)
		}
	}
	return false
}

var suffixRules = []func(word string, lookup morphLookup) bool{
	ruleTrimSOrD,
	ruleTrimLy,
	ruleTrimIng,
	ruleTrimEs,
	ruleTrimEd,
	ruleTrimIed,
	ruleTrimIes,
	ruleTrimEr,
	ruleTrimEst,
}

// ruleTrimSOrD trims the final character when the word ends in "s"/"S" or
// "ed"/"ED" (the "ed" case assumes the stem already ends in a silent "e",
// e.g. "liked" -> "like").
func ruleTrimSOrD(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 1 {
		return false
	}
	upperMatch := word[n-1] == 'S'
	lowerMatch := word[n-1] == 's'
	if n > 2 {
		switch word[n-2:] {
		case "ED":
			upperMatch = true
		case "ed":
			lowerMatch = true
		}
	}
	if !upperMatch && !lowerMatch {
		return false
	}
	return tryVariants(lookup, word, word[:n-1], upperMatch)
}

// ruleTrimLy trims "ly"/"LY", additionally trying the doubled-consonant
// stem (e.g. "fully" -> "full" -> "ful") before falling back to the
// undoubled stem.
func ruleTrimLy(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 2 {
		return false
	}
	suffix := word[n-2:]
	upperMatch := suffix == "LY"
	if !upperMatch && suffix != "ly" {
		return false
	}
	stem := word[:n-2]
	if hasDoubledConsonant(stem) {
		if tryVariants(lookup, word, stem[:len(stem)-1], upperMatch) {
			return true
		}
	}
	return tryVariants(lookup, word, stem, upperMatch)
}

// ruleTrimIng trims "ing"/"ING", trying the doubled-consonant stem first
// and, on a full miss, the stem with a trailing "e"/"E" restored.
func ruleTrimIng(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-3:]
	upperMatch := suffix == "ING"
	if !upperMatch && suffix != "ing" {
		return false
	}
	stem := word[:n-3]
	if hasDoubledConsonant(stem) {
		if tryVariants(lookup, word, stem[:len(stem)-1], upperMatch) {
			return true
		}
	}
	if tryVariants(lookup, word, stem, upperMatch) {
		return true
	}
	if upperMatch {
		return tryVariants(lookup, word, stem+"E", upperMatch)
	}
	return tryVariants(lookup, word, stem+"e", upperMatch)
}

// ruleTrimEs trims "es"/"ES" only when preceded by s, x, o, or ch/sh.
func ruleTrimEs(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-2:]
	upperMatch := suffix == "ES"
	if !upperMatch && suffix != "es" {
		return false
	}
	prev := asciiFold(word[n-3])
	ok := prev == 's' || prev == 'x' || prev == 'o'
	if !ok && n > 4 {
		prev2 := asciiFold(word[n-4])
		ok = prev == 'h' && (prev2 == 'c' || prev2 == 's')
	}
	if !ok {
		return false
	}
	return tryVariants(lookup, word, word[:n-2], upperMatch)
}

// ruleTrimEd trims "ed"/"ED" with the same doubled-consonant handling as
// ruleTrimLy.
func ruleTrimEd(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-2:]
	upperMatch := suffix == "ED"
	if !upperMatch && suffix != "ed" {
		return false
	}
	stem := word[:n-2]
	if hasDoubledConsonant(stem) {
		if tryVariants(lookup, word, stem[:len(stem)-1], upperMatch) {
			return true
		}
	}
	return tryVariants(lookup, word, stem, upperMatch)
}

// ruleTrimIed trims "ied"/"IED" and restores a trailing "y"/"Y".
func ruleTrimIed(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-3:]
	upperMatch := suffix == "IED"
	if !upperMatch && suffix != "ied" {
		return false
	}
	stem := word[:n-3]
	if upperMatch {
		return tryVariants(lookup, word, stem+"Y", upperMatch)
	}
	return tryVariants(lookup, word, stem+"y", upperMatch)
}

// ruleTrimIes trims "ies"/"IES" and restores a trailing "y"/"Y".
func ruleTrimIes(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-3:]
	upperMatch := suffix == "IES"
	if !upperMatch && suffix != "ies" {
		return false
	}
	stem := word[:n-3]
	if upperMatch {
		return tryVariants(lookup, word, stem+"Y", upperMatch)
	}
	return tryVariants(lookup, word, stem+"y", upperMatch)
}

// ruleTrimEr trims "er"/"ER".
func ruleTrimEr(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 2 {
		return false
	}
	suffix := word[n-2:]
	upperMatch := suffix == "ER"
	if !upperMatch && suffix != "er" {
		return false
	}
	return tryVariants(lookup, word, word[:n-2], upperMatch)
}

// ruleTrimEst trims "est"/"EST".
func ruleTrimEst(word string, lookup morphLookup) bool {
	n := len(word)
	if n <= 3 {
		return false
	}
	suffix := word[n-3:]
	upperMatch := suffix == "EST"
	if !upperMatch && suffix != "est" {
		return false
	}
	return tryVariants(lookup, word, word[:n-3], upperMatch)
}

// hasDoubledConsonant reports whether stem ends in two identical
// non-vowel bytes preceded by a vowel (e.g. "ful" in "full", "hop" in
// "hopp"). A 3-byte stem like "err" never qualifies even though it fits
// the doubled-letter shape: undoing a doubled consonant only makes sense
// once the stem is at least 4 bytes, otherwise "erred" would offer "er"
// as a candidate ahead of the correct "err".
func hasDoubledConsonant(stem string) bool {
	n := len(stem)
	if n < 4 {
		return false
	}
	last, second, third := stem[n-1], stem[n-2], stem[n-3]
	return last == second && !isVowel(second) && isVowel(third)
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	default:
		return false
	}
}

func isPureASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func firstRuneIsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// titleCase upper-cases the first code point of s and lower-cases the
// rest.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r)) + strings.ToLower(s[size:])
}
