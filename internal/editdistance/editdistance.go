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

// Package editdistance implements a bounded Levenshtein edit distance over
// UCS-4 (rune) strings, with early termination once the current row can no
// longer beat the caller's distance cap.
package editdistance

// Bounded computes the Levenshtein edit distance between a and b, with
// insertion, deletion and substitution all costing 1. If at any point every
// cell of the current row is >= maxDistance, the computation is abandoned
// and maxDistance is returned: the caller should treat this as "no match",
// not as a real distance. Case folding, if desired, must be done by the
// caller before calling Bounded.
func Bounded(a, b []rune, maxDistance int) int {
	if maxDistance <= 0 {
		if len(a) == 0 && len(b) == 0 {
			return 0
		}
		return maxDistance
	}

	// prev/curr hold one row of the DP matrix, indexed by position in b.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
			if m < rowMin {
				rowMin = m
			}
		}

		if rowMin >= maxDistance {
			return maxDistance
		}

		prev, curr = curr, prev
	}

	if prev[len(b)] >= maxDistance {
		return maxDistance
	}
	return prev[len(b)]
}
