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

import "github.com/gobwas/glob"

// compileGlob compiles pattern with no path separators, so that '*'
// matches any run of runes (including ones that would be directory
// separators in a filesystem glob) and '?' matches exactly one rune.
func compileGlob(pattern string) (glob.Glob, error) {
	//nolint:wrapcheck // callers fall back to globmatch on error
	return glob.Compile(pattern)
}
