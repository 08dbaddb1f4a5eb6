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

import "errors"

var (
	// ErrFormat wraps a fatal, dictionary-local parse failure: bad magic,
	// a missing required key, a truncated record, an oversized key.
	ErrFormat = errors.New("stardict: format error")

	// ErrIO wraps a fatal, dictionary-local I/O failure: open, read,
	// seek.
	ErrIO = errors.New("stardict: io error")

	// ErrNoDictionaries is returned by Library loading when not a
	// single dictionary loaded successfully.
	ErrNoDictionaries = errors.New("stardict: no dictionaries loaded")
)
