// Copyright 2021 Google LLC
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

package idx

// InvalidIndex is the sentinel next-index value meaning a lookup miss fell
// past the last entry in the index; there is no meaningful insertion
// point to report.
const InvalidIndex = -1

// Word is a single .idx (or .idx.gz) entry: a headword plus the offset and
// size of its record in the .dict stream.
type Word struct {
	Word   string
	Offset uint64
	Size   uint32
}

// String returns the headword, satisfying fmt.Stringer so that Word can be
// used directly with the generic sorted index.
func (w *Word) String() string {
	return w.Word
}
