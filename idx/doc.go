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

// Package idx implements the two on-disk index variants a StarDict
// dictionary may ship: WordListIndex, for the fully-loaded, gzip-packed
// .idx.gz, and OffsetIndex, for the demand-paged .idx with its .oft
// page-offset cache. Both expose the same shape of lookup: a sorted-order
// position range for an exact match, plus a next-index for a miss.
package idx
