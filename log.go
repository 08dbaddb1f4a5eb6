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
	"os"

	"github.com/charmbracelet/log"
)

// defaultLogger is used by Library when no logger is supplied through
// LibraryOptions. Per-dictionary load failures go here; lookups never
// log.
var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "stardict",
	ReportCaller:    false,
	ReportTimestamp: false,
	Formatter:       log.TextFormatter,
	Level:           log.GetLevel(),
})
