// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package delta implements pieces of the Delta Lake table format,
// currently centered on deletion vectors: compact bitmaps that mark
// which row ordinals of a data file are logically deleted, persisted
// as checksummed binary blobs referenced from the transaction log.
package delta

import (
	"runtime/debug"
	"strings"
)

var version string

func init() {
	version = "(unknown version)"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if strings.HasPrefix(dep.Path, "github.com/delta-io/delta-go") {
				version = dep.Version
				break
			}
		}
	}
}

// Version returns the version of the delta-go library as recorded in
// the build info of the importing binary.
func Version() string { return version }
