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

// Package deletes reads and writes Delta Lake deletion vectors, the
// bitmap files that mark individual rows of a data file as deleted
// without rewriting the file.
//
// A deletion vector on disk is a versioned envelope around a portable
// serialized roaring bitmap:
//
//	[version: 1 byte][length: int32][bitmap payload][crc32: int32]
//
// The length and checksum are big-endian while the payload interior is
// little-endian, matching the format produced by the reference writers.
// The payload itself is a magic number, a segment count and one roaring
// bitmap per 32-bit "key" segment, so a single vector can address row
// ordinals beyond the 32-bit range.
//
// Vectors are named deletion_vector_<id>.bin where <id> is a UUID in a
// base85 encoding (see EncodeUUID), optionally sharded under a random
// alphanumeric prefix. The transaction log refers to them through
// [table.DeletionVectorEntry] records.
//
// Typical usage pairs [WriteDeletionVector] with [ReadDeletionVector]:
//
//	deleted := deletes.NewPositionSet(4, 17, 23)
//	entry, err := deletes.WriteDeletionVector(fsys, tableLocation, nil, deleted, nil)
//	...
//	positions, err := deletes.ReadDeletionVector(fsys, tableLocation, entry)
//
// PositionSet is not safe for concurrent mutation; readers of distinct
// vectors may run in parallel.
package deletes
