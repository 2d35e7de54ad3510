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

package deletes

import (
	"fmt"
	"iter"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// PositionSet is a set of non-negative 64-bit row ordinals backed by a
// compressed bitmap. It is not safe for concurrent mutation; the read
// and write paths of this package never share one across goroutines.
type PositionSet struct {
	bm *roaring64.Bitmap
}

// NewPositionSet creates a position set containing the given positions.
func NewPositionSet(positions ...uint64) *PositionSet {
	s := &PositionSet{bm: roaring64.New()}
	s.bm.AddMany(positions)

	return s
}

// Add marks a position as deleted.
func (s *PositionSet) Add(pos uint64) { s.bm.Add(pos) }

// Contains reports whether the position is in the set.
func (s *PositionSet) Contains(pos uint64) bool { return s.bm.Contains(pos) }

// Cardinality returns the number of distinct positions in the set.
func (s *PositionSet) Cardinality() uint64 { return s.bm.GetCardinality() }

// IsEmpty reports whether the set contains no positions.
func (s *PositionSet) IsEmpty() bool { return s.bm.IsEmpty() }

// Clone returns a deep copy of the set.
func (s *PositionSet) Clone() *PositionSet {
	return &PositionSet{bm: s.bm.Clone()}
}

// Union adds every position of other to the set.
func (s *PositionSet) Union(other *PositionSet) {
	if other != nil {
		s.bm.Or(other.bm)
	}
}

// All iterates the positions in ascending numeric order.
func (s *PositionSet) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := s.bm.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

func (s *PositionSet) String() string {
	return fmt.Sprintf("PositionSet{cardinality=%d}", s.Cardinality())
}

// mergeToBitmap computes the union of up to three position sources
// into the 32-bit compact bitmap used by the on-disk container: the
// previously persisted vector, the positions deleted by a DELETE, and
// the old row versions deleted by an UPDATE. Duplicates across sources
// collapse. Nil sources are treated as empty.
//
// The container format stores 32-bit ordinals, so any position above
// math.MaxInt32 is rejected with ErrPositionOutOfRange instead of
// being silently truncated.
func mergeToBitmap(past, deletedByDelete, deletedByUpdate *PositionSet) (*roaring.Bitmap, error) {
	merged := roaring.New()
	for _, src := range []*PositionSet{past, deletedByDelete, deletedByUpdate} {
		if src == nil {
			continue
		}
		it := src.bm.Iterator()
		for it.HasNext() {
			pos := it.Next()
			if pos > math.MaxInt32 {
				return nil, fmt.Errorf("%w: %d exceeds the 32-bit ordinal range of the on-disk format", ErrPositionOutOfRange, pos)
			}
			merged.Add(uint32(pos))
		}
	}

	return merged, nil
}
