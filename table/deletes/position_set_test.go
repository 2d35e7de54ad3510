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
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSetBasics(t *testing.T) {
	s := NewPositionSet(5, 1, 3, 3)
	assert.EqualValues(t, 3, s.Cardinality())
	assert.True(t, s.Contains(3))
	assert.False(t, s.Contains(2))
	assert.False(t, s.IsEmpty())

	s.Add(2)
	assert.Equal(t, []uint64{1, 2, 3, 5}, slices.Collect(s.All()), "iteration is ascending")

	clone := s.Clone()
	clone.Add(100)
	assert.False(t, s.Contains(100), "clone is independent")

	assert.True(t, NewPositionSet().IsEmpty())
}

func TestMergeCollapsesDuplicates(t *testing.T) {
	past := NewPositionSet(1, 2, 3)
	byDelete := NewPositionSet(3, 4)
	byUpdate := NewPositionSet(4, 5, 1)

	merged, err := mergeToBitmap(past, byDelete, byUpdate)
	require.NoError(t, err)

	// Cardinality is the size of the set union, not the sum of the
	// source sizes.
	assert.EqualValues(t, 5, merged.GetCardinality())
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, merged.ToArray())
}

func TestMergeNilSources(t *testing.T) {
	merged, err := mergeToBitmap(nil, NewPositionSet(7), nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{7}, merged.ToArray())

	merged, err = mergeToBitmap(nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, merged.IsEmpty())
}

func TestMergeRejectsOutOfRangePositions(t *testing.T) {
	_, err := mergeToBitmap(nil, NewPositionSet(math.MaxInt32+1), nil)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	_, err = mergeToBitmap(NewPositionSet(math.MaxUint64), nil, nil)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	// The maximum representable ordinal is fine.
	merged, err := mergeToBitmap(nil, nil, NewPositionSet(math.MaxInt32))
	require.NoError(t, err)
	assert.True(t, merged.Contains(math.MaxInt32))
}
