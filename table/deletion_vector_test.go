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

package table_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delta-io/delta-go/table"
)

func TestStorageTypeMarkers(t *testing.T) {
	tests := []struct {
		storageType table.DeletionVectorStorageType
		marker      string
	}{
		{table.StorageTypeUUID, "u"},
		{table.StorageTypePath, "p"},
		{table.StorageTypeInline, "i"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.marker, tt.storageType.String())

		parsed, err := table.ParseDeletionVectorStorageType(tt.marker)
		require.NoError(t, err)
		assert.Equal(t, tt.storageType, parsed)
	}

	_, err := table.ParseDeletionVectorStorageType("x")
	assert.ErrorIs(t, err, table.ErrUnknownStorageType)
	_, err = table.ParseDeletionVectorStorageType("")
	assert.ErrorIs(t, err, table.ErrUnknownStorageType)
}

func TestDeletionVectorEntryJSON(t *testing.T) {
	offset := int64(1)
	entry := table.DeletionVectorEntry{
		StorageType:    table.StorageTypeUUID,
		PathOrInlineDV: "ab5<w-%>:JjlQ/G/]6C<1m",
		Offset:         &offset,
		SizeInBytes:    45,
		Cardinality:    8,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"storageType": "u",
		"pathOrInlineDv": "ab5<w-%>:JjlQ/G/]6C<1m",
		"offset": 1,
		"sizeInBytes": 45,
		"cardinality": 8
	}`, string(data))

	var decoded table.DeletionVectorEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
}

func TestDeletionVectorEntryJSONOmitsOffset(t *testing.T) {
	entry := table.DeletionVectorEntry{
		StorageType:    table.StorageTypeInline,
		PathOrInlineDV: "inlinebytes",
		SizeInBytes:    11,
		Cardinality:    2,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "offset")
}

func TestDeletionVectorEntryJSONUnknownMarker(t *testing.T) {
	var decoded table.DeletionVectorEntry
	err := json.Unmarshal([]byte(`{"storageType":"z","pathOrInlineDv":"x","sizeInBytes":1,"cardinality":1}`), &decoded)
	assert.ErrorIs(t, err, table.ErrUnknownStorageType)
}

func TestDeletionVectorEntryValidate(t *testing.T) {
	offset := int64(1)
	negOffset := int64(-1)

	valid := table.DeletionVectorEntry{
		StorageType:    table.StorageTypeUUID,
		PathOrInlineDV: "x",
		Offset:         &offset,
		SizeInBytes:    10,
		Cardinality:    3,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*table.DeletionVectorEntry)
	}{
		{"missing offset", func(e *table.DeletionVectorEntry) { e.Offset = nil }},
		{"negative offset", func(e *table.DeletionVectorEntry) { e.Offset = &negOffset }},
		{"zero size", func(e *table.DeletionVectorEntry) { e.SizeInBytes = 0 }},
		{"negative size", func(e *table.DeletionVectorEntry) { e.SizeInBytes = -4 }},
		{"zero cardinality", func(e *table.DeletionVectorEntry) { e.Cardinality = 0 }},
		{"unknown storage type", func(e *table.DeletionVectorEntry) { e.StorageType = 0 }},
		{"offset on path storage", func(e *table.DeletionVectorEntry) { e.StorageType = table.StorageTypePath }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := valid
			tt.mutate(&entry)
			assert.Error(t, entry.Validate())
		})
	}
}
