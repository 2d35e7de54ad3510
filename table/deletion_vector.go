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

// Package table holds the transaction log records of the Delta table
// format that this module produces and consumes.
package table

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStorageType = errors.New("unknown deletion vector storage type")
	ErrInvalidEntry       = errors.New("invalid deletion vector entry")
)

// DeletionVectorStorageType describes where the bytes of a deletion
// vector live. The set of variants is closed: code dispatching on it
// must switch exhaustively so that a protocol addition forces every
// call site to be revisited.
type DeletionVectorStorageType int

const (
	// StorageTypeUUID is a relative file on disk, named by an encoded
	// UUID with an optional random sharding prefix.
	StorageTypeUUID DeletionVectorStorageType = iota + 1
	// StorageTypePath is an absolute path on disk.
	StorageTypePath
	// StorageTypeInline embeds the vector bytes in the log entry.
	StorageTypeInline
)

// One-letter markers used in the transaction log.
const (
	uuidMarker   = "u"
	pathMarker   = "p"
	inlineMarker = "i"
)

func (t DeletionVectorStorageType) String() string {
	switch t {
	case StorageTypeUUID:
		return uuidMarker
	case StorageTypePath:
		return pathMarker
	case StorageTypeInline:
		return inlineMarker
	}

	return fmt.Sprintf("DeletionVectorStorageType(%d)", int(t))
}

// ParseDeletionVectorStorageType parses a transaction log marker.
func ParseDeletionVectorStorageType(s string) (DeletionVectorStorageType, error) {
	switch s {
	case uuidMarker:
		return StorageTypeUUID, nil
	case pathMarker:
		return StorageTypePath, nil
	case inlineMarker:
		return StorageTypeInline, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownStorageType, s)
}

func (t DeletionVectorStorageType) MarshalText() ([]byte, error) {
	switch t {
	case StorageTypeUUID, StorageTypePath, StorageTypeInline:
		return []byte(t.String()), nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownStorageType, int(t))
}

func (t *DeletionVectorStorageType) UnmarshalText(text []byte) error {
	parsed, err := ParseDeletionVectorStorageType(string(text))
	if err != nil {
		return err
	}
	*t = parsed

	return nil
}

// DeletionVectorEntry is the transaction log descriptor of one
// persisted deletion vector. It is immutable once constructed: a new
// delete or update cycle always produces a brand-new descriptor
// pointing at a freshly named file, never an update in place.
//
// The JSON shape matches the `deletionVector` struct of the Delta
// transaction log so that descriptors round-trip through real logs.
type DeletionVectorEntry struct {
	StorageType DeletionVectorStorageType `json:"storageType"`
	// PathOrInlineDV is, for StorageTypeUUID, the base85 encoded UUID
	// optionally preceded by a random alphanumeric sharding prefix.
	PathOrInlineDV string `json:"pathOrInlineDv"`
	// Offset is the byte offset of the vector's size field inside the
	// target file. Present iff StorageType is StorageTypeUUID.
	Offset *int64 `json:"offset,omitempty"`
	// SizeInBytes is the exact length of the encoded bitmap container,
	// excluding the envelope's size field and checksum.
	SizeInBytes int64 `json:"sizeInBytes"`
	// Cardinality is the count of distinct deleted positions. Readers
	// verify it against the decoded vector.
	Cardinality int64 `json:"cardinality"`
}

// Validate checks the structural invariants of the entry.
func (e DeletionVectorEntry) Validate() error {
	switch e.StorageType {
	case StorageTypeUUID:
		if e.Offset == nil {
			return fmt.Errorf("%w: offset is required for uuid storage", ErrInvalidEntry)
		}
		if *e.Offset < 0 {
			return fmt.Errorf("%w: offset must be non-negative: %d", ErrInvalidEntry, *e.Offset)
		}
	case StorageTypePath, StorageTypeInline:
		if e.Offset != nil {
			return fmt.Errorf("%w: offset is only valid for uuid storage", ErrInvalidEntry)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownStorageType, int(e.StorageType))
	}

	if e.SizeInBytes <= 0 {
		return fmt.Errorf("%w: sizeInBytes must be positive: %d", ErrInvalidEntry, e.SizeInBytes)
	}
	if e.Cardinality <= 0 {
		return fmt.Errorf("%w: cardinality must be positive: %d", ErrInvalidEntry, e.Cardinality)
	}

	return nil
}
