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
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/delta-io/delta-go/io"
	"github.com/delta-io/delta-go/table"
)

// WriteOption configures WriteDeletionVector.
type WriteOption func(*writeConfig)

type writeConfig struct {
	randomPrefixLength int
}

// WithRandomPrefixLength makes the writer place the vector file under
// a random alphanumeric prefix of the given length, spreading files
// across storage partitions. The prefix becomes part of the
// descriptor's pathOrInlineDv.
func WithRandomPrefixLength(length int) WriteOption {
	return func(cfg *writeConfig) {
		cfg.randomPrefixLength = length
	}
}

const randomPrefixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func randomAlphanumeric(length int) (string, error) {
	if length == 0 {
		return "", nil
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random prefix: %w", err)
	}
	for i, b := range buf {
		buf[i] = randomPrefixAlphabet[int(b)%len(randomPrefixAlphabet)]
	}

	return string(buf), nil
}

func joinLocation(location, name string) string {
	if location == "" {
		return name
	}

	return strings.TrimSuffix(location, "/") + "/" + name
}

// WriteDeletionVector merges the previously persisted vector with the
// positions newly deleted by a DELETE and by an UPDATE (updates delete
// the old row version), persists the union as a fresh randomly named
// file under location, and returns the descriptor to be recorded in
// the transaction log.
//
// Every call writes a brand-new file, so concurrent writers never
// contend on a target and need no coordination. An empty merge result
// is rejected: an empty vector is never persisted.
func WriteDeletionVector(fsys io.WriteFileIO, location string, past, deletedByDelete, deletedByUpdate *PositionSet, opts ...WriteOption) (table.DeletionVectorEntry, error) {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	merged, err := mergeToBitmap(past, deletedByDelete, deletedByUpdate)
	if err != nil {
		return table.DeletionVectorEntry{}, err
	}

	data, err := serializeBitmap(merged)
	if err != nil {
		return table.DeletionVectorEntry{}, err
	}

	sizeInBytes := int64(len(data))
	cardinality := int64(merged.GetCardinality())
	if sizeInBytes <= 0 {
		return table.DeletionVectorEntry{}, fmt.Errorf("%w: sizeInBytes must be positive: %d", ErrEmptyDeletionVector, sizeInBytes)
	}
	if cardinality <= 0 {
		return table.DeletionVectorEntry{}, fmt.Errorf("%w: cardinality must be positive: %d", ErrEmptyDeletionVector, cardinality)
	}

	prefix, err := randomAlphanumeric(cfg.randomPrefixLength)
	if err != nil {
		return table.DeletionVectorEntry{}, err
	}

	pathOrInlineDV := prefix + EncodeUUID(uuid.New())
	fileName, err := DeletionVectorFileName(pathOrInlineDV)
	if err != nil {
		return table.DeletionVectorEntry{}, err
	}

	out, err := fsys.Create(joinLocation(location, fileName))
	if err != nil {
		return table.DeletionVectorEntry{}, fmt.Errorf("create deletion vector file %s: %w", fileName, err)
	}

	offset, err := appendEnvelope(out, 0, data)
	if err != nil {
		out.Close()

		return table.DeletionVectorEntry{}, err
	}
	if err := out.Close(); err != nil {
		return table.DeletionVectorEntry{}, fmt.Errorf("close deletion vector file %s: %w", fileName, err)
	}

	return table.DeletionVectorEntry{
		StorageType:    table.StorageTypeUUID,
		PathOrInlineDV: pathOrInlineDV,
		Offset:         &offset,
		SizeInBytes:    sizeInBytes,
		Cardinality:    cardinality,
	}, nil
}

// ReadDeletionVector resolves a transaction log descriptor against the
// storage abstraction and reconstructs the position set it references,
// verifying the envelope's size and checksum as well as the
// descriptor's recorded cardinality along the way.
func ReadDeletionVector(fsys io.IO, location string, entry table.DeletionVectorEntry) (*PositionSet, error) {
	switch entry.StorageType {
	case table.StorageTypeUUID:
		// handled below
	case table.StorageTypePath, table.StorageTypeInline:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStorageType, entry.StorageType)
	default:
		return nil, fmt.Errorf("%w: %d", table.ErrUnknownStorageType, int(entry.StorageType))
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	fileName, err := DeletionVectorFileName(entry.PathOrInlineDV)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(joinLocation(location, fileName))
	if err != nil {
		return nil, fmt.Errorf("open deletion vector file %s: %w", fileName, err)
	}
	defer f.Close()

	payload, err := readEnvelope(f, *entry.Offset, entry.SizeInBytes)
	if err != nil {
		return nil, err
	}

	positions, err := deserializePositionSet(payload)
	if err != nil {
		return nil, err
	}

	if decoded := int64(positions.Cardinality()); decoded != entry.Cardinality {
		return nil, fmt.Errorf("%w: the number of deleted rows expects %d but got %d", ErrCardinalityMismatch, entry.Cardinality, decoded)
	}

	return positions, nil
}
