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
	"encoding/binary"
	"fmt"
	"hash/crc32"
	sio "io"

	"github.com/delta-io/delta-go/io"
)

// The on-disk envelope frames a serialized container so it can be
// validated when read back out of a shared file:
//
//	[format version:1][payload size:4][payload][crc32:4]
//
// A descriptor's offset points at the payload size field, i.e. the
// byte immediately after the version byte. The size and checksum
// fields are big-endian: the container payload between them is
// little-endian, but the framing matches the reference writer
// (Java DataOutputStream semantics) and interoperability requires
// reproducing it bit-exactly.
const formatVersionV1 = byte(1)

const (
	envelopeSizeFieldBytes     = 4
	envelopeChecksumFieldBytes = 4
)

// checksum computes CRC-32 (IEEE) over the payload bytes only, not the
// version byte or size field. The 32-bit wraparound of the running sum
// is intentional and part of the format.
func checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// appendEnvelope writes the framed payload to w, which must be
// positioned at startOffset of the target file, and returns the offset
// of the size field to be recorded in the descriptor.
func appendEnvelope(w sio.Writer, startOffset int64, payload []byte) (offset int64, err error) {
	if _, err := w.Write([]byte{formatVersionV1}); err != nil {
		return 0, fmt.Errorf("write deletion vector version byte: %w", err)
	}
	offset = startOffset + 1

	var sizeField [envelopeSizeFieldBytes]byte
	binary.BigEndian.PutUint32(sizeField[:], uint32(len(payload)))
	if _, err := w.Write(sizeField[:]); err != nil {
		return 0, fmt.Errorf("write deletion vector size: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return 0, fmt.Errorf("write deletion vector payload: %w", err)
	}

	var checksumField [envelopeChecksumFieldBytes]byte
	binary.BigEndian.PutUint32(checksumField[:], checksum(payload))
	if _, err := w.Write(checksumField[:]); err != nil {
		return 0, fmt.Errorf("write deletion vector checksum: %w", err)
	}

	return offset, nil
}

// readEnvelope reads a framed payload of the given expected size at
// offset, verifying the stored size against the descriptor before the
// checksum so that a corrupt length never drives the payload read.
func readEnvelope(f io.File, offset int64, expectedSize int64) ([]byte, error) {
	framed := make([]byte, envelopeSizeFieldBytes+expectedSize+envelopeChecksumFieldBytes)
	if _, err := f.ReadAt(framed, offset); err != nil {
		return nil, fmt.Errorf("read deletion vector at offset %d: %w", offset, err)
	}

	actualSize := int64(int32(binary.BigEndian.Uint32(framed[:envelopeSizeFieldBytes])))
	if actualSize != expectedSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrSizeMismatch, expectedSize, actualSize)
	}

	payload := framed[envelopeSizeFieldBytes : envelopeSizeFieldBytes+expectedSize]
	stored := binary.BigEndian.Uint32(framed[envelopeSizeFieldBytes+expectedSize:])
	if computed := checksum(payload); computed != stored {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrChecksumMismatch, stored, computed)
	}

	return payload, nil
}
