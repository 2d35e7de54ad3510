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
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Portable serialization of a deletion vector bitmap, wire-compatible
// with the "portable roaring bitmap" layout of the Delta table format:
//
//	[magic:4][bitmap count:8][bitmap key:4][bitmap payload]...
//
// all little-endian. This implementation always writes a single
// (key=0, bitmap) pair; the count field is deliberately oversized for
// forward compatibility with larger containers, and the read path
// accepts any declared number of pairs.
const portableRoaringBitmapMagicNumber = int32(1681511377)

const (
	magicNumberByteSize  = 4
	bitmapCountByteSize  = 8
	bitmapKeyByteSize    = 4
	containerHeaderBytes = magicNumberByteSize + bitmapCountByteSize + bitmapKeyByteSize
)

// serializedSize returns the exact byte length serializeBitmap will
// produce for the bitmap.
func serializedSize(bitmap *roaring.Bitmap) int64 {
	return containerHeaderBytes + int64(bitmap.GetSerializedSizeInBytes())
}

// serializeBitmap encodes the bitmap into the portable container
// layout with a single embedded segment.
func serializeBitmap(bitmap *roaring.Bitmap) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(serializedSize(bitmap)))

	var header [containerHeaderBytes]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(portableRoaringBitmapMagicNumber))
	binary.LittleEndian.PutUint64(header[4:12], 1)
	binary.LittleEndian.PutUint32(header[12:16], 0)
	buf.Write(header[:])

	if _, err := bitmap.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize deletion vector bitmap: %w", err)
	}

	return buf.Bytes(), nil
}

// deserializePositionSet decodes a portable container, unioning every
// embedded bitmap into one position set. Unlike the write path it
// tolerates multiple (key, bitmap) pairs so that containers produced
// by other implementations decode correctly.
func deserializePositionSet(data []byte) (*PositionSet, error) {
	r := bytes.NewReader(data)

	var magic int32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: reading magic number: %w", ErrMalformedSerialized, err)
	}
	if magic != portableRoaringBitmapMagicNumber {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrInvalidMagic, portableRoaringBitmapMagicNumber, magic)
	}

	var count int64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading bitmap count: %w", ErrMalformedSerialized, err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: bitmap count must not be negative: %d", ErrMalformedSerialized, count)
	}

	positions := NewPositionSet()
	for i := int64(0); i < count; i++ {
		var key int32
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return nil, fmt.Errorf("%w: reading key of bitmap %d: %w", ErrMalformedSerialized, i, err)
		}
		if key < 0 {
			return nil, fmt.Errorf("%w: key must not be negative: %d", ErrMalformedSerialized, key)
		}

		// ReadFrom consumes exactly the serialized bytes of one
		// bitmap, leaving the reader at the next key.
		bitmap := roaring.New()
		if _, err := bitmap.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("%w: reading bitmap %d: %w", ErrMalformedSerialized, i, err)
		}

		// The key carries the high 32 bits of the positions in this
		// segment; segment 0 holds the ordinals below 2^32.
		it := bitmap.Iterator()
		for it.HasNext() {
			positions.Add(uint64(key)<<32 | uint64(it.Next()))
		}
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after %d bitmaps", ErrMalformedSerialized, r.Len(), count)
	}

	return positions, nil
}
