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
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delta-io/delta-go/internal"
)

func openBytes(content []byte) *internal.MockFile {
	return &internal.MockFile{Contents: bytes.NewReader(content)}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := []byte("deletion vector payload bytes")

	var buf bytes.Buffer
	offset, err := appendEnvelope(&buf, 0, payload)
	require.NoError(t, err)
	assert.EqualValues(t, 1, offset, "offset points at the size field, right after the version byte")
	assert.Len(t, buf.Bytes(), 1+envelopeSizeFieldBytes+len(payload)+envelopeChecksumFieldBytes)
	assert.Equal(t, formatVersionV1, buf.Bytes()[0])

	got, err := readEnvelope(openBytes(buf.Bytes()), offset, int64(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEnvelopeFraming(t *testing.T) {
	payload := []byte{0xca, 0xfe}

	var buf bytes.Buffer
	_, err := appendEnvelope(&buf, 0, payload)
	require.NoError(t, err)

	raw := buf.Bytes()
	// Size and checksum fields are big-endian; only the container
	// payload between them is little-endian.
	assert.EqualValues(t, len(payload), binary.BigEndian.Uint32(raw[1:5]))
	assert.Equal(t, crc32.ChecksumIEEE(payload), binary.BigEndian.Uint32(raw[len(raw)-4:]))
}

func TestEnvelopeSharedFile(t *testing.T) {
	// Several envelopes appended to one target file, each addressed by
	// its own offset.
	payloads := [][]byte{
		[]byte("first"),
		[]byte("the second payload"),
		[]byte("3rd"),
	}

	var buf bytes.Buffer
	offsets := make([]int64, len(payloads))
	for i, payload := range payloads {
		offset, err := appendEnvelope(&buf, int64(buf.Len()), payload)
		require.NoError(t, err)
		offsets[i] = offset
	}

	for i, payload := range payloads {
		got, err := readEnvelope(openBytes(buf.Bytes()), offsets[i], int64(len(payload)))
		require.NoError(t, err)
		assert.Equal(t, payload, got)
	}
}

func TestEnvelopeSizeMismatch(t *testing.T) {
	payload := []byte("some payload")

	var buf bytes.Buffer
	offset, err := appendEnvelope(&buf, 0, payload)
	require.NoError(t, err)

	// The descriptor disagrees with the stored size field. The read
	// must fail before any checksum verification happens.
	_, err = readEnvelope(openBytes(buf.Bytes()), offset, int64(len(payload))-1)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.NotErrorIs(t, err, ErrChecksumMismatch)
}

func TestEnvelopeChecksumDetectsCorruption(t *testing.T) {
	payload := []byte("payload that will get corrupted")

	var buf bytes.Buffer
	offset, err := appendEnvelope(&buf, 0, payload)
	require.NoError(t, err)
	pristine := buf.Bytes()

	// Flipping any single payload byte must surface as a checksum
	// mismatch.
	payloadStart := 1 + envelopeSizeFieldBytes
	for i := range payload {
		corrupted := bytes.Clone(pristine)
		corrupted[payloadStart+i] ^= 0xff

		_, err := readEnvelope(openBytes(corrupted), offset, int64(len(payload)))
		assert.ErrorIs(t, err, ErrChecksumMismatch, "corrupted payload byte %d", i)
	}

	// A corrupted stored checksum is indistinguishable from corrupted
	// data and fails the same way.
	corrupted := bytes.Clone(pristine)
	corrupted[len(corrupted)-1] ^= 0x01
	_, err = readEnvelope(openBytes(corrupted), offset, int64(len(payload)))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestEnvelopeShortFile(t *testing.T) {
	payload := []byte("payload")

	var buf bytes.Buffer
	offset, err := appendEnvelope(&buf, 0, payload)
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err = readEnvelope(openBytes(truncated), offset, int64(len(payload)))
	assert.Error(t, err)
}
