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

	"github.com/google/uuid"
)

// Base85 codec for deletion vector identifiers, using the 4-byte block
// aligned encoding and character set from Z85 (https://rfc.zeromq.org/spec/32/).
// A 16-byte UUID always encodes to exactly encodedUUIDLength characters.

const base85Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#"

// encodedUUIDLength is a protocol constant: the fixed width of a
// base85 encoded 128-bit identifier.
const encodedUUIDLength = 20

const base85 = 85

var base85DecodeMap [256]int16

func init() {
	for i := range base85DecodeMap {
		base85DecodeMap[i] = -1
	}
	for i, c := range []byte(base85Alphabet) {
		base85DecodeMap[c] = int16(i)
	}
}

// EncodeUUID encodes a 128-bit identifier into its fixed-width base85
// text form.
func EncodeUUID(id uuid.UUID) string {
	out := make([]byte, 0, encodedUUIDLength)
	for i := 0; i < len(id); i += 4 {
		word := binary.BigEndian.Uint32(id[i : i+4])
		var block [5]byte
		for j := 4; j >= 0; j-- {
			block[j] = base85Alphabet[word%base85]
			word /= base85
		}
		out = append(out, block[:]...)
	}

	return string(out)
}

// DecodeUUID decodes a fixed-width base85 string back into the 128-bit
// identifier it encodes. It fails with a validation error if the input
// is not exactly encodedUUIDLength characters or contains characters
// outside the alphabet.
func DecodeUUID(encoded string) (uuid.UUID, error) {
	var id uuid.UUID
	if len(encoded) != encodedUUIDLength {
		return id, fmt.Errorf("%w: expected length %d, got %d", ErrInvalidEncodedID, encodedUUIDLength, len(encoded))
	}

	for i := 0; i < encodedUUIDLength; i += 5 {
		// Accumulate in 64 bits and keep the low 32, matching the
		// reference codec: a well-formed encoder never emits a 5-char
		// block above MaxUint32, and rejecting one would break
		// compatibility with descriptors it did write.
		var word uint64
		for j := range 5 {
			c := encoded[i+j]
			digit := base85DecodeMap[c]
			if digit < 0 {
				return id, fmt.Errorf("%w: character %q is not in the base85 alphabet", ErrInvalidEncodedID, c)
			}
			word = word*base85 + uint64(digit)
		}
		binary.BigEndian.PutUint32(id[i/5*4:], uint32(word))
	}

	return id, nil
}

func isASCIIAlphanumeric(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}

	return true
}

// DeletionVectorFileName maps the pathOrInlineDv of a uuid-storage
// descriptor to the relative file name holding the vector. The input
// is an optional random alphanumeric sharding prefix followed by the
// fixed-width encoded UUID; the result is
// "{prefix/}deletion_vector_{uuid}.bin" with the prefix segment
// omitted entirely when the prefix is empty.
func DeletionVectorFileName(pathOrInlineDV string) (string, error) {
	if len(pathOrInlineDV) < encodedUUIDLength {
		return "", fmt.Errorf("%w: %q is shorter than the encoded UUID width %d", ErrInvalidEncodedID, pathOrInlineDV, encodedUUIDLength)
	}

	prefixLen := len(pathOrInlineDV) - encodedUUIDLength
	randomPrefix := pathOrInlineDV[:prefixLen]
	if !isASCIIAlphanumeric(randomPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRandomPrefix, randomPrefix)
	}

	id, err := DecodeUUID(pathOrInlineDV[prefixLen:])
	if err != nil {
		return "", err
	}

	prefix := ""
	if randomPrefix != "" {
		prefix = randomPrefix + "/"
	}

	return fmt.Sprintf("%sdeletion_vector_%s.bin", prefix, id), nil
}
