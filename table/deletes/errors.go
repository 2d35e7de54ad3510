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

import "errors"

// Errors fall into three classes. Corruption errors mean the stored
// bytes disagree with the descriptor or with themselves; they are
// terminal for the call and never retried here. Unsupported errors
// mean the log references a storage variant this implementation does
// not handle, which is distinct from broken data. Validation errors
// mean the caller constructed bad input and fail before any I/O.
var (
	// Corruption.
	ErrInvalidMagic          = errors.New("invalid deletion vector magic number")
	ErrSizeMismatch          = errors.New("deletion vector size mismatch")
	ErrChecksumMismatch      = errors.New("deletion vector checksum mismatch")
	ErrCardinalityMismatch   = errors.New("deletion vector cardinality mismatch")
	ErrMalformedSerialized   = errors.New("malformed serialized deletion vector")

	// Unsupported feature.
	ErrUnsupportedStorageType = errors.New("unsupported storage type for deletion vector")

	// Validation.
	ErrInvalidEncodedID    = errors.New("invalid encoded deletion vector identifier")
	ErrInvalidRandomPrefix = errors.New("random prefix must be alphanumeric")
	ErrPositionOutOfRange  = errors.New("row position out of range")
	ErrEmptyDeletionVector = errors.New("deletion vector must not be empty")
)
