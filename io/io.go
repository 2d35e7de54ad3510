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

// Package io provides the file system abstraction used by the rest of
// the module for reading and writing table files such as deletion
// vectors. Implementations exist for the local file system, an
// in-memory store, and S3-compatible object storage.
package io

import (
	"io"
	"io/fs"
)

// File is the interface for readable files. It exposes random access
// reads on top of the usual sequential interface so that callers can
// fetch a byte range (for example a single deletion vector inside a
// larger file) without streaming the whole object.
type File interface {
	fs.File
	io.ReadSeekCloser
	io.ReaderAt
}

// FileWriter is the interface for writable files. The written content
// is only guaranteed to be visible to readers after Close returns.
type FileWriter interface {
	io.Writer
	io.Closer
}

// IO is the minimal interface for interacting with a storage backend.
type IO interface {
	// Open opens the named file for reading.
	Open(name string) (File, error)
	// Remove removes the named file.
	Remove(name string) error
}

// ReadFileIO is implemented by backends that can slurp an entire file
// in a single call.
type ReadFileIO interface {
	IO

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)
}

// WriteFileIO is implemented by backends that support creating files.
type WriteFileIO interface {
	IO

	// Create creates the named file for writing, truncating any
	// existing file.
	Create(name string) (FileWriter, error)
	// WriteFile writes content to the named file in one call.
	WriteFile(name string, content []byte) error
}
