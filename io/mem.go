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

package io

import (
	"bytes"
	"io/fs"
	"strings"
	"sync"
	"time"
)

// MemFS is an in-memory implementation of IO, registered under the
// "mem" scheme. A completed Create/WriteFile is visible in full to
// subsequent readers, mirroring the object-store visibility guarantee
// that callers rely on. Useful for tests.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func memKey(name string) string {
	return strings.TrimPrefix(name, "mem://")
}

func (m *MemFS) Open(name string) (File, error) {
	key := memKey(name)
	m.mu.RLock()
	content, ok := m.files[key]
	m.mu.RUnlock()
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	return &memFile{name: key, Reader: bytes.NewReader(content)}, nil
}

func (m *MemFS) Create(name string) (FileWriter, error) {
	return &memFileWriter{fs: m, name: memKey(name)}, nil
}

func (m *MemFS) WriteFile(name string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[memKey(name)] = bytes.Clone(content)

	return nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	key := memKey(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[key]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}

	return bytes.Clone(content), nil
}

func (m *MemFS) Remove(name string) error {
	key := memKey(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[key]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(m.files, key)

	return nil
}

type memFile struct {
	name string
	*bytes.Reader
}

func (f *memFile) Close() error { return nil }

func (f *memFile) Stat() (fs.FileInfo, error) {
	return memFileInfo{name: f.name, size: f.Size()}, nil
}

type memFileInfo struct {
	name string
	size int64
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() fs.FileMode  { return fs.ModeIrregular }
func (fi memFileInfo) ModTime() time.Time { return time.Time{} }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() any           { return nil }

// memFileWriter buffers writes and publishes the file on Close.
type memFileWriter struct {
	fs   *MemFS
	name string
	buf  bytes.Buffer
}

func (w *memFileWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memFileWriter) Close() error {
	return w.fs.WriteFile(w.name, w.buf.Bytes())
}
