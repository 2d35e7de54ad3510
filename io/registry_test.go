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

package io_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delta-io/delta-go/io"
)

func TestLoadFSDefaultSchemes(t *testing.T) {
	ctx := context.Background()

	fsys, err := io.LoadFS(ctx, nil, "file:///tmp/warehouse")
	require.NoError(t, err)
	assert.IsType(t, io.LocalFS{}, fsys)

	fsys, err = io.LoadFS(ctx, nil, "/tmp/warehouse")
	require.NoError(t, err)
	assert.IsType(t, io.LocalFS{}, fsys)

	fsys, err = io.LoadFS(ctx, nil, "mem://warehouse")
	require.NoError(t, err)
	assert.IsType(t, &io.MemFS{}, fsys)
}

func TestLoadFSUnknownScheme(t *testing.T) {
	_, err := io.LoadFS(context.Background(), nil, "gopher://warehouse")
	assert.ErrorContains(t, err, "not implemented")
}

func TestLoadFSWarehouseProperty(t *testing.T) {
	fsys, err := io.LoadFS(context.Background(), map[string]string{"warehouse": "mem://wh"}, "")
	require.NoError(t, err)
	assert.IsType(t, &io.MemFS{}, fsys)
}

func TestRegisterCustomScheme(t *testing.T) {
	custom := io.NewMemFS()
	io.Register("custom", func(ctx context.Context, parsed *url.URL, props map[string]string) (io.IO, error) {
		return custom, nil
	})
	defer io.Unregister("custom")

	assert.Contains(t, io.GetRegisteredSchemes(), "custom")

	fsys, err := io.LoadFS(context.Background(), nil, "custom://x")
	require.NoError(t, err)
	assert.Same(t, custom, fsys)
}
