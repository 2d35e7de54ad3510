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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testArgs = []struct {
	file     []byte
	name     string
	expected *WarehouseConfig
}{
	// config file does not exist
	{nil, "default", nil},
	// config does not have the default warehouse
	{[]byte(`
warehouse:
  custom-warehouse:
    location: s3://bucket/wh
    output: text
`), "default", nil},
	// default warehouse
	{
		[]byte(`
warehouse:
  default:
    location: s3://bucket/wh
    output: text
    properties:
      s3.region: us-east-1
`), "default",
		&WarehouseConfig{
			Location:   "s3://bucket/wh",
			Output:     "text",
			Properties: map[string]string{"s3.region": "us-east-1"},
		},
	},
	// custom warehouse
	{
		[]byte(`
warehouse:
  custom-warehouse:
    location: file:///tmp/wh
    output: json
`), "custom-warehouse",
		&WarehouseConfig{
			Location: "file:///tmp/wh",
			Output:   "json",
		},
	},
	// malformed yaml
	{[]byte(`warehouse: [`), "default", nil},
}

func TestParseConfig(t *testing.T) {
	for _, arg := range testArgs {
		assert.Equal(t, arg.expected, ParseConfig(arg.file, arg.name))
	}
}
