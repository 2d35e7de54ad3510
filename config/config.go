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

// Package config loads the CLI configuration file describing the
// warehouses deletion vectors are read from and written to.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	cfgFile           = ".delta-go.yaml"
	defaultMaxWorkers = 5
)

type Config struct {
	DefaultWarehouse string                     `yaml:"default-warehouse"`
	Warehouses       map[string]WarehouseConfig `yaml:"warehouse"`
	MaxWorkers       int                        `yaml:"max-workers"`
}

// WarehouseConfig describes one storage location and the properties
// (credentials, region, endpoint) its IO implementation needs.
type WarehouseConfig struct {
	Location   string            `yaml:"location"`
	Output     string            `yaml:"output"`
	Properties map[string]string `yaml:"properties"`
}

func LoadConfig(configPath string) []byte {
	var path string
	if len(configPath) > 0 {
		path = configPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, cfgFile)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return file
}

func ParseConfig(file []byte, warehouseName string) *WarehouseConfig {
	var config Config
	err := yaml.Unmarshal(file, &config)
	if err != nil {
		return nil
	}
	res, ok := config.Warehouses[warehouseName]
	if !ok {
		return nil
	}

	return &res
}

func fromConfigFiles() Config {
	dir := os.Getenv("DELTAGO_HOME")
	if dir != "" {
		dir = filepath.Join(dir, cfgFile)
	}

	var cfg Config
	if err := yaml.Unmarshal(LoadConfig(dir), &cfg); err != nil {
		return cfg
	}

	if cfg.DefaultWarehouse == "" {
		cfg.DefaultWarehouse = "default"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}

	return cfg
}

var EnvConfig = fromConfigFiles()
