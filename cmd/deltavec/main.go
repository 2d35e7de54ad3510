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

package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"golang.org/x/sync/errgroup"

	delta "github.com/delta-io/delta-go"
	"github.com/delta-io/delta-go/config"
	"github.com/delta-io/delta-go/io"
	"github.com/delta-io/delta-go/table"
	"github.com/delta-io/delta-go/table/deletes"
)

const usage = `deltavec.

Usage:
  deltavec show [options] ENTRY
  deltavec positions [options] ENTRY
  deltavec write [options] POSITION...
  deltavec stats [options] ENTRIES
  deltavec filename DESCRIPTOR
  deltavec -h | --help | --version

Commands:
  show        Describe a deletion vector from its transaction log entry.
  positions   Print the deleted row positions of a deletion vector.
  write       Write a new deletion vector holding the given positions.
  stats       Aggregate statistics over a file of transaction log entries.
  filename    Resolve the file name a descriptor points at.

Arguments:
  ENTRY        path to a JSON file holding one deletion vector log entry
  ENTRIES      path to a JSON file holding an array of log entries
  POSITION     non-negative row ordinal to mark deleted
  DESCRIPTOR   pathOrInlineDv value of a uuid-storage entry

Options:
  -h --help            show this help message and exit
  --location TEXT      table location the vectors live under
  --warehouse TEXT     pick a warehouse from the configuration file
  --output TYPE        output type (json/text) [default: text]
  --prefix-len N       random sharding prefix length for writes [default: 0]
  --workers N          concurrent reads for stats [default: 0]`

type commandConfig struct {
	Show      bool `docopt:"show"`
	Positions bool `docopt:"positions"`
	Write     bool `docopt:"write"`
	Stats     bool `docopt:"stats"`
	Filename  bool `docopt:"filename"`

	Entry      string   `docopt:"ENTRY"`
	Entries    string   `docopt:"ENTRIES"`
	Position   []string `docopt:"POSITION"`
	Descriptor string   `docopt:"DESCRIPTOR"`

	Location  string `docopt:"--location"`
	Warehouse string `docopt:"--warehouse"`
	Output    string `docopt:"--output"`
	PrefixLen int    `docopt:"--prefix-len"`
	Workers   int    `docopt:"--workers"`
}

func main() {
	ctx := context.Background()

	args, err := docopt.ParseArgs(usage, os.Args[1:], delta.Version())
	if err != nil {
		log.Fatal(err)
	}

	cfg := commandConfig{}
	if err := args.Bind(&cfg); err != nil {
		log.Fatal(err)
	}

	var output Output
	switch strings.ToLower(cfg.Output) {
	case "text":
		output = textOutput{}
	case "json":
		output = jsonOutput{}
	default:
		log.Fatal("output type must be either `text` or `json`")
	}

	if err := run(ctx, cfg, output); err != nil {
		output.Error(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg commandConfig, output Output) error {
	switch {
	case cfg.Filename:
		name, err := deletes.DeletionVectorFileName(cfg.Descriptor)
		if err != nil {
			return err
		}
		output.Text(name)

		return nil
	case cfg.Show, cfg.Positions:
		entry, err := loadEntry(cfg.Entry)
		if err != nil {
			return err
		}
		location, fsys, err := warehouseFS(ctx, cfg)
		if err != nil {
			return err
		}
		positions, err := deletes.ReadDeletionVector(fsys, location, entry)
		if err != nil {
			return err
		}
		if cfg.Show {
			output.Entry(entry, positions)
		} else {
			output.Positions(positions)
		}

		return nil
	case cfg.Write:
		return runWrite(ctx, cfg, output)
	case cfg.Stats:
		return runStats(ctx, cfg, output)
	}

	return nil
}

func runWrite(ctx context.Context, cfg commandConfig, output Output) error {
	toDelete := deletes.NewPositionSet()
	for _, arg := range cfg.Position {
		pos, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return err
		}
		toDelete.Add(pos)
	}

	location, fsys, err := warehouseFS(ctx, cfg)
	if err != nil {
		return err
	}
	wfs, ok := fsys.(io.WriteFileIO)
	if !ok {
		return errNotWritable(location)
	}

	entry, err := deletes.WriteDeletionVector(wfs, location, nil, toDelete, nil,
		deletes.WithRandomPrefixLength(cfg.PrefixLen))
	if err != nil {
		return err
	}
	output.Written(entry)

	return nil
}

func runStats(ctx context.Context, cfg commandConfig, output Output) error {
	content, err := os.ReadFile(cfg.Entries)
	if err != nil {
		return err
	}
	var entries []table.DeletionVectorEntry
	if err := json.Unmarshal(content, &entries); err != nil {
		return err
	}

	location, fsys, err := warehouseFS(ctx, cfg)
	if err != nil {
		return err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = config.EnvConfig.MaxWorkers
	}

	results := make([]vectorStats, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, entry := range entries {
		g.Go(func() error {
			positions, err := deletes.ReadDeletionVector(fsys, location, entry)
			if err != nil {
				results[i] = vectorStats{Entry: entry, Err: err}

				return nil
			}
			results[i] = vectorStats{Entry: entry, Cardinality: positions.Cardinality()}

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	output.Stats(results)

	return nil
}

func loadEntry(path string) (table.DeletionVectorEntry, error) {
	var entry table.DeletionVectorEntry
	content, err := os.ReadFile(path)
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(content, &entry); err != nil {
		return entry, err
	}

	return entry, entry.Validate()
}

func warehouseFS(ctx context.Context, cfg commandConfig) (string, io.IO, error) {
	location := cfg.Location
	props := map[string]string{}

	name := cfg.Warehouse
	if name == "" {
		name = config.EnvConfig.DefaultWarehouse
	}
	if wh, ok := config.EnvConfig.Warehouses[name]; ok {
		if location == "" {
			location = wh.Location
		}
		props = wh.Properties
	}

	fsys, err := io.LoadFS(ctx, props, location)
	if err != nil {
		return "", nil, err
	}

	return location, fsys, nil
}
