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
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/delta-io/delta-go/table"
	"github.com/delta-io/delta-go/table/deletes"
)

func errNotWritable(location string) error {
	return fmt.Errorf("file system for %q does not support writes", location)
}

type vectorStats struct {
	Entry       table.DeletionVectorEntry `json:"entry"`
	Cardinality uint64                    `json:"cardinality,omitempty"`
	Err         error                     `json:"error,omitempty"`
}

// Output drives the command line output formats.
type Output interface {
	Entry(entry table.DeletionVectorEntry, positions *deletes.PositionSet)
	Positions(positions *deletes.PositionSet)
	Written(entry table.DeletionVectorEntry)
	Stats(stats []vectorStats)
	Text(val string)
	Error(err error)
}

type textOutput struct{}

func (textOutput) Entry(entry table.DeletionVectorEntry, positions *deletes.PositionSet) {
	offset := ""
	if entry.Offset != nil {
		offset = strconv.FormatInt(*entry.Offset, 10)
	}
	propData := pterm.TableData{
		{"key", "value"},
		{"storage-type", entry.StorageType.String()},
		{"path-or-inline-dv", entry.PathOrInlineDV},
		{"offset", offset},
		{"size-in-bytes", strconv.FormatInt(entry.SizeInBytes, 10)},
		{"cardinality", strconv.FormatInt(entry.Cardinality, 10)},
		{"decoded-cardinality", strconv.FormatUint(positions.Cardinality(), 10)},
	}

	if err := pterm.DefaultTable.WithHasHeader(true).WithData(propData).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

func (textOutput) Positions(positions *deletes.PositionSet) {
	for pos := range positions.All() {
		fmt.Println(pos)
	}
}

func (textOutput) Written(entry table.DeletionVectorEntry) {
	name, err := deletes.DeletionVectorFileName(entry.PathOrInlineDV)
	if err != nil {
		pterm.Error.Println(err)

		return
	}
	pterm.Printfln("wrote %s (%d bytes, cardinality %d)",
		name, entry.SizeInBytes, entry.Cardinality)
}

func (textOutput) Stats(stats []vectorStats) {
	data := pterm.TableData{{"descriptor", "size-in-bytes", "cardinality", "status"}}
	var total uint64
	for _, s := range stats {
		status := "ok"
		if s.Err != nil {
			status = s.Err.Error()
		} else {
			total += s.Cardinality
		}
		data = append(data, []string{
			s.Entry.PathOrInlineDV,
			strconv.FormatInt(s.Entry.SizeInBytes, 10),
			strconv.FormatUint(s.Cardinality, 10),
			status,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader(true).WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
	pterm.Printfln("total deleted positions: %d", total)
}

func (textOutput) Text(val string) {
	fmt.Println(val)
}

func (textOutput) Error(err error) {
	pterm.Error.Println(err)
}

type jsonOutput struct{}

func (jsonOutput) printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (j jsonOutput) Entry(entry table.DeletionVectorEntry, positions *deletes.PositionSet) {
	j.printJSON(struct {
		Entry              table.DeletionVectorEntry `json:"entry"`
		DecodedCardinality uint64                    `json:"decodedCardinality"`
	}{entry, positions.Cardinality()})
}

func (j jsonOutput) Positions(positions *deletes.PositionSet) {
	out := make([]uint64, 0, positions.Cardinality())
	for pos := range positions.All() {
		out = append(out, pos)
	}
	j.printJSON(out)
}

func (j jsonOutput) Written(entry table.DeletionVectorEntry) {
	j.printJSON(entry)
}

func (j jsonOutput) Stats(stats []vectorStats) {
	out := make([]map[string]any, 0, len(stats))
	for _, s := range stats {
		m := map[string]any{
			"entry":       s.Entry,
			"cardinality": s.Cardinality,
		}
		if s.Err != nil {
			m["error"] = s.Err.Error()
		}
		out = append(out, m)
	}
	j.printJSON(out)
}

func (j jsonOutput) Text(val string) {
	j.printJSON(map[string]string{"result": val})
}

func (j jsonOutput) Error(err error) {
	j.printJSON(map[string]string{"error": err.Error()})
}
