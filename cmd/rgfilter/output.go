// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.


package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/tablestats/rgfilter/rowgroup"
	"github.com/tablestats/rgfilter/stats"
)

type Output interface {
	Decisions([]rowgroup.Decision, rowgroup.Summary)
	Stats([]stats.FileStats)
	Text(string)
	Error(error)
}

type textOutput struct{}

func (textOutput) Decisions(decisions []rowgroup.Decision, summary rowgroup.Summary) {
	data := pterm.TableData{{"File", "Block", "Rows", "Decision"}}
	for _, d := range decisions {
		action := "skip"
		if d.Read {
			action = "read"
		}
		data = append(data, []string{d.Path, strconv.Itoa(d.Ordinal),
			strconv.FormatUint(d.RowCount, 10), action})
	}

	pterm.DefaultTable.
		WithHasHeader(true).
		WithHeaderRowSeparator("-").
		WithData(data).Render()

	pterm.Printfln("%d of %d blocks read, %d rows skipped",
		summary.BlocksRead, summary.Blocks, summary.RowsSkipped)
}

func (textOutput) Stats(files []stats.FileStats) {
	for _, f := range files {
		pterm.Printfln("%s: %d blocks, %d rows", f.Path, len(f.Blocks), f.NumRows())

		data := pterm.TableData{{"Block", "Rows", "Column", "Values", "Nulls", "Min", "Max"}}
		for _, b := range f.Blocks {
			for _, col := range f.Schema.Columns() {
				cm, ok := b.Columns[col.ID]
				if !ok {
					continue
				}

				data = append(data, []string{
					strconv.Itoa(b.Ordinal), strconv.FormatUint(b.RowCount, 10),
					col.Path, strconv.FormatUint(cm.ValueCount, 10),
					nullsText(cm), boundText(cm.Min), boundText(cm.Max),
				})
			}
		}

		pterm.DefaultTable.
			WithHasHeader(true).
			WithHeaderRowSeparator("-").
			WithData(data).Render()
	}
}

func nullsText(cm stats.ColumnMetrics) string {
	if !cm.HasNullCount {
		return "?"
	}

	return strconv.FormatUint(cm.NullCount, 10)
}

func boundText(lit fmt.Stringer) string {
	if lit == nil {
		return ""
	}

	return lit.String()
}

func (textOutput) Text(val string) {
	pterm.Println(val)
}

func (textOutput) Error(err error) {
	pterm.Error.Println(err)
}

type jsonOutput struct{}

func (jsonOutput) write(v any) {
	if err := json.NewEncoder(os.Stdout).Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (j jsonOutput) Decisions(decisions []rowgroup.Decision, summary rowgroup.Summary) {
	if decisions == nil {
		decisions = []rowgroup.Decision{}
	}

	j.write(struct {
		Decisions []rowgroup.Decision `json:"decisions"`
		Summary   rowgroup.Summary    `json:"summary"`
	}{decisions, summary})
}

type jsonColumn struct {
	ID     int     `json:"id"`
	Path   string  `json:"path"`
	Type   string  `json:"type"`
	Values uint64  `json:"values"`
	Nulls  *uint64 `json:"nulls,omitempty"`
	Min    string  `json:"min,omitempty"`
	Max    string  `json:"max,omitempty"`
}

type jsonBlock struct {
	Ordinal int          `json:"block"`
	Rows    uint64       `json:"rows"`
	Columns []jsonColumn `json:"columns"`
}

type jsonFile struct {
	Path   string      `json:"path"`
	Rows   uint64      `json:"rows"`
	Blocks []jsonBlock `json:"blocks"`
}

func (j jsonOutput) Stats(files []stats.FileStats) {
	out := make([]jsonFile, 0, len(files))
	for _, f := range files {
		jf := jsonFile{Path: f.Path, Rows: f.NumRows(), Blocks: []jsonBlock{}}
		for _, b := range f.Blocks {
			jb := jsonBlock{Ordinal: b.Ordinal, Rows: b.RowCount, Columns: []jsonColumn{}}
			for _, col := range f.Schema.Columns() {
				cm, ok := b.Columns[col.ID]
				if !ok {
					continue
				}

				jc := jsonColumn{
					ID: col.ID, Path: col.Path, Type: col.Type,
					Values: cm.ValueCount, Min: boundText(cm.Min), Max: boundText(cm.Max),
				}
				if cm.HasNullCount {
					jc.Nulls = &cm.NullCount
				}
				jb.Columns = append(jb.Columns, jc)
			}
			jf.Blocks = append(jf.Blocks, jb)
		}
		out = append(out, jf)
	}

	j.write(struct {
		Files []jsonFile `json:"files"`
	}{out})
}

func (j jsonOutput) Text(val string) {
	j.write(struct {
		Message string `json:"message"`
	}{val})
}

func (j jsonOutput) Error(err error) {
	j.write(struct {
		Error string `json:"error"`
	}{err.Error()})
}
