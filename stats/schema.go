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

package stats

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tablestats/rgfilter"
)

// PhysicalColumn is a leaf column as stored in a data file. Path is the
// dotted name inside the file, which can differ from the logical name.
type PhysicalColumn struct {
	ID   int
	Path string
	Type string
}

func (c PhysicalColumn) String() string {
	return fmt.Sprintf("%d: %s (%s)", c.ID, c.Path, c.Type)
}

// PhysicalSchema is the set of columns a data file actually contains,
// identified by the same field IDs as the logical schema.
type PhysicalSchema struct {
	columns []PhysicalColumn
	byID    map[int]int
}

// NewPhysicalSchema returns an error wrapping rgfilter.ErrInvalidSchema if
// two columns share an ID.
func NewPhysicalSchema(cols ...PhysicalColumn) (*PhysicalSchema, error) {
	p := &PhysicalSchema{columns: cols, byID: make(map[int]int, len(cols))}
	for i, c := range cols {
		if prev, ok := p.byID[c.ID]; ok {
			return nil, fmt.Errorf("%w: field id %d used by both '%s' and '%s'",
				rgfilter.ErrInvalidSchema, c.ID, cols[prev].Path, c.Path)
		}
		p.byID[c.ID] = i
	}

	return p, nil
}

// MustPhysicalSchema is like NewPhysicalSchema but panics on error.
func MustPhysicalSchema(cols ...PhysicalColumn) *PhysicalSchema {
	p, err := NewPhysicalSchema(cols...)
	if err != nil {
		panic(err)
	}

	return p
}

func (p *PhysicalSchema) NumColumns() int           { return len(p.columns) }
func (p *PhysicalSchema) Columns() []PhysicalColumn { return slices.Clone(p.columns) }

func (p *PhysicalSchema) Column(id int) (PhysicalColumn, bool) {
	if p == nil {
		return PhysicalColumn{}, false
	}

	i, ok := p.byID[id]
	if !ok {
		return PhysicalColumn{}, false
	}

	return p.columns[i], true
}

func (p *PhysicalSchema) String() string {
	var b strings.Builder
	b.WriteString("physical {")
	for _, c := range p.columns {
		b.WriteString("\n\t")
		b.WriteString(c.String())
	}
	b.WriteString("\n}")

	return b.String()
}

// Accessor resolves the statistics of a single block by field ID.
// Names never take part in the lookup.
type Accessor struct {
	physical *PhysicalSchema
	block    *BlockMetadata
}

func NewAccessor(physical *PhysicalSchema, block *BlockMetadata) Accessor {
	return Accessor{physical: physical, block: block}
}

// HasColumn reports whether the data file contains the column at all.
func (a Accessor) HasColumn(fieldID int) bool {
	_, ok := a.physical.Column(fieldID)

	return ok
}

// MetricsFor returns the metrics of the column, or false when the column
// is not in the file or the block carries no metrics for it.
func (a Accessor) MetricsFor(fieldID int) (ColumnMetrics, bool) {
	if a.block == nil || !a.HasColumn(fieldID) {
		return ColumnMetrics{}, false
	}

	m, ok := a.block.Columns[fieldID]

	return m, ok
}
