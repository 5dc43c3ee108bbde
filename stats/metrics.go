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

// Package stats holds the per-block column statistics the row group
// filter evaluates against, and the physical schema they are keyed by.
package stats

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tablestats/rgfilter"
)

// ErrInvalidMetrics is returned for column metrics whose counts are
// inconsistent with each other.
var ErrInvalidMetrics = errors.New("invalid column metrics")

// ColumnMetrics are the statistics of one column chunk within a block.
// Min and Max are nil when the writer did not record them, and the null
// count is only meaningful when HasNullCount is set.
type ColumnMetrics struct {
	ValueCount   uint64
	NullCount    uint64
	HasNullCount bool
	Min, Max     rgfilter.Literal
	// Grouping is set for chunks that belong to a repeated or nested
	// column, whose counts and bounds do not describe a single value
	// per row.
	Grouping bool
}

func (c ColumnMetrics) Validate() error {
	if c.HasNullCount && c.NullCount > c.ValueCount {
		return fmt.Errorf("%w: null count %d exceeds value count %d",
			ErrInvalidMetrics, c.NullCount, c.ValueCount)
	}

	return nil
}

// AllNull reports whether every value of the chunk is known to be null.
func (c ColumnMetrics) AllNull() bool {
	return c.HasNullCount && c.NullCount == c.ValueCount
}

func (c ColumnMetrics) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "values=%d", c.ValueCount)
	if c.HasNullCount {
		fmt.Fprintf(&b, " nulls=%d", c.NullCount)
	}
	if c.Min != nil {
		fmt.Fprintf(&b, " min=%s", c.Min)
	}
	if c.Max != nil {
		fmt.Fprintf(&b, " max=%s", c.Max)
	}
	if c.Grouping {
		b.WriteString(" grouping")
	}

	return b.String()
}

// BlockMetadata describes a single row group. Columns is keyed by the
// physical column ID.
type BlockMetadata struct {
	Path     string
	Ordinal  int
	RowCount uint64
	Columns  map[int]ColumnMetrics
}

// Validate checks the metrics of every column in the block.
func (b *BlockMetadata) Validate() error {
	for _, id := range slices.Sorted(maps.Keys(b.Columns)) {
		if err := b.Columns[id].Validate(); err != nil {
			return fmt.Errorf("block %d column %d: %w", b.Ordinal, id, err)
		}
	}

	return nil
}

// FileStats bundles the physical schema of a file with the metadata of
// each of its blocks, in file order.
type FileStats struct {
	Path   string
	Schema *PhysicalSchema
	Blocks []BlockMetadata
}

// NumRows is the total row count over every block of the file.
func (f FileStats) NumRows() (n uint64) {
	for _, b := range f.Blocks {
		n += b.RowCount
	}

	return n
}
