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


// Package pqstats reads block statistics out of parquet footers. Only
// the footer is read; no data pages are decoded.
package pqstats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/metadata"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/apache/arrow-go/v18/parquet/schema"
	"github.com/google/uuid"
	"github.com/tablestats/rgfilter"
	iceio "github.com/tablestats/rgfilter/io"
	"github.com/tablestats/rgfilter/stats"
)

// FieldIDKey is the arrow field metadata key holding a parquet field ID.
const FieldIDKey = "PARQUET:field_id"

// File is an open parquet file whose footer has been parsed.
type File struct {
	path   string
	rdr    *file.Reader
	schema *stats.PhysicalSchema
	leaves []leaf
}

// leaf is a parquet leaf column with a field ID.
type leaf struct {
	id       int
	colIndex int
	typ      arrow.DataType
	uuid     bool
	grouping bool
}

type options struct {
	mapping rgfilter.NameMapping
}

type Option func(*options)

// WithNameMapping gives IDs to the columns that were written without a
// field ID, looking them up by their names. Columns with an ID in the
// file keep it.
func WithNameMapping(nm rgfilter.NameMapping) Option {
	return func(o *options) {
		o.mapping = nm
	}
}

// Open opens path through fsys and reads its footer.
func Open(ctx context.Context, fsys iceio.IO, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	pf, err := NewFile(path, f, opts...)
	if err != nil {
		return nil, errors.Join(err, f.Close())
	}

	return pf, nil
}

// NewFile reads the footer of the parquet file in r. Closing the
// returned File closes r when r is an io.Closer.
func NewFile(path string, r parquet.ReaderAtSeeker, opts ...Option) (*File, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rdr, err := file.NewParquetReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	md := rdr.MetaData()
	manifest, err := pqarrow.NewSchemaManifest(md.Schema, md.KeyValueMetadata(), &pqarrow.ArrowReadProperties{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	f := &File{path: path, rdr: rdr}
	f.collectLeaves(manifest.Fields, nil, o.mapping, false)

	cols := make([]stats.PhysicalColumn, len(f.leaves))
	for i, l := range f.leaves {
		col := md.Schema.Column(l.colIndex)
		cols[i] = stats.PhysicalColumn{ID: l.id, Path: col.Path(), Type: col.PhysicalType().String()}
	}

	if f.schema, err = stats.NewPhysicalSchema(cols...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

func (f *File) collectLeaves(fields []pqarrow.SchemaField, names []string, mapping rgfilter.NameMapping, grouping bool) {
	for _, field := range fields {
		path := append(slices.Clip(names), field.Field.Name)
		if !field.IsLeaf() {
			children := field.Children
			var repeated bool
			switch field.Field.Type.(type) {
			case *arrow.MapType:
				repeated = true
				// the key_value group is not part of the mapped names
				if len(children) == 1 && !children[0].IsLeaf() {
					children = children[0].Children
				}
			case arrow.ListLikeType:
				repeated = true
			}
			f.collectLeaves(children, path, mapping, grouping || repeated)

			continue
		}

		id, ok := fieldID(*field.Field)
		if !ok {
			if id, ok = mapping.Find(path...); !ok {
				continue
			}
		}

		col := f.rdr.MetaData().Schema.Column(field.ColIndex)
		_, isUUID := col.LogicalType().(schema.UUIDLogicalType)
		f.leaves = append(f.leaves, leaf{
			id:       id,
			colIndex: field.ColIndex,
			typ:      field.Field.Type,
			uuid:     isUUID,
			grouping: grouping,
		})
	}
}

func fieldID(f arrow.Field) (int, bool) {
	if !f.HasMetadata() {
		return 0, false
	}

	fieldIDStr, ok := f.Metadata.GetValue(FieldIDKey)
	if !ok {
		return 0, false
	}

	// writers store -1 for columns without an ID
	id, err := strconv.Atoi(fieldIDStr)
	if err != nil || id < 0 {
		return 0, false
	}

	return id, true
}

func (f *File) Path() string                          { return f.path }
func (f *File) NumRows() int64                        { return f.rdr.MetaData().GetNumRows() }
func (f *File) NumRowGroups() int                     { return f.rdr.NumRowGroups() }
func (f *File) PhysicalSchema() *stats.PhysicalSchema { return f.schema }
func (f *File) Close() error                          { return f.rdr.Close() }

// Blocks returns the metadata of every row group in file order.
func (f *File) Blocks() ([]stats.BlockMetadata, error) {
	md := f.rdr.MetaData()
	blocks := make([]stats.BlockMetadata, md.NumRowGroups())
	for rg := range md.NumRowGroups() {
		rowGroup := md.RowGroup(rg)
		block := stats.BlockMetadata{
			Path:     f.path,
			Ordinal:  rg,
			RowCount: uint64(max(rowGroup.NumRows(), 0)),
			Columns:  make(map[int]stats.ColumnMetrics, len(f.leaves)),
		}

		for _, l := range f.leaves {
			chunk, err := rowGroup.ColumnChunk(l.colIndex)
			if err != nil {
				return nil, fmt.Errorf("%s: row group %d: %w", f.path, rg, err)
			}

			m, err := l.metrics(chunk)
			if err != nil {
				return nil, fmt.Errorf("%s: row group %d column %s: %w",
					f.path, rg, chunk.PathInSchema(), err)
			}
			block.Columns[l.id] = m
		}

		blocks[rg] = block
	}

	return blocks, nil
}

// FileStats bundles the physical schema and blocks of the file.
func (f *File) FileStats() (stats.FileStats, error) {
	blocks, err := f.Blocks()
	if err != nil {
		return stats.FileStats{}, err
	}

	return stats.FileStats{Path: f.path, Schema: f.schema, Blocks: blocks}, nil
}

func (l leaf) metrics(chunk *metadata.ColumnChunkMetaData) (stats.ColumnMetrics, error) {
	m := stats.ColumnMetrics{ValueCount: uint64(max(chunk.NumValues(), 0)), Grouping: l.grouping}

	set, err := chunk.StatsSet()
	if err != nil || !set {
		return m, err
	}

	st, err := chunk.Statistics()
	if err != nil || st == nil {
		return m, err
	}

	if st.HasNullCount() && st.NullCount() >= 0 && uint64(st.NullCount()) <= m.ValueCount {
		m.NullCount, m.HasNullCount = uint64(st.NullCount()), true
	}

	if l.grouping || !st.HasMinMax() {
		return m, nil
	}

	// bounds that cannot be represented are left unset, which only
	// makes the filter read more
	m.Min, m.Max = l.bounds(st)
	if m.Min == nil || m.Max == nil {
		m.Min, m.Max = nil, nil
	}

	return m, nil
}

func (l leaf) bounds(st metadata.TypedStatistics) (rgfilter.Literal, rgfilter.Literal) {
	switch s := st.(type) {
	case *metadata.BooleanStatistics:
		return rgfilter.BoolLiteral(s.Min()), rgfilter.BoolLiteral(s.Max())
	case *metadata.Int32Statistics:
		return int32Bound(l.typ, s.Min(), false), int32Bound(l.typ, s.Max(), true)
	case *metadata.Int64Statistics:
		return int64Bound(l.typ, s.Min(), false), int64Bound(l.typ, s.Max(), true)
	case *metadata.Float32Statistics:
		return rgfilter.Float32Literal(s.Min()), rgfilter.Float32Literal(s.Max())
	case *metadata.Float64Statistics:
		return rgfilter.Float64Literal(s.Min()), rgfilter.Float64Literal(s.Max())
	case *metadata.ByteArrayStatistics:
		return l.bytesBound(s.Min()), l.bytesBound(s.Max())
	case *metadata.FixedLenByteArrayStatistics:
		return l.bytesBound(s.Min()), l.bytesBound(s.Max())
	}

	return nil, nil
}

func int32Bound(typ arrow.DataType, v int32, upper bool) rgfilter.Literal {
	switch t := typ.(type) {
	case *arrow.Int8Type, *arrow.Int16Type, *arrow.Int32Type:
		return rgfilter.Int32Literal(v)
	case *arrow.Date32Type:
		return rgfilter.DateLiteral(v)
	case *arrow.Time32Type:
		if micros, ok := toMicros(int64(v), t.Unit, upper); ok {
			return rgfilter.TimeLiteral(micros)
		}
	case *arrow.Decimal128Type:
		return rgfilter.DecimalLiteral{Val: decimal128.FromI64(int64(v)), Scale: int(t.Scale)}
	}

	return nil
}

func int64Bound(typ arrow.DataType, v int64, upper bool) rgfilter.Literal {
	switch t := typ.(type) {
	case *arrow.Int64Type:
		return rgfilter.Int64Literal(v)
	case *arrow.TimestampType:
		if micros, ok := toMicros(v, t.Unit, upper); ok {
			return rgfilter.TimestampLiteral(micros)
		}
	case *arrow.Time64Type:
		if micros, ok := toMicros(v, t.Unit, upper); ok {
			return rgfilter.TimeLiteral(micros)
		}
	case *arrow.Decimal128Type:
		return rgfilter.DecimalLiteral{Val: decimal128.FromI64(v), Scale: int(t.Scale)}
	}

	return nil
}

// toMicros converts v to microseconds. Nanosecond values are rounded
// outward so the converted bound still contains every value.
func toMicros(v int64, unit arrow.TimeUnit, upper bool) (int64, bool) {
	switch unit {
	case arrow.Second, arrow.Millisecond:
		mult := int64(1_000_000)
		if unit == arrow.Millisecond {
			mult = 1_000
		}

		if v > math.MaxInt64/mult || v < math.MinInt64/mult {
			return 0, false
		}

		return v * mult, true
	case arrow.Microsecond:
		return v, true
	case arrow.Nanosecond:
		q, r := v/1000, v%1000
		switch {
		case upper && r > 0:
			q++
		case !upper && r < 0:
			q--
		}

		return q, true
	}

	return 0, false
}

func (l leaf) bytesBound(data []byte) rgfilter.Literal {
	if l.uuid {
		v, err := uuid.FromBytes(data)
		if err != nil {
			return nil
		}

		return rgfilter.UUIDLiteral(v)
	}

	switch t := l.typ.(type) {
	case *arrow.StringType, *arrow.LargeStringType:
		return rgfilter.StringLiteral(data)
	case *arrow.BinaryType, *arrow.LargeBinaryType:
		return rgfilter.BinaryLiteral(append([]byte(nil), data...))
	case *arrow.FixedSizeBinaryType:
		return rgfilter.FixedLiteral(append([]byte(nil), data...))
	case *arrow.Decimal128Type:
		lit, err := rgfilter.LiteralFromBytes(rgfilter.DecimalTypeOf(int(t.Precision), int(t.Scale)), data)
		if err != nil {
			return nil
		}

		return lit
	}

	return nil
}
