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
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hamba/avro/v2"
	"github.com/hamba/avro/v2/ocf"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/internal"
)

const (
	indexVersionKey = "rgfilter.index-version"
	indexVersion    = "1"
)

// ErrInvalidIndex is returned when reading a statistics index that was
// not written by WriteIndex or carries an unsupported version.
var ErrInvalidIndex = errors.New("invalid statistics index")

type indexColumn struct {
	ID   int    `avro:"id"`
	Path string `avro:"path"`
	Type string `avro:"type"`
}

type indexMetrics struct {
	FieldID    int     `avro:"field_id"`
	ValueCount int64   `avro:"value_count"`
	NullCount  *int64  `avro:"null_count"`
	BoundType  *string `avro:"bound_type"`
	LowerBound *[]byte `avro:"lower_bound"`
	UpperBound *[]byte `avro:"upper_bound"`
	Grouping   bool    `avro:"grouping"`
}

type indexRecord struct {
	FilePath string         `avro:"file_path"`
	Ordinal  int            `avro:"ordinal"`
	RowCount int64          `avro:"row_count"`
	Columns  []indexColumn  `avro:"columns"`
	Metrics  []indexMetrics `avro:"metrics"`
}

// WriteIndex writes the statistics of every block of the given files to w
// as a deflate compressed Avro object container file. Files without any
// block contribute no records.
func WriteIndex(w io.Writer, files []FileStats) error {
	enc, err := ocf.NewEncoderWithSchema(internal.BlockStatsSchema, w,
		ocf.WithSchemaMarshaler(ocf.FullSchemaMarshaler),
		ocf.WithEncoderSchemaCache(&avro.SchemaCache{}),
		ocf.WithMetadata(map[string][]byte{indexVersionKey: []byte(indexVersion)}),
		ocf.WithCodec(ocf.Deflate))
	if err != nil {
		return err
	}

	for _, f := range files {
		cols := indexColumns(f.Schema)
		for _, b := range f.Blocks {
			rec, err := toIndexRecord(f.Path, cols, &b)
			if err != nil {
				return err
			}

			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("writing stats of %s block %d: %w", f.Path, b.Ordinal, err)
			}
		}
	}

	return enc.Close()
}

func indexColumns(p *PhysicalSchema) []indexColumn {
	if p == nil {
		return []indexColumn{}
	}

	out := make([]indexColumn, 0, p.NumColumns())
	for _, c := range p.columns {
		out = append(out, indexColumn{ID: c.ID, Path: c.Path, Type: c.Type})
	}

	return out
}

func toIndexRecord(path string, cols []indexColumn, b *BlockMetadata) (*indexRecord, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rec := &indexRecord{
		FilePath: path,
		Ordinal:  b.Ordinal,
		RowCount: int64(b.RowCount),
		Columns:  cols,
		Metrics:  make([]indexMetrics, 0, len(b.Columns)),
	}

	for _, id := range slices.Sorted(maps.Keys(b.Columns)) {
		m := b.Columns[id]
		im := indexMetrics{
			FieldID:    id,
			ValueCount: int64(m.ValueCount),
			Grouping:   m.Grouping,
		}

		if m.HasNullCount {
			n := int64(m.NullCount)
			im.NullCount = &n
		}

		var err error
		if im.LowerBound, err = boundBytes(m.Min); err != nil {
			return nil, fmt.Errorf("%s: lower bound of column %d: %w", path, id, err)
		}
		if im.UpperBound, err = boundBytes(m.Max); err != nil {
			return nil, fmt.Errorf("%s: upper bound of column %d: %w", path, id, err)
		}

		switch {
		case m.Min != nil:
			typ := m.Min.Type().String()
			im.BoundType = &typ
		case m.Max != nil:
			typ := m.Max.Type().String()
			im.BoundType = &typ
		}

		rec.Metrics = append(rec.Metrics, im)
	}

	return rec, nil
}

func boundBytes(lit rgfilter.Literal) (*[]byte, error) {
	if lit == nil {
		return nil, nil
	}

	data, err := lit.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &data, nil
}

// ReadIndex reads a statistics index written by WriteIndex, grouping the
// blocks back into one FileStats per data file in the order they were
// written.
func ReadIndex(r io.Reader) ([]FileStats, error) {
	dec, err := ocf.NewDecoder(r, ocf.WithDecoderSchemaCache(&avro.SchemaCache{}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}

	if v := string(dec.Metadata()[indexVersionKey]); v != indexVersion {
		return nil, fmt.Errorf("%w: unsupported version '%s'", ErrInvalidIndex, v)
	}

	var (
		out    []FileStats
		byPath = make(map[string]int)
	)

	for dec.HasNext() {
		var rec indexRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
		}

		idx, ok := byPath[rec.FilePath]
		if !ok {
			physical, err := physicalFromIndex(rec.Columns)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrInvalidIndex, rec.FilePath, err)
			}

			idx = len(out)
			byPath[rec.FilePath] = idx
			out = append(out, FileStats{Path: rec.FilePath, Schema: physical})
		}

		block, err := blockFromIndex(&rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s block %d: %w", ErrInvalidIndex, rec.FilePath, rec.Ordinal, err)
		}
		out[idx].Blocks = append(out[idx].Blocks, block)
	}

	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}

	return out, nil
}

func physicalFromIndex(cols []indexColumn) (*PhysicalSchema, error) {
	pc := make([]PhysicalColumn, len(cols))
	for i, c := range cols {
		pc[i] = PhysicalColumn{ID: c.ID, Path: c.Path, Type: c.Type}
	}

	return NewPhysicalSchema(pc...)
}

func blockFromIndex(rec *indexRecord) (BlockMetadata, error) {
	if rec.RowCount < 0 {
		return BlockMetadata{}, fmt.Errorf("negative row count %d", rec.RowCount)
	}

	b := BlockMetadata{
		Path:     rec.FilePath,
		Ordinal:  rec.Ordinal,
		RowCount: uint64(rec.RowCount),
		Columns:  make(map[int]ColumnMetrics, len(rec.Metrics)),
	}

	for _, im := range rec.Metrics {
		if im.ValueCount < 0 {
			return b, fmt.Errorf("%w: negative value count for column %d",
				ErrInvalidMetrics, im.FieldID)
		}

		m := ColumnMetrics{ValueCount: uint64(im.ValueCount), Grouping: im.Grouping}
		if im.NullCount != nil {
			if *im.NullCount < 0 {
				return b, fmt.Errorf("%w: negative null count for column %d",
					ErrInvalidMetrics, im.FieldID)
			}
			m.HasNullCount, m.NullCount = true, uint64(*im.NullCount)
		}

		if im.BoundType != nil {
			typ, err := rgfilter.TypeFromString(*im.BoundType)
			if err != nil {
				return b, err
			}

			if m.Min, err = boundFromBytes(typ, im.LowerBound); err != nil {
				return b, fmt.Errorf("lower bound of column %d: %w", im.FieldID, err)
			}
			if m.Max, err = boundFromBytes(typ, im.UpperBound); err != nil {
				return b, fmt.Errorf("upper bound of column %d: %w", im.FieldID, err)
			}
		}

		b.Columns[im.FieldID] = m
	}

	return b, b.Validate()
}

func boundFromBytes(typ rgfilter.Type, data *[]byte) (rgfilter.Literal, error) {
	if data == nil {
		return nil, nil
	}

	// an empty bound decodes as nil
	if *data == nil {
		return rgfilter.LiteralFromBytes(typ, []byte{})
	}

	return rgfilter.LiteralFromBytes(typ, *data)
}
