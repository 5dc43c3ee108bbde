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

package internal

import (
	"github.com/hamba/avro/v2"
)

// Must panics if err is non-nil, for schema construction at init time.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}

	return v
}

func NullableSchema(schema avro.Schema) avro.Schema {
	return Must(avro.NewUnionSchema([]avro.Schema{
		NullSchema, schema,
	}))
}

func WithFieldID(id int) avro.SchemaOption {
	return avro.WithProps(map[string]any{"field-id": id})
}

func WithElementID(id int) avro.SchemaOption {
	return avro.WithProps(map[string]any{"element-id": id})
}

var (
	NullSchema           = avro.NewNullSchema()
	BoolSchema           = avro.NewPrimitiveSchema(avro.Boolean, nil)
	BinarySchema         = avro.NewPrimitiveSchema(avro.Bytes, nil)
	NullableBinarySchema = NullableSchema(BinarySchema)
	StringSchema         = avro.NewPrimitiveSchema(avro.String, nil)
	NullableStringSchema = NullableSchema(StringSchema)
	IntSchema            = avro.NewPrimitiveSchema(avro.Int, nil)
	LongSchema           = avro.NewPrimitiveSchema(avro.Long, nil)
	NullableLongSchema   = NullableSchema(LongSchema)
)

// BlockStatsSchema is the record schema of a statistics index file, one
// record per block.
var BlockStatsSchema = Must(avro.NewRecordSchema("block_stats", "", []*avro.Field{
	Must(avro.NewField("file_path", StringSchema,
		avro.WithDoc("Location of the data file"),
		WithFieldID(1))),
	Must(avro.NewField("ordinal", IntSchema,
		avro.WithDoc("Position of the block within the file"),
		WithFieldID(2))),
	Must(avro.NewField("row_count", LongSchema,
		avro.WithDoc("Number of rows in the block"),
		WithFieldID(3))),
	Must(avro.NewField("columns",
		avro.NewArraySchema(physicalColumnSchema, WithElementID(5)),
		avro.WithDoc("Physical columns of the data file"),
		WithFieldID(4))),
	Must(avro.NewField("metrics",
		avro.NewArraySchema(columnMetricsSchema, WithElementID(7)),
		avro.WithDoc("Per column metrics of the block"),
		WithFieldID(6))),
}))

var physicalColumnSchema = Must(avro.NewRecordSchema("physical_column", "", []*avro.Field{
	Must(avro.NewField("id", IntSchema, WithFieldID(100))),
	Must(avro.NewField("path", StringSchema, WithFieldID(101))),
	Must(avro.NewField("type", StringSchema, WithFieldID(102))),
}))

var columnMetricsSchema = Must(avro.NewRecordSchema("column_metrics", "", []*avro.Field{
	Must(avro.NewField("field_id", IntSchema, WithFieldID(110))),
	Must(avro.NewField("value_count", LongSchema,
		avro.WithDoc("Number of values including nulls"),
		WithFieldID(111))),
	Must(avro.NewField("null_count", NullableLongSchema,
		avro.WithDoc("Number of null values, absent when unknown"),
		WithFieldID(112))),
	Must(avro.NewField("bound_type", NullableStringSchema,
		avro.WithDoc("Type the bounds are serialized as"),
		WithFieldID(113))),
	Must(avro.NewField("lower_bound", NullableBinarySchema,
		avro.WithDoc("Serialized lower bound"),
		WithFieldID(114))),
	Must(avro.NewField("upper_bound", NullableBinarySchema,
		avro.WithDoc("Serialized upper bound"),
		WithFieldID(115))),
	Must(avro.NewField("grouping", BoolSchema, WithFieldID(116))),
}))
