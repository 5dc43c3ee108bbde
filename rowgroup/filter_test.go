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

package rowgroup_test

import (
	"math"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/rowgroup"
	"github.com/tablestats/rgfilter/stats"
)

var (
	tableSchema = rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "id", Type: rgfilter.PrimitiveTypes.Int32, Required: true},
		rgfilter.NestedField{ID: 2, Name: "no_stats", Type: rgfilter.PrimitiveTypes.String},
		rgfilter.NestedField{ID: 3, Name: "required", Type: rgfilter.PrimitiveTypes.String, Required: true},
		rgfilter.NestedField{ID: 4, Name: "all_nulls", Type: rgfilter.PrimitiveTypes.Int64},
		rgfilter.NestedField{ID: 5, Name: "some_nulls", Type: rgfilter.PrimitiveTypes.String},
		rgfilter.NestedField{ID: 6, Name: "no_nulls", Type: rgfilter.PrimitiveTypes.String},
		rgfilter.NestedField{ID: 7, Name: "not_in_file", Type: rgfilter.PrimitiveTypes.Float32},
		rgfilter.NestedField{ID: 8, Name: "map_not_null", Type: &rgfilter.MapType{
			KeyID: 10, KeyType: rgfilter.PrimitiveTypes.String,
			ValueID: 11, ValueType: rgfilter.PrimitiveTypes.Int32, ValueRequired: true,
		}},
		rgfilter.NestedField{ID: 9, Name: "struct_not_null", Type: &rgfilter.StructType{
			FieldList: []rgfilter.NestedField{
				{ID: 12, Name: "struct_subfield", Type: rgfilter.PrimitiveTypes.String, Required: true},
			},
		}},
	)

	// the file was written with different column names, only the IDs
	// line up with the table schema
	fileSchema = stats.MustPhysicalSchema(
		stats.PhysicalColumn{ID: 1, Path: "_id", Type: "INT32"},
		stats.PhysicalColumn{ID: 2, Path: "_no_stats", Type: "BYTE_ARRAY"},
		stats.PhysicalColumn{ID: 3, Path: "_required", Type: "BYTE_ARRAY"},
		stats.PhysicalColumn{ID: 4, Path: "_all_nulls", Type: "INT64"},
		stats.PhysicalColumn{ID: 5, Path: "_some_nulls", Type: "BYTE_ARRAY"},
		stats.PhysicalColumn{ID: 6, Path: "_no_nulls", Type: "BYTE_ARRAY"},
	)

	// 50 rows: id 30..79, no_stats too long for statistics, required
	// always "req", all_nulls never set, some_nulls null for every tenth
	// row and no_nulls always ""
	rowGroup = &stats.BlockMetadata{
		Path:     "stats-row-group-filter-test.parquet",
		RowCount: 50,
		Columns: map[int]stats.ColumnMetrics{
			1: {ValueCount: 50, HasNullCount: true, Min: rgfilter.Int32Literal(30), Max: rgfilter.Int32Literal(79)},
			2: {ValueCount: 50},
			3: {ValueCount: 50, HasNullCount: true, Min: rgfilter.StringLiteral("req"), Max: rgfilter.StringLiteral("req")},
			4: {ValueCount: 50, HasNullCount: true, NullCount: 50},
			5: {ValueCount: 50, HasNullCount: true, NullCount: 5, Min: rgfilter.StringLiteral("some"), Max: rgfilter.StringLiteral("some")},
			6: {ValueCount: 50, HasNullCount: true, Min: rgfilter.StringLiteral(""), Max: rgfilter.StringLiteral("")},
		},
	}
)

type RowGroupFilterSuite struct {
	suite.Suite
}

func (s *RowGroupFilterSuite) shouldRead(expr rgfilter.BooleanExpression, opts ...rowgroup.Option) bool {
	f, err := rowgroup.NewFilter(tableSchema, expr, opts...)
	s.Require().NoError(err)

	return f.ShouldRead(fileSchema, rowGroup)
}

func ref(name string) rgfilter.Reference { return rgfilter.Reference(name) }

func (s *RowGroupFilterSuite) TestAllNulls() {
	s.False(s.shouldRead(rgfilter.NotNull(ref("all_nulls"))), "no non-null value in all null column")
	s.True(s.shouldRead(rgfilter.NotNull(ref("some_nulls"))), "column with some nulls contains a non-null value")
	s.True(s.shouldRead(rgfilter.NotNull(ref("no_nulls"))), "non-null column contains a non-null value")
	s.True(s.shouldRead(rgfilter.NotNull(ref("map_not_null"))), "map type is not skipped")
	s.True(s.shouldRead(rgfilter.NotNull(ref("struct_not_null"))), "struct type is not skipped")
}

func (s *RowGroupFilterSuite) TestNoNulls() {
	s.True(s.shouldRead(rgfilter.IsNull(ref("all_nulls"))), "at least one null value in all null column")
	s.True(s.shouldRead(rgfilter.IsNull(ref("some_nulls"))), "column with some nulls contains a null value")
	s.False(s.shouldRead(rgfilter.IsNull(ref("no_nulls"))), "non-null column contains no null values")
	s.True(s.shouldRead(rgfilter.IsNull(ref("map_not_null"))), "map type is not skipped")
	s.True(s.shouldRead(rgfilter.IsNull(ref("struct_not_null"))), "struct type is not skipped")
}

func (s *RowGroupFilterSuite) TestRequiredColumn() {
	s.True(s.shouldRead(rgfilter.NotNull(ref("required"))), "required columns are always non-null")
	s.False(s.shouldRead(rgfilter.IsNull(ref("required"))), "required columns are always non-null")
}

func (s *RowGroupFilterSuite) TestMissingColumn() {
	_, err := rowgroup.NewFilter(tableSchema, rgfilter.LessThan(ref("missing"), int32(5)))
	s.ErrorIs(err, rgfilter.ErrUnknownColumn)
	s.ErrorContains(err, "cannot find field 'missing'")
}

func (s *RowGroupFilterSuite) TestColumnNotInFile() {
	cannotMatch := []rgfilter.BooleanExpression{
		rgfilter.LessThan(ref("not_in_file"), float32(1)),
		rgfilter.LessThanEqual(ref("not_in_file"), float32(1)),
		rgfilter.EqualTo(ref("not_in_file"), float32(1)),
		rgfilter.GreaterThan(ref("not_in_file"), float32(1)),
		rgfilter.GreaterThanEqual(ref("not_in_file"), float32(1)),
		rgfilter.IsIn(ref("not_in_file"), float32(1), float32(2)),
		rgfilter.NotNull(ref("not_in_file")),
	}

	for _, expr := range cannotMatch {
		s.Falsef(s.shouldRead(expr), "should skip when column is not in file (all nulls): %s", expr)
	}

	canMatch := []rgfilter.BooleanExpression{
		rgfilter.IsNull(ref("not_in_file")),
		rgfilter.NotEqualTo(ref("not_in_file"), float32(1)),
		rgfilter.NotIn(ref("not_in_file"), float32(1), float32(2)),
	}

	for _, expr := range canMatch {
		s.Truef(s.shouldRead(expr), "should read when column is not in file (all nulls): %s", expr)
	}
}

func (s *RowGroupFilterSuite) TestMissingStats() {
	exprs := []rgfilter.BooleanExpression{
		rgfilter.LessThan(ref("no_stats"), "a"),
		rgfilter.LessThanEqual(ref("no_stats"), "b"),
		rgfilter.EqualTo(ref("no_stats"), "c"),
		rgfilter.GreaterThan(ref("no_stats"), "d"),
		rgfilter.GreaterThanEqual(ref("no_stats"), "e"),
		rgfilter.NotEqualTo(ref("no_stats"), "f"),
		rgfilter.IsIn(ref("no_stats"), "g", "h"),
		rgfilter.IsNull(ref("no_stats")),
		rgfilter.NotNull(ref("no_stats")),
	}

	for _, expr := range exprs {
		s.Truef(s.shouldRead(expr), "should read when missing stats for expr: %s", expr)
	}
}

func (s *RowGroupFilterSuite) TestZeroRecordBlock() {
	empty := &stats.BlockMetadata{RowCount: 0}

	exprs := []rgfilter.BooleanExpression{
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.LessThanEqual(ref("id"), int32(30)),
		rgfilter.EqualTo(ref("id"), int32(70)),
		rgfilter.GreaterThan(ref("id"), int32(78)),
		rgfilter.GreaterThanEqual(ref("id"), int32(90)),
		rgfilter.NotEqualTo(ref("id"), int32(101)),
		rgfilter.IsNull(ref("some_nulls")),
		rgfilter.NotNull(ref("some_nulls")),
		rgfilter.AlwaysTrue{},
	}

	for _, expr := range exprs {
		f, err := rowgroup.NewFilter(tableSchema, expr)
		s.Require().NoError(err)
		s.Falsef(f.ShouldRead(fileSchema, empty), "should never read 0-record block: %s", expr)
		s.Falsef(f.ShouldRead(fileSchema, nil), "should never read a missing block: %s", expr)
	}
}

func (s *RowGroupFilterSuite) TestNot() {
	s.True(s.shouldRead(rgfilter.NewNot(rgfilter.LessThan(ref("id"), int32(5)))), "not(false)")
	s.False(s.shouldRead(rgfilter.NewNot(rgfilter.GreaterThan(ref("id"), int32(5)))), "not(true)")
}

func (s *RowGroupFilterSuite) TestAnd() {
	s.False(s.shouldRead(rgfilter.NewAnd(
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.GreaterThanEqual(ref("id"), int32(0)))), "and(false, true)")
	s.True(s.shouldRead(rgfilter.NewAnd(
		rgfilter.GreaterThan(ref("id"), int32(5)),
		rgfilter.LessThanEqual(ref("id"), int32(30)))), "and(true, true)")
}

func (s *RowGroupFilterSuite) TestOr() {
	s.False(s.shouldRead(rgfilter.NewOr(
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.GreaterThanEqual(ref("id"), int32(80)))), "or(false, false)")
	s.True(s.shouldRead(rgfilter.NewOr(
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.GreaterThanEqual(ref("id"), int32(60)))), "or(false, true)")
}

func (s *RowGroupFilterSuite) TestIntegerLt() {
	s.False(s.shouldRead(rgfilter.LessThan(ref("id"), int32(5))), "id range below lower bound (5 < 30)")
	s.False(s.shouldRead(rgfilter.LessThan(ref("id"), int32(30))), "id range below lower bound (30 is not < 30)")
	s.True(s.shouldRead(rgfilter.LessThan(ref("id"), int32(31))), "one possible id")
	s.True(s.shouldRead(rgfilter.LessThan(ref("id"), int32(79))), "many possible ids")
}

func (s *RowGroupFilterSuite) TestIntegerLtEq() {
	s.False(s.shouldRead(rgfilter.LessThanEqual(ref("id"), int32(5))), "id range below lower bound (5 < 30)")
	s.False(s.shouldRead(rgfilter.LessThanEqual(ref("id"), int32(29))), "id range below lower bound (29 < 30)")
	s.True(s.shouldRead(rgfilter.LessThanEqual(ref("id"), int32(30))), "one possible id")
	s.True(s.shouldRead(rgfilter.LessThanEqual(ref("id"), int32(79))), "many possible ids")
}

func (s *RowGroupFilterSuite) TestIntegerGt() {
	s.False(s.shouldRead(rgfilter.GreaterThan(ref("id"), int32(85))), "id range above upper bound (85 > 79)")
	s.False(s.shouldRead(rgfilter.GreaterThan(ref("id"), int32(79))), "id range above upper bound (79 is not > 79)")
	s.True(s.shouldRead(rgfilter.GreaterThan(ref("id"), int32(78))), "one possible id")
	s.True(s.shouldRead(rgfilter.GreaterThan(ref("id"), int32(75))), "many possible ids")
}

func (s *RowGroupFilterSuite) TestIntegerGtEq() {
	s.False(s.shouldRead(rgfilter.GreaterThanEqual(ref("id"), int32(85))), "id range above upper bound (85 > 79)")
	s.False(s.shouldRead(rgfilter.GreaterThanEqual(ref("id"), int32(80))), "id range above upper bound (80 > 79)")
	s.True(s.shouldRead(rgfilter.GreaterThanEqual(ref("id"), int32(79))), "one possible id")
	s.True(s.shouldRead(rgfilter.GreaterThanEqual(ref("id"), int32(75))), "many possible ids")
}

func (s *RowGroupFilterSuite) TestIntegerEq() {
	tests := []struct {
		value int32
		read  bool
		msg   string
	}{
		{5, false, "id below lower bound"},
		{29, false, "id below lower bound"},
		{30, true, "id equal to lower bound"},
		{75, true, "id between lower and upper bounds"},
		{79, true, "id equal to upper bound"},
		{80, false, "id above upper bound"},
		{85, false, "id above upper bound"},
	}

	for _, tt := range tests {
		s.Equal(tt.read, s.shouldRead(rgfilter.EqualTo(ref("id"), tt.value)), tt.msg)
	}
}

func (s *RowGroupFilterSuite) TestIntegerNotEq() {
	for _, v := range []int32{5, 29, 30, 75, 79, 80, 85} {
		s.Truef(s.shouldRead(rgfilter.NotEqualTo(ref("id"), v)), "id != %d", v)
	}
}

func (s *RowGroupFilterSuite) TestIntegerNotEqRewritten() {
	for _, v := range []int32{5, 29, 30, 75, 79, 80, 85} {
		expr := rgfilter.NewNot(rgfilter.EqualTo(ref("id"), v))
		s.Truef(s.shouldRead(expr, rowgroup.WithNotRewrite()), "not(id == %d)", v)
	}
}

func (s *RowGroupFilterSuite) TestNotFlipsWithoutRewrite() {
	// id == 30 might match, so its negation is skipped unless the
	// negation is pushed into the leaf first
	expr := rgfilter.NewNot(rgfilter.EqualTo(ref("id"), int32(30)))
	s.False(s.shouldRead(expr), "block holds ids 31 to 79 but the flip skips it")
	s.True(s.shouldRead(expr, rowgroup.WithNotRewrite()))

	s.True(s.shouldRead(rgfilter.NotEqualTo(ref("id"), int32(30))))
}

func (s *RowGroupFilterSuite) TestMissingPhysicalSchema() {
	for _, expr := range []rgfilter.BooleanExpression{
		rgfilter.EqualTo(ref("id"), int32(40)),
		rgfilter.NotNull(ref("id")),
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.IsNull(ref("all_nulls")),
	} {
		f, err := rowgroup.NewFilter(tableSchema, expr)
		s.Require().NoError(err)
		s.True(f.ShouldRead(nil, rowGroup), "%s without a physical schema", expr)

		read, err := f.Evaluate(nil, rowGroup)
		s.NoError(err)
		s.True(read)
	}

	f, err := rowgroup.NewFilter(tableSchema, rgfilter.NotNull(ref("id")))
	s.Require().NoError(err)
	s.False(f.ShouldRead(nil, &stats.BlockMetadata{}), "empty block is skipped")
}

func (s *RowGroupFilterSuite) TestIntegerIn() {
	s.False(s.shouldRead(rgfilter.IsIn(ref("id"), int32(5), int32(6))), "all values below lower bound")
	s.False(s.shouldRead(rgfilter.IsIn(ref("id"), int32(80), int32(85))), "all values above upper bound")
	s.False(s.shouldRead(rgfilter.IsIn(ref("id"), int32(5), int32(85))), "values on both sides of the bounds")
	s.True(s.shouldRead(rgfilter.IsIn(ref("id"), int32(5), int32(30))), "id equal to lower bound")
	s.True(s.shouldRead(rgfilter.IsIn(ref("id"), int32(79), int32(85))), "id equal to upper bound")
	s.True(s.shouldRead(rgfilter.IsIn(ref("id"), int32(40), int32(50))), "ids within the bounds")
	s.True(s.shouldRead(rgfilter.NotIn(ref("id"), int32(5), int32(6))), "not in is never skipped")

	many := make([]int32, 201)
	for i := range many {
		many[i] = int32(1000 + i)
	}
	s.True(s.shouldRead(rgfilter.IsIn(ref("id"), many...)), "too many values to check")
}

func (s *RowGroupFilterSuite) TestStringBounds() {
	s.False(s.shouldRead(rgfilter.EqualTo(ref("some_nulls"), "abc")))
	s.True(s.shouldRead(rgfilter.EqualTo(ref("some_nulls"), "some")))
	s.False(s.shouldRead(rgfilter.GreaterThan(ref("some_nulls"), "some")))
	s.True(s.shouldRead(rgfilter.LessThanEqual(ref("no_nulls"), "")))
	s.False(s.shouldRead(rgfilter.LessThan(ref("no_nulls"), "")))
}

func (s *RowGroupFilterSuite) TestAllNullComparisons() {
	s.False(s.shouldRead(rgfilter.LessThan(ref("all_nulls"), int64(30))))
	s.False(s.shouldRead(rgfilter.GreaterThan(ref("all_nulls"), int64(30))))
	s.False(s.shouldRead(rgfilter.EqualTo(ref("all_nulls"), int64(30))))
	s.True(s.shouldRead(rgfilter.NotEqualTo(ref("all_nulls"), int64(30))))
}

func (s *RowGroupFilterSuite) TestCaseInsensitive() {
	expr := rgfilter.LessThan(ref("ID"), int32(5))

	_, err := rowgroup.NewFilter(tableSchema, expr)
	s.ErrorIs(err, rgfilter.ErrUnknownColumn)

	s.False(s.shouldRead(expr, rowgroup.WithCaseSensitive(false)))
}

func (s *RowGroupFilterSuite) TestBindErrors() {
	_, err := rowgroup.NewFilter(tableSchema, rgfilter.EqualTo(ref("id"), "not a number"))
	s.ErrorIs(err, rgfilter.ErrTypeMismatch)

	_, err = rowgroup.NewFilter(tableSchema, rgfilter.EqualTo(ref("struct_not_null"), "x"))
	s.ErrorIs(err, rgfilter.ErrTypeMismatch)

	_, err = rowgroup.NewFilter(tableSchema, rgfilter.GreaterThan(ref("not_in_file"), float64(0.1)))
	s.ErrorIs(err, rgfilter.ErrTypeMismatch, "0.1 has no exact float32 form")

	_, err = rowgroup.NewFilter(tableSchema, rgfilter.EqualTo(ref("not_in_file"), int64(16777217)))
	s.ErrorIs(err, rgfilter.ErrTypeMismatch, "16777217 has no exact float32 form")

	_, err = rowgroup.NewFilter(nil, rgfilter.AlwaysTrue{})
	s.ErrorIs(err, rgfilter.ErrInvalidArgument)

	_, err = rowgroup.NewFilter(tableSchema, nil)
	s.ErrorIs(err, rgfilter.ErrInvalidArgument)
}

func (s *RowGroupFilterSuite) TestOutOfRangeLiteralsFold() {
	f, err := rowgroup.NewFilter(tableSchema, rgfilter.LessThan(ref("id"), int64(math.MaxInt64)))
	s.Require().NoError(err)
	s.Equal(rgfilter.AlwaysTrue{}, f.Expr())

	f, err = rowgroup.NewFilter(tableSchema, rgfilter.EqualTo(ref("id"), int64(math.MinInt64)))
	s.Require().NoError(err)
	s.Equal(rgfilter.AlwaysFalse{}, f.Expr())
	s.False(f.ShouldRead(fileSchema, rowGroup))
}

func TestRowGroupFilter(t *testing.T) {
	suite.Run(t, new(RowGroupFilterSuite))
}

func TestColumnInFileWithoutMetrics(t *testing.T) {
	schema := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "x", Type: rgfilter.PrimitiveTypes.Int64})
	physical := stats.MustPhysicalSchema(stats.PhysicalColumn{ID: 1, Path: "x", Type: "INT64"})
	block := &stats.BlockMetadata{RowCount: 10, Columns: map[int]stats.ColumnMetrics{}}

	for _, expr := range []rgfilter.BooleanExpression{
		rgfilter.EqualTo(ref("x"), int64(1)),
		rgfilter.LessThan(ref("x"), int64(1)),
		rgfilter.NotNull(ref("x")),
		rgfilter.IsNull(ref("x")),
	} {
		f, err := rowgroup.NewFilter(schema, expr)
		require.NoError(t, err)
		assert.Truef(t, f.ShouldRead(physical, block), "%s", expr)
	}
}

func TestUnknownNullCount(t *testing.T) {
	schema := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "x", Type: rgfilter.PrimitiveTypes.Int64})
	physical := stats.MustPhysicalSchema(stats.PhysicalColumn{ID: 1, Path: "x", Type: "INT64"})
	block := &stats.BlockMetadata{RowCount: 10, Columns: map[int]stats.ColumnMetrics{
		1: {ValueCount: 10, Min: rgfilter.Int64Literal(1), Max: rgfilter.Int64Literal(5)},
	}}

	isNull, err := rowgroup.NewFilter(schema, rgfilter.IsNull(ref("x")))
	require.NoError(t, err)
	assert.True(t, isNull.ShouldRead(physical, block))

	notNull, err := rowgroup.NewFilter(schema, rgfilter.NotNull(ref("x")))
	require.NoError(t, err)
	assert.True(t, notNull.ShouldRead(physical, block))

	// bounds are still used
	gt, err := rowgroup.NewFilter(schema, rgfilter.GreaterThan(ref("x"), int64(5)))
	require.NoError(t, err)
	assert.False(t, gt.ShouldRead(physical, block))
}

func TestGroupingChunks(t *testing.T) {
	schema := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "points", Type: &rgfilter.ListType{
			ElementID: 2, Element: rgfilter.PrimitiveTypes.Int64, ElementRequired: true,
		}})
	physical := stats.MustPhysicalSchema(
		stats.PhysicalColumn{ID: 2, Path: "points.list.element", Type: "INT64"})
	block := &stats.BlockMetadata{RowCount: 10, Columns: map[int]stats.ColumnMetrics{
		2: {ValueCount: 40, HasNullCount: true, Min: rgfilter.Int64Literal(1), Max: rgfilter.Int64Literal(5), Grouping: true},
	}}

	for _, expr := range []rgfilter.BooleanExpression{
		rgfilter.EqualTo(ref("points.element"), int64(100)),
		rgfilter.IsNull(ref("points.element")),
		rgfilter.IsNull(ref("points")),
	} {
		f, err := rowgroup.NewFilter(schema, expr)
		require.NoError(t, err)
		assert.Truef(t, f.ShouldRead(physical, block), "%s", expr)
	}
}

func TestBoundsOfOtherTypes(t *testing.T) {
	schema := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "l", Type: rgfilter.PrimitiveTypes.Int64, Required: true},
		rgfilter.NestedField{ID: 2, Name: "d", Type: rgfilter.DecimalTypeOf(9, 2), Required: true},
		rgfilter.NestedField{ID: 3, Name: "f", Type: rgfilter.PrimitiveTypes.Float64, Required: true},
		rgfilter.NestedField{ID: 4, Name: "s", Type: rgfilter.PrimitiveTypes.String, Required: true},
	)
	physical := stats.MustPhysicalSchema(
		stats.PhysicalColumn{ID: 1, Path: "l", Type: "INT32"},
		stats.PhysicalColumn{ID: 2, Path: "d", Type: "INT64"},
		stats.PhysicalColumn{ID: 3, Path: "f", Type: "DOUBLE"},
		stats.PhysicalColumn{ID: 4, Path: "s", Type: "BYTE_ARRAY"},
	)
	block := &stats.BlockMetadata{RowCount: 10, Columns: map[int]stats.ColumnMetrics{
		// promoted int column
		1: {ValueCount: 10, HasNullCount: true, Min: rgfilter.Int32Literal(10), Max: rgfilter.Int32Literal(20)},
		// bounds written with a wider scale
		2: {
			ValueCount: 10, HasNullCount: true,
			Min: rgfilter.DecimalLiteral{Val: decimal128.FromI64(10000), Scale: 3},
			Max: rgfilter.DecimalLiteral{Val: decimal128.FromI64(20000), Scale: 3},
		},
		3: {ValueCount: 10, HasNullCount: true, Min: rgfilter.Float64Literal(math.NaN()), Max: rgfilter.Float64Literal(2)},
		// not comparable with a string column at all
		4: {ValueCount: 10, HasNullCount: true, Min: rgfilter.BoolLiteral(false), Max: rgfilter.BoolLiteral(true)},
	}}

	tests := []struct {
		expr rgfilter.BooleanExpression
		read bool
	}{
		{rgfilter.LessThan(ref("l"), int64(10)), false},
		{rgfilter.GreaterThan(ref("l"), int64(19)), true},
		{rgfilter.GreaterThan(ref("l"), int64(20)), false},
		{rgfilter.EqualTo(ref("d"), "10.00"), true},
		{rgfilter.EqualTo(ref("d"), "9.99"), false},
		{rgfilter.GreaterThan(ref("d"), "20.00"), false},
		{rgfilter.GreaterThanEqual(ref("d"), "20.00"), true},
		// a NaN lower bound cannot be trusted
		{rgfilter.LessThan(ref("f"), float64(-100)), true},
		{rgfilter.EqualTo(ref("f"), float64(-100)), true},
		{rgfilter.GreaterThan(ref("f"), float64(2)), false},
		{rgfilter.EqualTo(ref("s"), "x"), true},
	}

	for _, tt := range tests {
		f, err := rowgroup.NewFilter(schema, tt.expr)
		require.NoError(t, err)
		assert.Equalf(t, tt.read, f.ShouldRead(physical, block), "%s", tt.expr)
	}
}

func TestEvaluateSurfacesErrors(t *testing.T) {
	schema := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "b", Type: rgfilter.PrimitiveTypes.Binary, Required: true})
	physical := stats.MustPhysicalSchema(stats.PhysicalColumn{ID: 1, Path: "b", Type: "BYTE_ARRAY"})
	block := &stats.BlockMetadata{RowCount: 3, Columns: map[int]stats.ColumnMetrics{
		1: {ValueCount: 3, HasNullCount: true, Min: rgfilter.BinaryLiteral{0x01}, Max: rgfilter.BinaryLiteral{0xff}},
	}}

	f, err := rowgroup.NewFilter(schema, rgfilter.EqualTo(ref("b"), []byte{0x00}))
	require.NoError(t, err)

	read, err := f.Evaluate(physical, block)
	require.NoError(t, err)
	assert.False(t, read)

	read, err = f.Evaluate(physical, &stats.BlockMetadata{RowCount: 0})
	require.NoError(t, err)
	assert.False(t, read)
}

func TestConcurrentShouldRead(t *testing.T) {
	f, err := rowgroup.NewFilter(tableSchema, rgfilter.NewOr(
		rgfilter.LessThan(ref("id"), int32(5)),
		rgfilter.IsNull(ref("no_nulls"))))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = f.ShouldRead(fileSchema, rowGroup)
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.False(t, r)
	}
}
