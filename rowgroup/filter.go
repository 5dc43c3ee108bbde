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

// Package rowgroup decides, from column statistics alone, whether a block
// of a data file can contain rows matching a predicate.
package rowgroup

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/stats"
)

const (
	rowsMightMatch  = true
	rowsCannotMatch = false

	// in predicates with more values than this are not checked
	// against the bounds
	inPredicateLimit = 200
)

type options struct {
	caseSensitive bool
	rewriteNot    bool
}

type Option func(*options)

// WithCaseSensitive controls how column names in the predicate are matched
// against the schema. Matching is case sensitive by default.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(o *options) { o.caseSensitive = caseSensitive }
}

// WithNotRewrite pushes every negation in the predicate down to the leaves
// before binding, so that Not is never evaluated as a flip of a
// might-match answer.
func WithNotRewrite() Option {
	return func(o *options) { o.rewriteNot = true }
}

// Filter is a predicate bound to a table schema, ready to be evaluated
// against the statistics of any number of blocks. A Filter is immutable
// and safe for concurrent use.
type Filter struct {
	schema *rgfilter.Schema
	expr   rgfilter.BooleanExpression
}

// NewFilter binds expr to the schema. Unknown columns are reported with
// rgfilter.ErrUnknownColumn and literals that cannot be converted to the
// column type without loss with rgfilter.ErrTypeMismatch.
//
// Without WithNotRewrite a Not node flips the might-match answer of its
// child. That can skip blocks holding matching rows: Not(id == 30) skips
// a block with ids 30 to 79 because id == 30 might match. Pass
// WithNotRewrite when such false negatives are not acceptable.
func NewFilter(schema *rgfilter.Schema, expr rgfilter.BooleanExpression, opts ...Option) (*Filter, error) {
	if schema == nil || expr == nil {
		return nil, fmt.Errorf("%w: row group filter needs a schema and an expression",
			rgfilter.ErrInvalidArgument)
	}

	o := options{caseSensitive: true}
	for _, opt := range opts {
		opt(&o)
	}

	var err error
	if o.rewriteNot {
		if expr, err = rgfilter.RewriteNotExpr(expr); err != nil {
			return nil, err
		}
	}

	bound, err := rgfilter.BindExpr(schema, expr, o.caseSensitive)
	if err != nil {
		return nil, err
	}

	return &Filter{schema: schema, expr: bound}, nil
}

func (f *Filter) Schema() *rgfilter.Schema { return f.schema }

// Expr returns the bound, simplified predicate.
func (f *Filter) Expr() rgfilter.BooleanExpression { return f.expr }

func (f *Filter) String() string { return f.expr.String() }

// ShouldRead reports whether the block might contain rows matching the
// filter. A false answer means the block can be skipped. A nil physical
// schema gives no way to find the block's columns, so the block is read.
// See NewFilter for how negations are evaluated.
func (f *Filter) ShouldRead(physical *stats.PhysicalSchema, block *stats.BlockMetadata) bool {
	read, err := f.Evaluate(physical, block)
	if err != nil {
		return rowsMightMatch
	}

	return read
}

// Evaluate is ShouldRead with the evaluation error, if any, surfaced. The
// boolean result is true whenever the error is non-nil.
func (f *Filter) Evaluate(physical *stats.PhysicalSchema, block *stats.BlockMetadata) (bool, error) {
	if block == nil || block.RowCount == 0 {
		return rowsCannotMatch, nil
	}

	if physical == nil {
		return rowsMightMatch, nil
	}

	read, err := rgfilter.VisitExpr(f.expr, &metricsEval{acc: stats.NewAccessor(physical, block)})
	if err != nil {
		return rowsMightMatch, err
	}

	return read, nil
}

type columnState int

const (
	// nothing is known about the values
	columnUnknown columnState = iota
	// the file does not have the column, every value is null
	columnAbsent
	columnHasMetrics
)

type metricsEval struct {
	acc stats.Accessor
}

func (m *metricsEval) VisitTrue() bool                { return rowsMightMatch }
func (m *metricsEval) VisitFalse() bool               { return rowsCannotMatch }
func (m *metricsEval) VisitNot(child bool) bool       { return !child }
func (m *metricsEval) VisitAnd(left, right bool) bool { return left && right }
func (m *metricsEval) VisitOr(left, right bool) bool  { return left || right }

func (m *metricsEval) VisitUnbound(rgfilter.UnboundPredicate) bool {
	panic("need bound predicate")
}

func (m *metricsEval) VisitBound(pred rgfilter.BoundPredicate) bool {
	return rgfilter.VisitBoundPredicate(pred, m)
}

func (m *metricsEval) column(ref rgfilter.BoundReference) (stats.ColumnMetrics, columnState) {
	if rgfilter.IsGrouping(ref.Type()) {
		return stats.ColumnMetrics{}, columnUnknown
	}

	id := ref.Field().ID
	if !m.acc.HasColumn(id) {
		return stats.ColumnMetrics{}, columnAbsent
	}

	cm, ok := m.acc.MetricsFor(id)
	if !ok || cm.Grouping {
		return stats.ColumnMetrics{}, columnUnknown
	}

	return cm, columnHasMetrics
}

// comparable returns the metrics of a column that a comparison can be
// checked against. If ok is false the comparison is already decided and
// res holds the outcome.
func (m *metricsEval) comparable(ref rgfilter.BoundReference) (cm stats.ColumnMetrics, res, ok bool) {
	cm, state := m.column(ref)
	switch state {
	case columnUnknown:
		return cm, rowsMightMatch, false
	case columnAbsent:
		return cm, rowsCannotMatch, false
	}

	if cm.AllNull() {
		return cm, rowsCannotMatch, false
	}

	return cm, false, true
}

func (m *metricsEval) VisitIsNull(ref rgfilter.BoundReference) bool {
	cm, state := m.column(ref)
	if state != columnHasMetrics || !cm.HasNullCount {
		return rowsMightMatch
	}

	return cm.NullCount > 0
}

func (m *metricsEval) VisitNotNull(ref rgfilter.BoundReference) bool {
	cm, state := m.column(ref)
	switch {
	case state == columnAbsent:
		return rowsCannotMatch
	case state == columnUnknown || !cm.HasNullCount:
		return rowsMightMatch
	}

	return cm.NullCount < cm.ValueCount
}

func (m *metricsEval) VisitLess(ref rgfilter.BoundReference, lit rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	lower, ok := usableBound(ref.Type(), cm.Min)
	if !ok {
		return rowsMightMatch
	}

	if getCmpLiteral(lit)(lower, lit) >= 0 {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

func (m *metricsEval) VisitLessEqual(ref rgfilter.BoundReference, lit rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	lower, ok := usableBound(ref.Type(), cm.Min)
	if !ok {
		return rowsMightMatch
	}

	if getCmpLiteral(lit)(lower, lit) > 0 {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

func (m *metricsEval) VisitGreater(ref rgfilter.BoundReference, lit rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	upper, ok := usableBound(ref.Type(), cm.Max)
	if !ok {
		return rowsMightMatch
	}

	if getCmpLiteral(lit)(upper, lit) <= 0 {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

func (m *metricsEval) VisitGreaterEqual(ref rgfilter.BoundReference, lit rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	upper, ok := usableBound(ref.Type(), cm.Max)
	if !ok {
		return rowsMightMatch
	}

	if getCmpLiteral(lit)(upper, lit) < 0 {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

func (m *metricsEval) VisitEqual(ref rgfilter.BoundReference, lit rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	lower, upper, ok := usableBounds(ref.Type(), cm)
	if !ok {
		return rowsMightMatch
	}

	cmp := getCmpLiteral(lit)
	if cmp(lower, lit) > 0 || cmp(upper, lit) < 0 {
		return rowsCannotMatch
	}

	return rowsMightMatch
}

// VisitNotEqual always reads: the bounds say nothing about whether a value
// other than the literal is present.
func (m *metricsEval) VisitNotEqual(rgfilter.BoundReference, rgfilter.Literal) bool {
	return rowsMightMatch
}

func (m *metricsEval) VisitIn(ref rgfilter.BoundReference, lits []rgfilter.Literal) bool {
	cm, res, ok := m.comparable(ref)
	if !ok {
		return res
	}

	if len(lits) > inPredicateLimit {
		return rowsMightMatch
	}

	lower, upper, ok := usableBounds(ref.Type(), cm)
	if !ok {
		return rowsMightMatch
	}

	for _, lit := range lits {
		cmp := getCmpLiteral(lit)
		if cmp(lower, lit) <= 0 && cmp(upper, lit) >= 0 {
			return rowsMightMatch
		}
	}

	return rowsCannotMatch
}

func (m *metricsEval) VisitNotIn(rgfilter.BoundReference, []rgfilter.Literal) bool {
	return rowsMightMatch
}

func usableBounds(typ rgfilter.Type, cm stats.ColumnMetrics) (lower, upper rgfilter.Literal, ok bool) {
	if lower, ok = usableBound(typ, cm.Min); !ok {
		return nil, nil, false
	}

	if upper, ok = usableBound(typ, cm.Max); !ok {
		return nil, nil, false
	}

	return lower, upper, true
}

// usableBound converts a statistics bound to the column type. Bounds that
// are missing, NaN or not representable in the column type cannot be
// compared against.
func usableBound(typ rgfilter.Type, bound rgfilter.Literal) (rgfilter.Literal, bool) {
	if bound == nil || rgfilter.LiteralIsNaN(bound) {
		return nil, false
	}

	if sameRepresentation(typ, bound) {
		return bound, true
	}

	out, err := bound.To(typ)
	if err != nil {
		return nil, false
	}

	switch out.(type) {
	case rgfilter.AboveMaxLiteral, rgfilter.BelowMinLiteral:
		return nil, false
	}

	return out, !rgfilter.LiteralIsNaN(out)
}

func sameRepresentation(typ rgfilter.Type, bound rgfilter.Literal) bool {
	switch typ.(type) {
	case rgfilter.DecimalType:
		// the comparator rescales
		_, ok := bound.(rgfilter.DecimalLiteral)

		return ok
	case rgfilter.TimestampType, rgfilter.TimestampTzType:
		_, ok := bound.(rgfilter.TimestampLiteral)

		return ok
	}

	return bound.Type().Equals(typ)
}

func getCmp[T rgfilter.LiteralType](b rgfilter.TypedLiteral[T]) func(rgfilter.Literal, rgfilter.Literal) int {
	cmp := b.Comparator()

	return func(l1, l2 rgfilter.Literal) int {
		return cmp(l1.(rgfilter.TypedLiteral[T]).Value(), l2.(rgfilter.TypedLiteral[T]).Value())
	}
}

func getCmpLiteral(boundary rgfilter.Literal) func(rgfilter.Literal, rgfilter.Literal) int {
	switch l := boundary.(type) {
	case rgfilter.TypedLiteral[bool]:
		return getCmp(l)
	case rgfilter.TypedLiteral[int32]:
		return getCmp(l)
	case rgfilter.TypedLiteral[int64]:
		return getCmp(l)
	case rgfilter.TypedLiteral[float32]:
		return getCmp(l)
	case rgfilter.TypedLiteral[float64]:
		return getCmp(l)
	case rgfilter.TypedLiteral[rgfilter.Date]:
		return getCmp(l)
	case rgfilter.TypedLiteral[rgfilter.Time]:
		return getCmp(l)
	case rgfilter.TypedLiteral[rgfilter.Timestamp]:
		return getCmp(l)
	case rgfilter.TypedLiteral[[]byte]:
		return getCmp(l)
	case rgfilter.TypedLiteral[string]:
		return getCmp(l)
	case rgfilter.TypedLiteral[uuid.UUID]:
		return getCmp(l)
	case rgfilter.TypedLiteral[rgfilter.Decimal]:
		return getCmp(l)
	}
	panic(fmt.Errorf("%w: no comparator for literal %s", rgfilter.ErrType, boundary))
}
