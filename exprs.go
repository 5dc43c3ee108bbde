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

package rgfilter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Operation is an enum used for constants to define what operation a given
// expression or predicate is going to execute.
type Operation int

const (
	// do not change the order of these enum constants.
	// they are grouped for quick validation of operation type by
	// using <= and >= of the first/last operation in a group

	OpTrue Operation = iota
	OpFalse
	// unary ops
	OpIsNull
	OpNotNull
	// literal ops
	OpLT
	OpLTEQ
	OpGT
	OpGTEQ
	OpEQ
	OpNEQ
	// set ops
	OpIn
	OpNotIn
	// boolean ops
	OpNot
	OpAnd
	OpOr
)

var opNames = [...]string{
	OpTrue:    "True",
	OpFalse:   "False",
	OpIsNull:  "IsNull",
	OpNotNull: "NotNull",
	OpLT:      "LessThan",
	OpLTEQ:    "LessThanEqual",
	OpGT:      "GreaterThan",
	OpGTEQ:    "GreaterThanEqual",
	OpEQ:      "Equal",
	OpNEQ:     "NotEqual",
	OpIn:      "In",
	OpNotIn:   "NotIn",
	OpNot:     "Not",
	OpAnd:     "And",
	OpOr:      "Or",
}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}

	return opNames[op]
}

// Negate returns the inverse operation for a given op
func (op Operation) Negate() Operation {
	switch op {
	case OpIsNull:
		return OpNotNull
	case OpNotNull:
		return OpIsNull
	case OpLT:
		return OpGTEQ
	case OpLTEQ:
		return OpGT
	case OpGT:
		return OpLTEQ
	case OpGTEQ:
		return OpLT
	case OpEQ:
		return OpNEQ
	case OpNEQ:
		return OpEQ
	case OpIn:
		return OpNotIn
	case OpNotIn:
		return OpIn
	default:
		panic("no negation for operation " + op.String())
	}
}

// BooleanExpression represents a full expression which will evaluate to a
// boolean value such as GreaterThan or IsNull, etc.
type BooleanExpression interface {
	fmt.Stringer
	Op() Operation
	Negate() BooleanExpression
	Equals(BooleanExpression) bool
}

// AlwaysTrue is the boolean expression "True"
type AlwaysTrue struct{}

func (AlwaysTrue) String() string            { return "AlwaysTrue()" }
func (AlwaysTrue) Op() Operation             { return OpTrue }
func (AlwaysTrue) Negate() BooleanExpression { return AlwaysFalse{} }
func (AlwaysTrue) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysTrue)

	return ok
}

// AlwaysFalse is the boolean expression "False"
type AlwaysFalse struct{}

func (AlwaysFalse) String() string            { return "AlwaysFalse()" }
func (AlwaysFalse) Op() Operation             { return OpFalse }
func (AlwaysFalse) Negate() BooleanExpression { return AlwaysTrue{} }
func (AlwaysFalse) Equals(other BooleanExpression) bool {
	_, ok := other.(AlwaysFalse)

	return ok
}

type NotExpr struct {
	child BooleanExpression
}

// NewNot creates a BooleanExpression representing a "Not" operation on the
// given argument. Constants are inverted directly and a double negation
// returns the inner child.
//
// Will panic if child is nil
func NewNot(child BooleanExpression) BooleanExpression {
	if child == nil {
		panic(fmt.Errorf("%w: cannot create NotExpr with nil child",
			ErrInvalidArgument))
	}

	switch t := child.(type) {
	case NotExpr:
		return t.child
	case AlwaysTrue:
		return AlwaysFalse{}
	case AlwaysFalse:
		return AlwaysTrue{}
	}

	return NotExpr{child: child}
}

func (n NotExpr) Child() BooleanExpression  { return n.child }
func (n NotExpr) String() string            { return "Not(child=" + n.child.String() + ")" }
func (NotExpr) Op() Operation               { return OpNot }
func (n NotExpr) Negate() BooleanExpression { return n.child }
func (n NotExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(NotExpr)

	return ok && n.child.Equals(rhs.child)
}

type AndExpr struct {
	left, right BooleanExpression
}

func newAnd(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct AndExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysFalse{} || right == AlwaysFalse{}:
		return AlwaysFalse{}
	case left == AlwaysTrue{}:
		return right
	case right == AlwaysTrue{}:
		return left
	}

	return AndExpr{left: left, right: right}
}

// NewAnd folds its arguments into a right-leaning tree of AndExpr, so
// NewAnd(a, b, c) is AndExpr(AndExpr(a, b), c). AlwaysFalse absorbs the
// whole conjunction and AlwaysTrue operands are dropped.
//
// Will panic if any argument is nil
func NewAnd(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newAnd(left, right)
	for _, a := range addl {
		folded = newAnd(folded, a)
	}

	return folded
}

func (a AndExpr) Left() BooleanExpression  { return a.left }
func (a AndExpr) Right() BooleanExpression { return a.right }
func (AndExpr) Op() Operation              { return OpAnd }
func (a AndExpr) String() string {
	return "And(left=" + a.left.String() + ", right=" + a.right.String() + ")"
}

func (a AndExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(AndExpr)
	if !ok {
		return false
	}

	return (a.left.Equals(rhs.left) && a.right.Equals(rhs.right)) ||
		(a.left.Equals(rhs.right) && a.right.Equals(rhs.left))
}

func (a AndExpr) Negate() BooleanExpression {
	return NewOr(a.left.Negate(), a.right.Negate())
}

type OrExpr struct {
	left, right BooleanExpression
}

func newOr(left, right BooleanExpression) BooleanExpression {
	if left == nil || right == nil {
		panic(fmt.Errorf("%w: cannot construct OrExpr with nil arguments",
			ErrInvalidArgument))
	}

	switch {
	case left == AlwaysTrue{} || right == AlwaysTrue{}:
		return AlwaysTrue{}
	case left == AlwaysFalse{}:
		return right
	case right == AlwaysFalse{}:
		return left
	}

	return OrExpr{left: left, right: right}
}

// NewOr is the disjunctive counterpart of NewAnd: AlwaysTrue absorbs the
// whole expression and AlwaysFalse operands are dropped.
//
// Will panic if any argument is nil
func NewOr(left, right BooleanExpression, addl ...BooleanExpression) BooleanExpression {
	folded := newOr(left, right)
	for _, a := range addl {
		folded = newOr(folded, a)
	}

	return folded
}

func (o OrExpr) Left() BooleanExpression  { return o.left }
func (o OrExpr) Right() BooleanExpression { return o.right }
func (OrExpr) Op() Operation              { return OpOr }
func (o OrExpr) String() string {
	return "Or(left=" + o.left.String() + ", right=" + o.right.String() + ")"
}

func (o OrExpr) Equals(other BooleanExpression) bool {
	rhs, ok := other.(OrExpr)
	if !ok {
		return false
	}

	return (o.left.Equals(rhs.left) && o.right.Equals(rhs.right)) ||
		(o.left.Equals(rhs.right) && o.right.Equals(rhs.left))
}

func (o OrExpr) Negate() BooleanExpression {
	return NewAnd(o.left.Negate(), o.right.Negate())
}

// UnboundTerm is a column reference that hasn't been resolved against a
// schema yet, so its type is unknown.
type UnboundTerm interface {
	fmt.Stringer

	Equals(UnboundTerm) bool
	Bind(schema *Schema, caseSensitive bool) (BoundReference, error)
}

// An UnboundPredicate represents a boolean predicate expression which has not
// yet been bound to a schema. Binding it will produce a BooleanExpression.
//
// BooleanExpression is used for the binding result because binding may fold
// the predicate to AlwaysTrue / AlwaysFalse, which carry no reference.
type UnboundPredicate interface {
	BooleanExpression
	Bind(schema *Schema, caseSensitive bool) (BooleanExpression, error)
	Term() UnboundTerm
}

// BoundPredicate is a boolean predicate expression which has been bound to a
// schema. Every bound predicate references a field that exists in that schema.
type BoundPredicate interface {
	BooleanExpression
	Ref() BoundReference
}

// Reference is a column name, possibly dotted, not yet bound to a field.
type Reference string

func (r Reference) String() string {
	return "Reference(name='" + string(r) + "')"
}

func (r Reference) Equals(other UnboundTerm) bool {
	rhs, ok := other.(Reference)

	return ok && r == rhs
}

func (r Reference) Bind(s *Schema, caseSensitive bool) (BoundReference, error) {
	var (
		field NestedField
		found bool
	)

	if caseSensitive {
		field, found = s.FindFieldByName(string(r))
	} else {
		field, found = s.FindFieldByNameCaseInsensitive(string(r))
	}
	if !found {
		return nil, fmt.Errorf("%w: cannot find field '%s' in schema, caseSensitive=%t",
			ErrUnknownColumn, string(r), caseSensitive)
	}

	return &boundRef{field: field, nullable: !field.Required || s.FieldHasOptionalParent(field.ID)}, nil
}

// BoundReference is a reference that has been resolved to a field of a
// schema. Only the field ID identifies the column from here on.
type BoundReference interface {
	fmt.Stringer

	Equals(BoundReference) bool
	Field() NestedField
	Type() Type
	// Nullable reports whether the column can hold nulls, either because
	// it is optional or because one of its ancestors is.
	Nullable() bool
}

type boundRef struct {
	field    NestedField
	nullable bool
}

func (b *boundRef) String() string {
	return fmt.Sprintf("BoundReference(field=%s)", b.field)
}

func (b *boundRef) Equals(other BoundReference) bool {
	rhs, ok := other.(*boundRef)

	return ok && b.field.Equals(rhs.field)
}

func (b *boundRef) Field() NestedField { return b.field }
func (b *boundRef) Type() Type         { return b.field.Type }
func (b *boundRef) Nullable() bool     { return b.nullable }

// UnaryPredicate creates and returns an unbound predicate for the provided unary operation.
// Will panic if op is not a unary operation.
func UnaryPredicate(op Operation, t UnboundTerm) UnboundPredicate {
	if op < OpIsNull || op > OpNotNull {
		panic(fmt.Errorf("%w: invalid operation for unary predicate: %s",
			ErrInvalidArgument, op))
	}

	if t == nil {
		panic(fmt.Errorf("%w: cannot create unary predicate with nil term",
			ErrInvalidArgument))
	}

	return &unboundUnaryPredicate{op: op, term: t}
}

type unboundUnaryPredicate struct {
	op   Operation
	term UnboundTerm
}

func (up *unboundUnaryPredicate) String() string {
	return fmt.Sprintf("%s(term=%s)", up.op, up.term)
}

func (up *unboundUnaryPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*unboundUnaryPredicate)

	return ok && up.op == rhs.op && up.term.Equals(rhs.term)
}

func (up *unboundUnaryPredicate) Op() Operation     { return up.op }
func (up *unboundUnaryPredicate) Term() UnboundTerm { return up.term }
func (up *unboundUnaryPredicate) Negate() BooleanExpression {
	return &unboundUnaryPredicate{op: up.op.Negate(), term: up.term}
}

func (up *unboundUnaryPredicate) Bind(schema *Schema, caseSensitive bool) (BooleanExpression, error) {
	ref, err := up.term.Bind(schema, caseSensitive)
	if err != nil {
		return nil, err
	}

	// a required column without optional ancestors never holds a null
	if !ref.Nullable() {
		if up.op == OpIsNull {
			return AlwaysFalse{}, nil
		}

		return AlwaysTrue{}, nil
	}

	return &BoundUnaryPredicate{op: up.op, ref: ref}, nil
}

// BoundUnaryPredicate is IsNull or NotNull bound to a nullable column.
type BoundUnaryPredicate struct {
	op  Operation
	ref BoundReference
}

func (bp *BoundUnaryPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*BoundUnaryPredicate)

	return ok && bp.op == rhs.op && bp.ref.Equals(rhs.ref)
}

func (bp *BoundUnaryPredicate) Op() Operation       { return bp.op }
func (bp *BoundUnaryPredicate) Ref() BoundReference { return bp.ref }
func (bp *BoundUnaryPredicate) Negate() BooleanExpression {
	return &BoundUnaryPredicate{op: bp.op.Negate(), ref: bp.ref}
}

func (bp *BoundUnaryPredicate) String() string {
	return fmt.Sprintf("Bound%s(term=%s)", bp.op, bp.ref)
}

// LiteralPredicate constructs an unbound predicate for an operation that
// compares a column to a single literal, such as LessThan.
//
// Panics if the operation provided is not a valid Literal operation,
// if the term is nil or if the literal is nil.
func LiteralPredicate(op Operation, t UnboundTerm, lit Literal) UnboundPredicate {
	switch {
	case op < OpLT || op > OpNEQ:
		panic(fmt.Errorf("%w: invalid operation for LiteralPredicate: %s",
			ErrInvalidArgument, op))
	case t == nil:
		panic(fmt.Errorf("%w: cannot create literal predicate with nil term",
			ErrInvalidArgument))
	case lit == nil:
		panic(fmt.Errorf("%w: cannot create literal predicate with nil literal",
			ErrInvalidArgument))
	}

	return &unboundLiteralPredicate{op: op, term: t, lit: lit}
}

type unboundLiteralPredicate struct {
	op   Operation
	term UnboundTerm
	lit  Literal
}

func (ul *unboundLiteralPredicate) String() string {
	return fmt.Sprintf("%s(term=%s, literal=%s)", ul.op, ul.term, ul.lit)
}

func (ul *unboundLiteralPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*unboundLiteralPredicate)

	return ok && ul.op == rhs.op && ul.term.Equals(rhs.term) && ul.lit.Equals(rhs.lit)
}

func (ul *unboundLiteralPredicate) Op() Operation     { return ul.op }
func (ul *unboundLiteralPredicate) Term() UnboundTerm { return ul.term }
func (ul *unboundLiteralPredicate) Literal() Literal  { return ul.lit }
func (ul *unboundLiteralPredicate) Negate() BooleanExpression {
	return &unboundLiteralPredicate{op: ul.op.Negate(), term: ul.term, lit: ul.lit}
}

func (ul *unboundLiteralPredicate) Bind(schema *Schema, caseSensitive bool) (BooleanExpression, error) {
	ref, err := ul.term.Bind(schema, caseSensitive)
	if err != nil {
		return nil, err
	}

	lit, err := coerceLiteral(ref, ul.lit)
	if err != nil {
		return nil, err
	}

	switch lit.(type) {
	case AboveMaxLiteral:
		switch ul.op {
		case OpLT, OpLTEQ, OpNEQ:
			return AlwaysTrue{}, nil
		case OpGT, OpGTEQ, OpEQ:
			return AlwaysFalse{}, nil
		}
	case BelowMinLiteral:
		switch ul.op {
		case OpLT, OpLTEQ, OpEQ:
			return AlwaysFalse{}, nil
		case OpGT, OpGTEQ, OpNEQ:
			return AlwaysTrue{}, nil
		}
	}

	return newBoundLiteralPredicate(ul.op, ref, lit)
}

func coerceLiteral(ref BoundReference, lit Literal) (Literal, error) {
	if IsGrouping(ref.Type()) {
		return nil, fmt.Errorf("%w: cannot compare %s column '%s' to literal %s",
			ErrTypeMismatch, ref.Type().Type(), ref.Field().Name, lit)
	}

	out, err := lit.To(ref.Type())
	if err != nil {
		return nil, fmt.Errorf("%w: column '%s': %w", ErrTypeMismatch, ref.Field().Name, err)
	}

	return out, nil
}

// BoundLiteralPredicate compares a bound column with a single literal
// that has already been converted to the column's type.
type BoundLiteralPredicate interface {
	BoundPredicate

	Literal() Literal
}

func newBoundLiteralPredicate(op Operation, ref BoundReference, lit Literal) (BoundPredicate, error) {
	switch ref.Type().(type) {
	case BooleanType:
		return newTypedLiteralPredicate[bool](op, ref, lit)
	case Int32Type:
		return newTypedLiteralPredicate[int32](op, ref, lit)
	case Int64Type:
		return newTypedLiteralPredicate[int64](op, ref, lit)
	case Float32Type:
		return newTypedLiteralPredicate[float32](op, ref, lit)
	case Float64Type:
		return newTypedLiteralPredicate[float64](op, ref, lit)
	case DateType:
		return newTypedLiteralPredicate[Date](op, ref, lit)
	case TimeType:
		return newTypedLiteralPredicate[Time](op, ref, lit)
	case TimestampType, TimestampTzType:
		return newTypedLiteralPredicate[Timestamp](op, ref, lit)
	case StringType:
		return newTypedLiteralPredicate[string](op, ref, lit)
	case FixedType, BinaryType:
		return newTypedLiteralPredicate[[]byte](op, ref, lit)
	case DecimalType:
		return newTypedLiteralPredicate[Decimal](op, ref, lit)
	case UUIDType:
		return newTypedLiteralPredicate[uuid.UUID](op, ref, lit)
	}

	return nil, fmt.Errorf("%w: could not create bound literal predicate for term type %s",
		ErrInvalidArgument, ref.Type())
}

func newTypedLiteralPredicate[T LiteralType](op Operation, ref BoundReference, lit Literal) (BoundPredicate, error) {
	typed, ok := lit.(TypedLiteral[T])
	if !ok {
		return nil, fmt.Errorf("%w: literal %s has type %s, expected %s",
			ErrTypeMismatch, lit, lit.Type(), ref.Type())
	}

	return &boundLiteralPredicate[T]{op: op, ref: ref, lit: typed}, nil
}

type boundLiteralPredicate[T LiteralType] struct {
	op  Operation
	ref BoundReference
	lit TypedLiteral[T]
}

func (blp *boundLiteralPredicate[T]) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*boundLiteralPredicate[T])

	return ok && blp.op == rhs.op && blp.ref.Equals(rhs.ref) && blp.lit.Equals(rhs.lit)
}

func (blp *boundLiteralPredicate[T]) Op() Operation       { return blp.op }
func (blp *boundLiteralPredicate[T]) Ref() BoundReference { return blp.ref }
func (blp *boundLiteralPredicate[T]) Literal() Literal    { return blp.lit }
func (blp *boundLiteralPredicate[T]) Negate() BooleanExpression {
	return &boundLiteralPredicate[T]{op: blp.op.Negate(), ref: blp.ref, lit: blp.lit}
}

func (blp *boundLiteralPredicate[T]) String() string {
	return fmt.Sprintf("Bound%s(term=%s, literal=%s)", blp.op, blp.ref, blp.lit)
}

// SetPredicate creates a boolean expression representing a predicate that
// uses a set of literals as the argument, like In or NotIn. Duplicate
// literals are dropped. An empty set folds to a constant and a single
// literal reduces to Equal / NotEqual.
//
// Will panic if op is not a valid Set operation
func SetPredicate(op Operation, t UnboundTerm, lits []Literal) BooleanExpression {
	if op < OpIn || op > OpNotIn {
		panic(fmt.Errorf("%w: invalid operation for SetPredicate: %s",
			ErrInvalidArgument, op))
	}

	if t == nil {
		panic(fmt.Errorf("%w: cannot create set predicate with nil term",
			ErrInvalidArgument))
	}

	set := newLiteralSet(lits...)
	switch len(set) {
	case 0:
		if op == OpIn {
			return AlwaysFalse{}
		}

		return AlwaysTrue{}
	case 1:
		if op == OpIn {
			return LiteralPredicate(OpEQ, t, set[0])
		}

		return LiteralPredicate(OpNEQ, t, set[0])
	}

	return &unboundSetPredicate{op: op, term: t, lits: set}
}

// literalSet keeps literals in insertion order without duplicates.
type literalSet []Literal

func newLiteralSet(lits ...Literal) literalSet {
	out := make(literalSet, 0, len(lits))
	for _, l := range lits {
		if l == nil {
			panic(fmt.Errorf("%w: nil literal in set", ErrInvalidArgument))
		}

		if !out.contains(l) {
			out = append(out, l)
		}
	}

	return out
}

func (s literalSet) contains(l Literal) bool {
	return slices.ContainsFunc(s, l.Equals)
}

func (s literalSet) equals(other literalSet) bool {
	return len(s) == len(other) && !slices.ContainsFunc(s, func(l Literal) bool {
		return !other.contains(l)
	})
}

func (s literalSet) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.String()
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

type unboundSetPredicate struct {
	op   Operation
	term UnboundTerm
	lits literalSet
}

func (usp *unboundSetPredicate) String() string {
	return fmt.Sprintf("%s(term=%s, %s)", usp.op, usp.term, usp.lits)
}

func (usp *unboundSetPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*unboundSetPredicate)

	return ok && usp.op == rhs.op && usp.term.Equals(rhs.term) && usp.lits.equals(rhs.lits)
}

func (usp *unboundSetPredicate) Op() Operation       { return usp.op }
func (usp *unboundSetPredicate) Term() UnboundTerm   { return usp.term }
func (usp *unboundSetPredicate) Literals() []Literal { return slices.Clone(usp.lits) }
func (usp *unboundSetPredicate) Negate() BooleanExpression {
	return &unboundSetPredicate{op: usp.op.Negate(), term: usp.term, lits: usp.lits}
}

func (usp *unboundSetPredicate) Bind(schema *Schema, caseSensitive bool) (BooleanExpression, error) {
	ref, err := usp.term.Bind(schema, caseSensitive)
	if err != nil {
		return nil, err
	}

	typed := make(literalSet, 0, len(usp.lits))
	for _, l := range usp.lits {
		coerced, err := coerceLiteral(ref, l)
		if err != nil {
			return nil, err
		}

		switch coerced.(type) {
		case AboveMaxLiteral, BelowMinLiteral:
			// no value of the column can be equal to it
			continue
		}

		if !typed.contains(coerced) {
			typed = append(typed, coerced)
		}
	}

	switch len(typed) {
	case 0:
		if usp.op == OpIn {
			return AlwaysFalse{}, nil
		}

		return AlwaysTrue{}, nil
	case 1:
		if usp.op == OpIn {
			return newBoundLiteralPredicate(OpEQ, ref, typed[0])
		}

		return newBoundLiteralPredicate(OpNEQ, ref, typed[0])
	}

	return &BoundSetPredicate{op: usp.op, ref: ref, lits: typed}, nil
}

// BoundSetPredicate is In or NotIn bound to a column, with at least two
// literals of the column's type.
type BoundSetPredicate struct {
	op   Operation
	ref  BoundReference
	lits literalSet
}

func (bsp *BoundSetPredicate) Equals(other BooleanExpression) bool {
	rhs, ok := other.(*BoundSetPredicate)

	return ok && bsp.op == rhs.op && bsp.ref.Equals(rhs.ref) && bsp.lits.equals(rhs.lits)
}

func (bsp *BoundSetPredicate) Op() Operation       { return bsp.op }
func (bsp *BoundSetPredicate) Ref() BoundReference { return bsp.ref }
func (bsp *BoundSetPredicate) Literals() []Literal { return slices.Clone(bsp.lits) }
func (bsp *BoundSetPredicate) Negate() BooleanExpression {
	return &BoundSetPredicate{op: bsp.op.Negate(), ref: bsp.ref, lits: bsp.lits}
}

func (bsp *BoundSetPredicate) String() string {
	return fmt.Sprintf("Bound%s(term=%s, %s)", bsp.op, bsp.ref, bsp.lits)
}
