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
	"bytes"
	"cmp"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/google/uuid"
)

// LiteralType is the set of Go representation types a Literal can hold.
// Several column types share a representation: fixed and binary are both
// []byte, timestamp and timestamptz are both Timestamp.
type LiteralType interface {
	bool | int32 | int64 | float32 | float64 | Date |
		Time | Timestamp | string | []byte | uuid.UUID | Decimal
}

// Comparator is a comparison function for specific literal types:
//
//	returns 0 if v1 == v2
//	returns <0 if v1 < v2
//	returns >0 if v1 > v2
type Comparator[T LiteralType] func(v1, v2 T) int

// Literal is a non-null, typed constant. Literals appear in predicates and
// as the lower/upper bounds of column statistics.
type Literal interface {
	fmt.Stringer
	encoding.BinaryMarshaler

	Any() any
	Type() Type
	To(Type) (Literal, error)
	Equals(Literal) bool
}

// TypedLiteral exposes the underlying value of a Literal along with the
// comparator for its representation type.
type TypedLiteral[T LiteralType] interface {
	Literal

	Value() T
	Comparator() Comparator[T]
}

// NewLiteral provides a literal based on the type of T
func NewLiteral[T LiteralType](val T) Literal {
	switch v := any(val).(type) {
	case bool:
		return BoolLiteral(v)
	case int32:
		return Int32Literal(v)
	case int64:
		return Int64Literal(v)
	case float32:
		return Float32Literal(v)
	case float64:
		return Float64Literal(v)
	case Date:
		return DateLiteral(v)
	case Time:
		return TimeLiteral(v)
	case Timestamp:
		return TimestampLiteral(v)
	case string:
		return StringLiteral(v)
	case []byte:
		return BinaryLiteral(v)
	case uuid.UUID:
		return UUIDLiteral(v)
	case Decimal:
		return DecimalLiteral(v)
	}
	panic("can't happen due to literal type constraint")
}

// LiteralFromBytes decodes the single-value binary form produced by
// Literal.MarshalBinary for a value of the given type. Statistics indexes
// store their lower and upper bounds this way.
func LiteralFromBytes(typ Type, data []byte) (Literal, error) {
	if data == nil {
		return nil, ErrInvalidBinSerialization
	}

	switch t := typ.(type) {
	case BooleanType:
		if len(data) < 1 {
			return nil, fmt.Errorf("%w: expected at least 1 byte for bool", ErrInvalidBinSerialization)
		}

		return BoolLiteral(data[0] != 0), nil
	case Int32Type:
		v, err := fixedWidth[uint32](data, "int32")

		return Int32Literal(v), err
	case DateType:
		v, err := fixedWidth[uint32](data, "date")

		return DateLiteral(v), err
	case Int64Type:
		v, err := fixedWidth[uint64](data, "int64")

		return Int64Literal(v), err
	case TimeType:
		v, err := fixedWidth[uint64](data, "time")

		return TimeLiteral(v), err
	case TimestampType, TimestampTzType:
		v, err := fixedWidth[uint64](data, "timestamp")

		return TimestampLiteral(v), err
	case Float32Type:
		v, err := fixedWidth[uint32](data, "float32")

		return Float32Literal(math.Float32frombits(v)), err
	case Float64Type:
		v, err := fixedWidth[uint64](data, "float64")

		return Float64Literal(math.Float64frombits(v)), err
	case StringType:
		return StringLiteral(data), nil
	case BinaryType:
		return BinaryLiteral(bytes.Clone(data)), nil
	case FixedType:
		// some writers truncate fixed width bounds, pad them back out
		padded := make([]byte, max(t.Len(), len(data)))
		copy(padded, data)

		return FixedLiteral(padded), nil
	case UUIDType:
		v, err := uuid.FromBytes(data)
		if err != nil {
			return nil, errors.Join(ErrInvalidBinSerialization, err)
		}

		return UUIDLiteral(v), nil
	case DecimalType:
		return DecimalLiteral{Val: decimalFromTwosComplement(data), Scale: t.scale}, nil
	}

	return nil, fmt.Errorf("%w: no binary form for %s", ErrType, typ)
}

func fixedWidth[T uint32 | uint64](data []byte, name string) (T, error) {
	var z T
	switch any(z).(type) {
	case uint32:
		if len(data) != 4 {
			return z, fmt.Errorf("%w: expected 4 bytes for %s value, got %d",
				ErrInvalidBinSerialization, name, len(data))
		}

		return T(binary.LittleEndian.Uint32(data)), nil
	default:
		if len(data) != 8 {
			return z, fmt.Errorf("%w: expected 8 bytes for %s value, got %d",
				ErrInvalidBinSerialization, name, len(data))
		}

		return T(binary.LittleEndian.Uint64(data)), nil
	}
}

func le32(v uint32) []byte { return binary.LittleEndian.AppendUint32(nil, v) }
func le64(v uint64) []byte { return binary.LittleEndian.AppendUint64(nil, v) }

func literalEq[L interface {
	comparable
	LiteralType
}, T TypedLiteral[L]](lhs T, other Literal) bool {
	rhs, ok := other.(T)
	if !ok {
		return false
	}

	return lhs.Value() == rhs.Value()
}

// LiteralIsNaN reports whether lit is a floating point NaN.
func LiteralIsNaN(lit Literal) bool {
	switch v := lit.(type) {
	case Float32Literal:
		return math.IsNaN(float64(v))
	case Float64Literal:
		return math.IsNaN(float64(v))
	}

	return false
}

// AboveMaxLiteral is produced by a conversion whose source value is larger
// than anything the target type can hold, such as int64(1<<40) to int.
type AboveMaxLiteral interface {
	Literal

	aboveMax()
}

// BelowMinLiteral is the counterpart of AboveMaxLiteral for values that are
// smaller than the target type's minimum.
type BelowMinLiteral interface {
	Literal

	belowMin()
}

type outOfRange[T int32 | int64 | float32] struct {
	above bool
}

func (o outOfRange[T]) Type() Type {
	var z T
	switch any(z).(type) {
	case int32:
		return PrimitiveTypes.Int32
	case int64:
		return PrimitiveTypes.Int64
	default:
		return PrimitiveTypes.Float32
	}
}

func (o outOfRange[T]) MarshalBinary() ([]byte, error) {
	return nil, fmt.Errorf("%w: cannot marshal %s literal", ErrInvalidBinSerialization, o)
}

func (o outOfRange[T]) To(t Type) (Literal, error) {
	if o.Type().Equals(t) {
		if o.above {
			return aboveMax[T](), nil
		}

		return belowMin[T](), nil
	}

	return nil, fmt.Errorf("%w: cannot change type of %s %s literal", ErrBadCast, o, o.Type())
}

func (o outOfRange[T]) Any() any { return nil }

// out of range literals are not comparable, not even to themselves
func (o outOfRange[T]) Equals(Literal) bool { return false }

func (o outOfRange[T]) String() string {
	if o.above {
		return "AboveMax"
	}

	return "BelowMin"
}

type aboveMaxLiteral[T int32 | int64 | float32] struct{ outOfRange[T] }

func (aboveMaxLiteral[T]) aboveMax() {}

type belowMinLiteral[T int32 | int64 | float32] struct{ outOfRange[T] }

func (belowMinLiteral[T]) belowMin() {}

func aboveMax[T int32 | int64 | float32]() Literal {
	return aboveMaxLiteral[T]{outOfRange[T]{above: true}}
}

func belowMin[T int32 | int64 | float32]() Literal {
	return belowMinLiteral[T]{}
}

// narrowInt converts v to an int literal, folding out of range values.
func narrowInt(v int64) Literal {
	switch {
	case v > math.MaxInt32:
		return aboveMax[int32]()
	case v < math.MinInt32:
		return belowMin[int32]()
	}

	return Int32Literal(v)
}

func integerTo(v int64, name string, t Type) (Literal, error) {
	switch t := t.(type) {
	case Int32Type:
		return narrowInt(v), nil
	case Int64Type:
		return Int64Literal(v), nil
	case Float32Type:
		f := float32(v)
		if float64(f) >= math.MaxInt64 || int64(f) != v {
			return nil, fmt.Errorf("%w: %s %d to %s loses precision", ErrBadCast, name, v, t)
		}

		return Float32Literal(f), nil
	case Float64Type:
		f := float64(v)
		if f >= math.MaxInt64 || int64(f) != v {
			return nil, fmt.Errorf("%w: %s %d to %s loses precision", ErrBadCast, name, v, t)
		}

		return Float64Literal(f), nil
	case DateType:
		return DateLiteral(v), nil
	case TimeType:
		return TimeLiteral(v), nil
	case TimestampType, TimestampTzType:
		return TimestampLiteral(v), nil
	case DecimalType:
		out, err := decimal128.FromI64(v).Rescale(0, int32(t.scale))
		if err != nil {
			return nil, fmt.Errorf("%w: %s to %s: %w", ErrBadCast, name, t, err)
		}

		return DecimalLiteral{Val: out, Scale: t.scale}, nil
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrBadCast, name, t)
}

type BoolLiteral bool

func (BoolLiteral) Comparator() Comparator[bool] {
	return func(v1, v2 bool) int {
		switch {
		case v1 == v2:
			return 0
		case v1:
			return 1
		}

		return -1
	}
}

func (b BoolLiteral) Any() any       { return b.Value() }
func (b BoolLiteral) Type() Type     { return PrimitiveTypes.Bool }
func (b BoolLiteral) Value() bool    { return bool(b) }
func (b BoolLiteral) String() string { return strconv.FormatBool(bool(b)) }
func (b BoolLiteral) To(t Type) (Literal, error) {
	if _, ok := t.(BooleanType); ok {
		return b, nil
	}

	return nil, fmt.Errorf("%w: BoolLiteral to %s", ErrBadCast, t)
}

func (b BoolLiteral) Equals(l Literal) bool { return literalEq(b, l) }

func (b BoolLiteral) MarshalBinary() ([]byte, error) {
	if b {
		return []byte{1}, nil
	}

	return []byte{0}, nil
}

type Int32Literal int32

func (Int32Literal) Comparator() Comparator[int32] { return cmp.Compare[int32] }
func (i Int32Literal) Type() Type                  { return PrimitiveTypes.Int32 }
func (i Int32Literal) Value() int32                { return int32(i) }
func (i Int32Literal) Any() any                    { return i.Value() }
func (i Int32Literal) String() string              { return strconv.FormatInt(int64(i), 10) }
func (i Int32Literal) To(t Type) (Literal, error)  { return integerTo(int64(i), "Int32Literal", t) }
func (i Int32Literal) Equals(other Literal) bool   { return literalEq(i, other) }
func (i Int32Literal) MarshalBinary() ([]byte, error) {
	return le32(uint32(i)), nil
}

type Int64Literal int64

func (Int64Literal) Comparator() Comparator[int64] { return cmp.Compare[int64] }
func (i Int64Literal) Type() Type                  { return PrimitiveTypes.Int64 }
func (i Int64Literal) Value() int64                { return int64(i) }
func (i Int64Literal) Any() any                    { return i.Value() }
func (i Int64Literal) String() string              { return strconv.FormatInt(int64(i), 10) }
func (i Int64Literal) To(t Type) (Literal, error)  { return integerTo(int64(i), "Int64Literal", t) }
func (i Int64Literal) Equals(other Literal) bool   { return literalEq(i, other) }
func (i Int64Literal) MarshalBinary() ([]byte, error) {
	return le64(uint64(i)), nil
}

type Float32Literal float32

func (Float32Literal) Comparator() Comparator[float32] { return cmp.Compare[float32] }
func (f Float32Literal) Type() Type                    { return PrimitiveTypes.Float32 }
func (f Float32Literal) Value() float32                { return float32(f) }
func (f Float32Literal) Any() any                      { return f.Value() }
func (f Float32Literal) String() string                { return strconv.FormatFloat(float64(f), 'g', -1, 32) }
func (f Float32Literal) To(t Type) (Literal, error) {
	if t, ok := t.(DecimalType); ok {
		return floatToDecimal(float64(f), 32, t)
	}

	return Float64Literal(f).To(t)
}

func (f Float32Literal) Equals(other Literal) bool { return literalEq(f, other) }
func (f Float32Literal) MarshalBinary() ([]byte, error) {
	return le32(math.Float32bits(float32(f))), nil
}

type Float64Literal float64

func (Float64Literal) Comparator() Comparator[float64] { return cmp.Compare[float64] }
func (f Float64Literal) Type() Type                    { return PrimitiveTypes.Float64 }
func (f Float64Literal) Value() float64                { return float64(f) }
func (f Float64Literal) Any() any                      { return f.Value() }
func (f Float64Literal) String() string                { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f Float64Literal) To(t Type) (Literal, error) {
	switch t := t.(type) {
	case Float32Type:
		switch {
		case float64(f) > math.MaxFloat32:
			return aboveMax[float32](), nil
		case float64(f) < -math.MaxFloat32:
			return belowMin[float32](), nil
		}

		if !math.IsNaN(float64(f)) && float64(float32(f)) != float64(f) {
			return nil, fmt.Errorf("%w: %s to %s loses precision", ErrBadCast, f, t)
		}

		return Float32Literal(f), nil
	case Float64Type:
		return f, nil
	case DecimalType:
		return floatToDecimal(float64(f), 64, t)
	}

	return nil, fmt.Errorf("%w: FloatLiteral to %s", ErrBadCast, t)
}

// floatToDecimal converts f only when its shortest decimal form fits in
// the scale of t, so the value is never rounded.
func floatToDecimal(f float64, bitSize int, t DecimalType) (Literal, error) {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 > t.scale {
		return nil, fmt.Errorf("%w: %s to %s loses precision", ErrBadCast, s, t)
	}

	v, err := decimal128.FromString(s, int32(t.precision), int32(t.scale))
	if err != nil {
		return nil, fmt.Errorf("%w: %s to %s: %w", ErrBadCast, s, t, err)
	}

	return DecimalLiteral{Val: v, Scale: t.scale}, nil
}

func (f Float64Literal) Equals(other Literal) bool { return literalEq(f, other) }
func (f Float64Literal) MarshalBinary() ([]byte, error) {
	return le64(math.Float64bits(float64(f))), nil
}

type DateLiteral Date

func (DateLiteral) Comparator() Comparator[Date] { return cmp.Compare[Date] }
func (d DateLiteral) Type() Type                 { return PrimitiveTypes.Date }
func (d DateLiteral) Value() Date                { return Date(d) }
func (d DateLiteral) Any() any                   { return d.Value() }
func (d DateLiteral) String() string             { return Date(d).ToTime().Format(time.DateOnly) }
func (d DateLiteral) Equals(other Literal) bool  { return literalEq(d, other) }
func (d DateLiteral) MarshalBinary() ([]byte, error) {
	return le32(uint32(d)), nil
}

func (d DateLiteral) To(t Type) (Literal, error) {
	switch t.(type) {
	case DateType:
		return d, nil
	case TimestampType, TimestampTzType:
		return TimestampLiteral(Date(d).ToTime().UnixMicro()), nil
	}

	return nil, fmt.Errorf("%w: DateLiteral to %s", ErrBadCast, t)
}

type TimeLiteral Time

func (TimeLiteral) Comparator() Comparator[Time] { return cmp.Compare[Time] }
func (t TimeLiteral) Type() Type                 { return PrimitiveTypes.Time }
func (t TimeLiteral) Value() Time                { return Time(t) }
func (t TimeLiteral) Any() any                   { return t.Value() }
func (t TimeLiteral) String() string             { return Time(t).ToTime().Format("15:04:05.000000") }
func (t TimeLiteral) Equals(other Literal) bool  { return literalEq(t, other) }
func (t TimeLiteral) MarshalBinary() ([]byte, error) {
	return le64(uint64(t)), nil
}

func (t TimeLiteral) To(typ Type) (Literal, error) {
	if _, ok := typ.(TimeType); ok {
		return t, nil
	}

	return nil, fmt.Errorf("%w: TimeLiteral to %s", ErrBadCast, typ)
}

type TimestampLiteral Timestamp

func (TimestampLiteral) Comparator() Comparator[Timestamp] { return cmp.Compare[Timestamp] }
func (t TimestampLiteral) Type() Type                      { return PrimitiveTypes.Timestamp }
func (t TimestampLiteral) Value() Timestamp                { return Timestamp(t) }
func (t TimestampLiteral) Any() any                        { return t.Value() }
func (t TimestampLiteral) Equals(other Literal) bool       { return literalEq(t, other) }
func (t TimestampLiteral) MarshalBinary() ([]byte, error) {
	return le64(uint64(t)), nil
}

func (t TimestampLiteral) String() string {
	return Timestamp(t).ToTime().Format("2006-01-02 15:04:05.000000")
}

func (t TimestampLiteral) To(typ Type) (Literal, error) {
	switch typ.(type) {
	case TimestampType, TimestampTzType:
		return t, nil
	case DateType:
		return DateLiteral(Timestamp(t).ToDate()), nil
	}

	return nil, fmt.Errorf("%w: TimestampLiteral to %s", ErrBadCast, typ)
}

type StringLiteral string

func (StringLiteral) Comparator() Comparator[string] { return cmp.Compare[string] }
func (s StringLiteral) Type() Type                   { return PrimitiveTypes.String }
func (s StringLiteral) Value() string                { return string(s) }
func (s StringLiteral) Any() any                     { return s.Value() }
func (s StringLiteral) String() string               { return string(s) }
func (s StringLiteral) Equals(other Literal) bool    { return literalEq(s, other) }

// MarshalBinary returns the UTF-8 bytes without a length prefix.
func (s StringLiteral) MarshalBinary() ([]byte, error) {
	return []byte(s), nil
}

func (s StringLiteral) castErr(typ Type, err error) error {
	return fmt.Errorf("%w: casting '%s' to %s: %w", ErrBadCast, string(s), typ, err)
}

func (s StringLiteral) To(typ Type) (Literal, error) {
	switch t := typ.(type) {
	case StringType:
		return s, nil
	case Int32Type, Int64Type:
		n, err := strconv.ParseInt(string(s), 10, 64)
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return integerTo(n, "StringLiteral", typ)
	case Float32Type, Float64Type:
		n, err := strconv.ParseFloat(string(s), 64)
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return Float64Literal(n).To(typ)
	case DateType:
		tm, err := time.Parse(time.DateOnly, string(s))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return DateLiteral(tm.Unix() / int64((24 * time.Hour).Seconds())), nil
	case TimeType:
		val, err := arrow.Time64FromString(string(s), arrow.Microsecond)
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return TimeLiteral(val), nil
	case TimestampType:
		tm, err := time.Parse("2006-01-02T15:04:05.999999", string(s))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return TimestampLiteral(tm.UTC().UnixMicro()), nil
	case TimestampTzType:
		tm, err := time.Parse(time.RFC3339Nano, string(s))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return TimestampLiteral(tm.UTC().UnixMicro()), nil
	case UUIDType:
		val, err := uuid.Parse(string(s))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return UUIDLiteral(val), nil
	case DecimalType:
		n, err := decimal128.FromString(string(s), int32(t.precision), int32(t.scale))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return DecimalLiteral{Val: n, Scale: t.scale}, nil
	case BooleanType:
		val, err := strconv.ParseBool(string(s))
		if err != nil {
			return nil, s.castErr(typ, err)
		}

		return BoolLiteral(val), nil
	case BinaryType:
		return BinaryLiteral(s), nil
	case FixedType:
		if len(s) != t.len {
			return nil, fmt.Errorf("%w: cast '%s' to %s - wrong length",
				ErrBadCast, string(s), t)
		}

		return FixedLiteral(s), nil
	}

	return nil, fmt.Errorf("%w: StringLiteral to %s", ErrBadCast, typ)
}

func bytesTo(b []byte, name string, typ Type) (Literal, error) {
	switch t := typ.(type) {
	case BinaryType:
		return BinaryLiteral(b), nil
	case StringType:
		return StringLiteral(b), nil
	case FixedType:
		if len(b) != t.len {
			return nil, fmt.Errorf("%w: cannot convert %s to %s, different length - %d <> %d",
				ErrBadCast, name, typ, len(b), t.len)
		}

		return FixedLiteral(b), nil
	case UUIDType:
		val, err := uuid.FromBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: cannot convert %s to uuid: %w", ErrBadCast, name, err)
		}

		return UUIDLiteral(val), nil
	}

	return nil, fmt.Errorf("%w: %s to %s", ErrBadCast, name, typ)
}

// BinaryLiteral values compare as unsigned bytes.
type BinaryLiteral []byte

func (BinaryLiteral) Comparator() Comparator[[]byte] { return bytes.Compare }
func (b BinaryLiteral) Type() Type                   { return PrimitiveTypes.Binary }
func (b BinaryLiteral) Value() []byte                { return []byte(b) }
func (b BinaryLiteral) Any() any                     { return b.Value() }
func (b BinaryLiteral) String() string               { return fmt.Sprintf("%x", []byte(b)) }
func (b BinaryLiteral) To(typ Type) (Literal, error) { return bytesTo(b, "BinaryLiteral", typ) }
func (b BinaryLiteral) MarshalBinary() ([]byte, error) {
	return bytes.Clone(b), nil
}

func (b BinaryLiteral) Equals(other Literal) bool {
	rhs, ok := other.(BinaryLiteral)

	return ok && bytes.Equal(b, rhs)
}

type FixedLiteral []byte

func (FixedLiteral) Comparator() Comparator[[]byte] { return bytes.Compare }
func (f FixedLiteral) Type() Type                   { return FixedTypeOf(len(f)) }
func (f FixedLiteral) Value() []byte                { return []byte(f) }
func (f FixedLiteral) Any() any                     { return f.Value() }
func (f FixedLiteral) String() string               { return fmt.Sprintf("%x", []byte(f)) }
func (f FixedLiteral) To(typ Type) (Literal, error) { return bytesTo(f, "FixedLiteral", typ) }
func (f FixedLiteral) MarshalBinary() ([]byte, error) {
	return bytes.Clone(f), nil
}

func (f FixedLiteral) Equals(other Literal) bool {
	rhs, ok := other.(FixedLiteral)

	return ok && bytes.Equal(f, rhs)
}

type UUIDLiteral uuid.UUID

func (UUIDLiteral) Comparator() Comparator[uuid.UUID] {
	return func(v1, v2 uuid.UUID) int {
		return bytes.Compare(v1[:], v2[:])
	}
}

func (UUIDLiteral) Type() Type                  { return PrimitiveTypes.UUID }
func (u UUIDLiteral) Value() uuid.UUID          { return uuid.UUID(u) }
func (u UUIDLiteral) Any() any                  { return u.Value() }
func (u UUIDLiteral) String() string            { return uuid.UUID(u).String() }
func (u UUIDLiteral) Equals(other Literal) bool { return literalEq(u, other) }
func (u UUIDLiteral) MarshalBinary() ([]byte, error) {
	return uuid.UUID(u).MarshalBinary()
}

func (u UUIDLiteral) To(typ Type) (Literal, error) {
	switch typ.(type) {
	case UUIDType:
		return u, nil
	case StringType:
		return nil, fmt.Errorf("%w: UUIDLiteral to %s", ErrBadCast, typ)
	}

	return bytesTo(u[:], "UUIDLiteral", typ)
}

type DecimalLiteral Decimal

// Comparator compares decimals numerically regardless of their scales.
func (DecimalLiteral) Comparator() Comparator[Decimal] {
	return func(v1, v2 Decimal) int {
		if v1.Scale == v2.Scale {
			return v1.Val.Cmp(v2.Val)
		}

		scale := max(v1.Scale, v2.Scale)
		lhs, lerr := v1.Val.Rescale(int32(v1.Scale), int32(scale))
		rhs, rerr := v2.Val.Rescale(int32(v2.Scale), int32(scale))
		if lerr == nil && rerr == nil {
			return lhs.Cmp(rhs)
		}

		return new(big.Rat).SetFrac(v1.Val.BigInt(), pow10(v1.Scale)).Cmp(
			new(big.Rat).SetFrac(v2.Val.BigInt(), pow10(v2.Scale)))
	}
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func (d DecimalLiteral) Type() Type     { return DecimalTypeOf(38, d.Scale) }
func (d DecimalLiteral) Value() Decimal { return Decimal(d) }
func (d DecimalLiteral) Any() any       { return d.Value() }
func (d DecimalLiteral) String() string { return Decimal(d).String() }

func (d DecimalLiteral) To(t Type) (Literal, error) {
	switch t := t.(type) {
	case DecimalType:
		if d.Scale == t.scale {
			return d, nil
		}

		out, err := d.Val.Rescale(int32(d.Scale), int32(t.scale))
		if err != nil {
			return nil, fmt.Errorf("%w: could not convert %s to %s: %w", ErrBadCast, d, t, err)
		}

		return DecimalLiteral{Val: out, Scale: t.scale}, nil
	case Float32Type, Float64Type:
		return Float64Literal(d.Val.ToFloat64(int32(d.Scale))).To(t)
	}

	return nil, fmt.Errorf("%w: DecimalLiteral to %s", ErrBadCast, t)
}

func (d DecimalLiteral) Equals(other Literal) bool {
	rhs, ok := other.(DecimalLiteral)

	return ok && d.Comparator()(Decimal(d), Decimal(rhs)) == 0
}

// MarshalBinary returns the unscaled value as big-endian two's complement
// using the minimum number of bytes.
func (d DecimalLiteral) MarshalBinary() ([]byte, error) {
	n := d.Val.BigInt()
	size := n.BitLen()/8 + 1
	if n.Sign() >= 0 {
		return n.FillBytes(make([]byte, size)), nil
	}

	// two's complement of a negative n is 2^(8*size) + n
	mod := new(big.Int).Lsh(big.NewInt(1), uint(size*8))

	return mod.Add(mod, n).FillBytes(make([]byte, size)), nil
}

func decimalFromTwosComplement(data []byte) decimal128.Num {
	if len(data) == 0 {
		return decimal128.Num{}
	}

	n := new(big.Int).SetBytes(data)
	if data[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(data)*8)))
	}

	return decimal128.FromBigInt(n)
}
