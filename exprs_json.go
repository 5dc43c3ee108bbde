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
	"encoding/json"
	"fmt"
	"strings"
)

// jsonExpr is the wire form of an expression:
//
//	{"type": "lt", "term": "id", "value": 5}
//	{"type": "in", "term": "name", "values": ["a", "b"]}
//	{"type": "is-null", "term": "name"}
//	{"type": "and", "left": {...}, "right": {...}}
//	{"type": "not", "child": {...}}
//	true / false / {"type": "true"}
type jsonExpr struct {
	Type   string            `json:"type"`
	Term   string            `json:"term,omitempty"`
	Value  json.RawMessage   `json:"value,omitempty"`
	Values []json.RawMessage `json:"values,omitempty"`
	Left   json.RawMessage   `json:"left,omitempty"`
	Right  json.RawMessage   `json:"right,omitempty"`
	Child  json.RawMessage   `json:"child,omitempty"`
}

var jsonLiteralOps = map[string]Operation{
	"lt":     OpLT,
	"lt-eq":  OpLTEQ,
	"gt":     OpGT,
	"gt-eq":  OpGTEQ,
	"eq":     OpEQ,
	"not-eq": OpNEQ,
}

var jsonOpNames = map[Operation]string{
	OpLT:      "lt",
	OpLTEQ:    "lt-eq",
	OpGT:      "gt",
	OpGTEQ:    "gt-eq",
	OpEQ:      "eq",
	OpNEQ:     "not-eq",
	OpIsNull:  "is-null",
	OpNotNull: "not-null",
	OpIn:      "in",
	OpNotIn:   "not-in",
}

// ParseExpressionJSON decodes an unbound expression from its JSON form.
func ParseExpressionJSON(data []byte) (BooleanExpression, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidArgument)
	}

	var constant bool
	if err := json.Unmarshal(data, &constant); err == nil {
		if constant {
			return AlwaysTrue{}, nil
		}

		return AlwaysFalse{}, nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return (&jsonExpr{Type: name}).expression()
	}

	var raw jsonExpr
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid expression json: %w", ErrInvalidArgument, err)
	}

	return raw.expression()
}

func (j *jsonExpr) expression() (BooleanExpression, error) {
	typ := strings.ToLower(j.Type)
	if op, ok := jsonLiteralOps[typ]; ok {
		if j.Term == "" || j.Value == nil {
			return nil, fmt.Errorf("%w: '%s' needs a term and a value", ErrInvalidArgument, typ)
		}

		lit, err := literalFromJSON(j.Value)
		if err != nil {
			return nil, err
		}

		return LiteralPredicate(op, Reference(j.Term), lit), nil
	}

	switch typ {
	case "true":
		return AlwaysTrue{}, nil
	case "false":
		return AlwaysFalse{}, nil
	case "is-null", "not-null":
		if j.Term == "" {
			return nil, fmt.Errorf("%w: '%s' needs a term", ErrInvalidArgument, typ)
		}

		if typ == "is-null" {
			return IsNull(Reference(j.Term)), nil
		}

		return NotNull(Reference(j.Term)), nil
	case "in", "not-in":
		if j.Term == "" {
			return nil, fmt.Errorf("%w: '%s' needs a term", ErrInvalidArgument, typ)
		}

		lits := make([]Literal, 0, len(j.Values))
		for _, v := range j.Values {
			lit, err := literalFromJSON(v)
			if err != nil {
				return nil, err
			}
			lits = append(lits, lit)
		}

		if typ == "in" {
			return SetPredicate(OpIn, Reference(j.Term), lits), nil
		}

		return SetPredicate(OpNotIn, Reference(j.Term), lits), nil
	case "not":
		child, err := subExpression(j.Child, typ, "child")
		if err != nil {
			return nil, err
		}

		return NewNot(child), nil
	case "and", "or":
		left, err := subExpression(j.Left, typ, "left")
		if err != nil {
			return nil, err
		}

		right, err := subExpression(j.Right, typ, "right")
		if err != nil {
			return nil, err
		}

		if typ == "and" {
			return NewAnd(left, right), nil
		}

		return NewOr(left, right), nil
	}

	return nil, fmt.Errorf("%w: unknown expression type '%s'", ErrInvalidArgument, j.Type)
}

func subExpression(raw json.RawMessage, parent, name string) (BooleanExpression, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: '%s' is missing '%s'", ErrInvalidArgument, parent, name)
	}

	return ParseExpressionJSON(raw)
}

func literalFromJSON(raw json.RawMessage) (Literal, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLiteral, err)
	}

	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int64Literal(i), nil
		}

		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrBadLiteral, v, err)
		}

		return Float64Literal(f), nil
	case string:
		return StringLiteral(v), nil
	case bool:
		return BoolLiteral(v), nil
	}

	return nil, fmt.Errorf("%w: unsupported json literal %s", ErrBadLiteral, string(raw))
}

// MarshalExpressionJSON is the inverse of ParseExpressionJSON for unbound
// expressions.
func MarshalExpressionJSON(expr BooleanExpression) ([]byte, error) {
	out, err := VisitExpr(expr, jsonVisitor{})
	if err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

type jsonVisitor struct{}

func (jsonVisitor) VisitTrue() any               { return true }
func (jsonVisitor) VisitFalse() any              { return false }
func (jsonVisitor) VisitNot(child any) any       { return map[string]any{"type": "not", "child": child} }
func (jsonVisitor) VisitAnd(left, right any) any { return binaryJSON("and", left, right) }
func (jsonVisitor) VisitOr(left, right any) any  { return binaryJSON("or", left, right) }

func binaryJSON(typ string, left, right any) any {
	return map[string]any{"type": typ, "left": left, "right": right}
}

func (jsonVisitor) VisitBound(pred BoundPredicate) any {
	panic(fmt.Errorf("%w: cannot marshal bound predicate %s", ErrNotImplemented, pred))
}

func (jsonVisitor) VisitUnbound(pred UnboundPredicate) any {
	ref, ok := pred.Term().(Reference)
	if !ok {
		panic(fmt.Errorf("%w: cannot marshal term %s", ErrNotImplemented, pred.Term()))
	}

	out := map[string]any{"type": jsonOpNames[pred.Op()], "term": string(ref)}
	switch p := pred.(type) {
	case *unboundLiteralPredicate:
		out["value"] = literalJSONValue(p.lit)
	case *unboundSetPredicate:
		vals := make([]any, len(p.lits))
		for i, l := range p.lits {
			vals[i] = literalJSONValue(l)
		}
		out["values"] = vals
	}

	return out
}

func literalJSONValue(lit Literal) any {
	switch l := lit.(type) {
	case BoolLiteral, Int32Literal, Int64Literal, Float32Literal, Float64Literal, StringLiteral:
		return l.Any()
	case TimestampLiteral:
		return Timestamp(l).ToTime().Format("2006-01-02T15:04:05.999999")
	}

	return lit.String()
}
