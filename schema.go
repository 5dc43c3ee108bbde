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
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Schema is the logical schema of a table: an ordered list of fields,
// each with a stable ID. Schemas are immutable once built; the lookup
// indexes are computed on first use and shared between goroutines.
type Schema struct {
	ID int `json:"schema-id"`

	fields []NestedField

	lazyIndex func() (*schemaIndex, error)
}

type schemaIndex struct {
	byID       map[int]NestedField
	nameByID   map[int]string
	idByName   map[string]int
	idByLower  map[string]int
	parentByID map[int]int
	highestID  int
}

// NewSchema constructs a new schema with the provided ID
// and list of fields.
func NewSchema(id int, fields ...NestedField) *Schema {
	s := &Schema{ID: id, fields: fields}
	s.init()

	return s
}

// NewSchemaFromJSON parses the JSON form written by MarshalJSON, for example
//
//	{"schema-id": 0, "type": "struct", "fields": [
//	  {"id": 1, "name": "id", "type": "int", "required": true}]}
func NewSchemaFromJSON(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	if _, err := s.lazyIndex(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Schema) init() {
	s.lazyIndex = sync.OnceValues(func() (*schemaIndex, error) {
		return buildIndex(s.fields)
	})
}

func (s *Schema) index() *schemaIndex {
	idx, err := s.lazyIndex()
	if err != nil {
		return &schemaIndex{}
	}

	return idx
}

// Validate reports duplicate names or IDs in the schema.
func (s *Schema) Validate() error {
	_, err := s.lazyIndex()

	return err
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteString("table {")
	for _, f := range s.fields {
		b.WriteString("\n\t")
		b.WriteString(f.String())
	}
	b.WriteString("\n}")

	return b.String()
}

func (s *Schema) Type() string            { return "struct" }
func (s *Schema) AsStruct() StructType    { return StructType{FieldList: s.fields} }
func (s *Schema) NumFields() int          { return len(s.fields) }
func (s *Schema) Field(i int) NestedField { return s.fields[i] }
func (s *Schema) Fields() []NestedField   { return slices.Clone(s.fields) }

// HighestFieldID returns the largest field ID in use, including those of
// nested fields.
func (s *Schema) HighestFieldID() int { return s.index().highestID }

func (s *Schema) Equals(other *Schema) bool {
	if other == nil {
		return false
	}

	if s == other {
		return true
	}

	return s.ID == other.ID && slices.EqualFunc(s.fields, other.fields, func(a, b NestedField) bool {
		return a.Equals(b)
	})
}

func (s *Schema) UnmarshalJSON(b []byte) error {
	type Alias Schema
	aux := struct {
		Fields []NestedField `json:"fields"`
		*Alias
	}{Alias: (*Alias)(s)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	s.fields = aux.Fields
	s.init()

	return nil
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	type Alias Schema

	return json.Marshal(struct {
		Type   string        `json:"type"`
		Fields []NestedField `json:"fields"`
		*Alias
	}{Type: "struct", Fields: s.fields, Alias: (*Alias)(s)})
}

// FindColumnName returns the full dotted name of the column with the
// given field ID.
func (s *Schema) FindColumnName(fieldID int) (string, bool) {
	name, ok := s.index().nameByID[fieldID]

	return name, ok
}

// FindFieldByName returns the field identified by the name given, the
// second return value will be false if no field by this name is found.
// Nested fields are addressed with dotted names such as "location.lat",
// "points.element" or "props.value".
//
// Note: This search is done in a case sensitive manner. To perform
// a case insensitive search, use [*Schema.FindFieldByNameCaseInsensitive].
func (s *Schema) FindFieldByName(name string) (NestedField, bool) {
	id, ok := s.index().idByName[name]
	if !ok {
		return NestedField{}, false
	}

	return s.FindFieldByID(id)
}

// FindFieldByNameCaseInsensitive is like [*Schema.FindFieldByName],
// but performs a case insensitive search.
func (s *Schema) FindFieldByNameCaseInsensitive(name string) (NestedField, bool) {
	id, ok := s.index().idByLower[strings.ToLower(name)]
	if !ok {
		return NestedField{}, false
	}

	return s.FindFieldByID(id)
}

func (s *Schema) FindFieldByID(id int) (NestedField, bool) {
	f, ok := s.index().byID[id]

	return f, ok
}

func (s *Schema) FindTypeByID(id int) (Type, bool) {
	f, ok := s.FindFieldByID(id)
	if !ok {
		return nil, false
	}

	return f.Type, true
}

// FieldHasOptionalParent reports whether any ancestor of the field is
// optional, in which case the field can be null even when it is required.
func (s *Schema) FieldHasOptionalParent(id int) bool {
	idx := s.index()
	for {
		parent, ok := idx.parentByID[id]
		if !ok {
			return false
		}

		if !idx.byID[parent].Required {
			return true
		}
		id = parent
	}
}

func buildIndex(fields []NestedField) (*schemaIndex, error) {
	idx := &schemaIndex{
		byID:       make(map[int]NestedField),
		nameByID:   make(map[int]string),
		idByName:   make(map[string]int),
		idByLower:  make(map[string]int),
		parentByID: make(map[int]int),
	}

	var walk func(fields []NestedField, prefix string, parent int, hasParent bool) error
	walk = func(fields []NestedField, prefix string, parent int, hasParent bool) error {
		for _, f := range fields {
			name := f.Name
			if prefix != "" {
				name = prefix + "." + f.Name
			}

			if other, ok := idx.byID[f.ID]; ok {
				return fmt.Errorf("%w: duplicate field id %d used by '%s' and '%s'",
					ErrInvalidSchema, f.ID, idx.nameByID[other.ID], name)
			}

			if other, ok := idx.idByName[name]; ok {
				return fmt.Errorf("%w: multiple fields for name %s: %d and %d",
					ErrInvalidSchema, name, other, f.ID)
			}

			idx.byID[f.ID] = f
			idx.nameByID[f.ID] = name
			idx.idByName[name] = f.ID
			idx.idByLower[strings.ToLower(name)] = f.ID
			idx.highestID = max(idx.highestID, f.ID)
			if hasParent {
				idx.parentByID[f.ID] = parent
			}

			if nested, ok := f.Type.(NestedType); ok {
				if err := walk(nested.Fields(), name, f.ID, true); err != nil {
					return err
				}
			}
		}

		return nil
	}

	if err := walk(fields, "", 0, false); err != nil {
		return nil, err
	}

	return idx, nil
}
