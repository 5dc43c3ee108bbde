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
	"strconv"
	"strings"
)

// MappedField assigns a field ID to a column known by any of Names.
// Fields holds the mapping of nested columns; list elements are named
// "element" and map entries "key" and "value".
type MappedField struct {
	Names   []string      `json:"names"`
	FieldID *int          `json:"field-id,omitempty"`
	Fields  []MappedField `json:"fields,omitempty"`
}

func (m *MappedField) ID() int {
	if m.FieldID == nil {
		return -1
	}

	return *m.FieldID
}

func (m *MappedField) GetField(field string) *MappedField {
	for i := range m.Fields {
		if slices.Contains(m.Fields[i].Names, field) {
			return &m.Fields[i]
		}
	}

	return nil
}

func (m *MappedField) Len() int { return len(m.Fields) }

func (m *MappedField) String() string {
	var bldr strings.Builder
	bldr.WriteString("([")
	bldr.WriteString(strings.Join(m.Names, ", "))
	bldr.WriteString("] -> ")

	if m.FieldID != nil {
		bldr.WriteString(strconv.Itoa(*m.FieldID))
	} else {
		bldr.WriteByte('?')
	}

	if len(m.Fields) > 0 {
		bldr.WriteByte(' ')
		for i, f := range m.Fields {
			if i != 0 {
				bldr.WriteString(", ")
			}
			bldr.WriteString(f.String())
		}
	}

	bldr.WriteByte(')')

	return bldr.String()
}

// NameMapping gives field IDs to the columns of data files that were
// written without them.
type NameMapping []MappedField

// ParseNameMapping decodes the JSON form of a name mapping:
//
//	[{"field-id": 1, "names": ["id", "record_id"]},
//	 {"field-id": 2, "names": ["tags"], "fields": [{"field-id": 3, "names": ["element"]}]}]
func ParseNameMapping(data []byte) (NameMapping, error) {
	var nm NameMapping
	if err := json.Unmarshal(data, &nm); err != nil {
		return nil, fmt.Errorf("%w: invalid name mapping: %w", ErrInvalidArgument, err)
	}

	return nm, nil
}

func (nm NameMapping) String() string {
	var bldr strings.Builder
	bldr.WriteString("[\n")
	for _, f := range nm {
		bldr.WriteByte('\t')
		bldr.WriteString(f.String())
		bldr.WriteByte('\n')
	}
	bldr.WriteByte(']')

	return bldr.String()
}

// Find returns the field ID mapped to the column reached by following
// path from the top level. It reports false when a step of the path is
// not mapped or the column has no ID.
func (nm NameMapping) Find(path ...string) (int, bool) {
	if len(path) == 0 {
		return 0, false
	}

	current := &MappedField{Fields: nm}
	for _, name := range path {
		if current = current.GetField(name); current == nil {
			return 0, false
		}
	}

	if current.FieldID == nil {
		return 0, false
	}

	return *current.FieldID, true
}

// NameMappingFromSchema maps every field of the schema by its name.
func NameMappingFromSchema(schema *Schema) NameMapping {
	return NameMapping(mappedFields(schema.fields))
}

func mappedFields(fields []NestedField) []MappedField {
	out := make([]MappedField, len(fields))
	for i, f := range fields {
		out[i] = MappedField{Names: []string{f.Name}, FieldID: &f.ID}
		switch typ := f.Type.(type) {
		case *StructType:
			out[i].Fields = mappedFields(typ.FieldList)
		case *ListType:
			out[i].Fields = []MappedField{nestedMapping("element", typ.ElementField())}
		case *MapType:
			out[i].Fields = []MappedField{
				nestedMapping("key", typ.KeyField()),
				nestedMapping("value", typ.ValueField()),
			}
		}
	}

	return out
}

func nestedMapping(name string, field NestedField) MappedField {
	out := mappedFields([]NestedField{field})[0]
	out.Names = []string{name}

	return out
}
