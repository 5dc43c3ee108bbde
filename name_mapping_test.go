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

package rgfilter_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablestats/rgfilter"
)

func makeID(v int) *int { return &v }

var tableNameMappingNested = rgfilter.NameMapping{
	{FieldID: makeID(1), Names: []string{"foo"}},
	{FieldID: makeID(2), Names: []string{"bar"}},
	{FieldID: makeID(3), Names: []string{"baz"}},
	{
		FieldID: makeID(4), Names: []string{"qux"},
		Fields: []rgfilter.MappedField{{FieldID: makeID(5), Names: []string{"element"}}},
	},
	{FieldID: makeID(6), Names: []string{"quux"}, Fields: []rgfilter.MappedField{
		{FieldID: makeID(7), Names: []string{"key"}},
		{FieldID: makeID(8), Names: []string{"value"}, Fields: []rgfilter.MappedField{
			{FieldID: makeID(9), Names: []string{"key"}},
			{FieldID: makeID(10), Names: []string{"value"}},
		}},
	}},
	{FieldID: makeID(11), Names: []string{"location"}, Fields: []rgfilter.MappedField{
		{FieldID: makeID(12), Names: []string{"element"}, Fields: []rgfilter.MappedField{
			{FieldID: makeID(13), Names: []string{"latitude"}},
			{FieldID: makeID(14), Names: []string{"longitude"}},
		}},
	}},
	{FieldID: makeID(15), Names: []string{"person"}, Fields: []rgfilter.MappedField{
		{FieldID: makeID(16), Names: []string{"name"}},
		{FieldID: makeID(17), Names: []string{"age"}},
	}},
}

func TestJsonMappedField(t *testing.T) {
	tests := []struct {
		name string
		str  string
		exp  rgfilter.MappedField
	}{
		{
			"simple", `{"field-id": 1, "names": ["id", "record_id"]}`,
			rgfilter.MappedField{FieldID: makeID(1), Names: []string{"id", "record_id"}},
		},
		{
			"with null fields", `{"field-id": 1, "names": ["id", "record_id"], "fields": null}`,
			rgfilter.MappedField{FieldID: makeID(1), Names: []string{"id", "record_id"}},
		},
		{"no names", `{"field-id": 1, "names": []}`, rgfilter.MappedField{FieldID: makeID(1), Names: []string{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n rgfilter.MappedField
			require.NoError(t, json.Unmarshal([]byte(tt.str), &n))
			assert.Equal(t, tt.exp, n)
		})
	}
}

func TestNameMappingFromJson(t *testing.T) {
	mapping := `[
		{"names": ["foo", "bar"]},
		{"field-id": 1, "names": ["id", "record_id"]},
		{"field-id": 2, "names": ["data"]},
		{"field-id": 3, "names": ["location"], "fields": [
			{"field-id": 4, "names": ["latitude", "lat"]},
			{"field-id": 5, "names": ["longitude", "long"]}
		]}
	]`

	var nm rgfilter.NameMapping
	require.NoError(t, json.Unmarshal([]byte(mapping), &nm))

	assert.Equal(t, nm, rgfilter.NameMapping{
		{FieldID: nil, Names: []string{"foo", "bar"}},
		{FieldID: makeID(1), Names: []string{"id", "record_id"}},
		{FieldID: makeID(2), Names: []string{"data"}},
		{FieldID: makeID(3), Names: []string{"location"}, Fields: []rgfilter.MappedField{
			{FieldID: makeID(4), Names: []string{"latitude", "lat"}},
			{FieldID: makeID(5), Names: []string{"longitude", "long"}},
		}},
	})
}

func TestNameMappingToJson(t *testing.T) {
	result, err := json.Marshal(tableNameMappingNested)
	require.NoError(t, err)
	assert.JSONEq(t, `[
  		{"field-id": 1, "names": ["foo"]},
		{"field-id": 2, "names": ["bar"]},
  		{"field-id": 3, "names": ["baz"]},
  		{"field-id": 4, "names": ["qux"], "fields": [{"field-id": 5, "names": ["element"]}]},		
  		{"field-id": 6, "names": ["quux"], "fields": [
      		{"field-id": 7, "names": ["key"]},
      		{"field-id": 8, "names": ["value"], "fields": [
          		{"field-id": 9, "names": ["key"]},
          		{"field-id": 10, "names": ["value"]}
        	]}
    	]},
  		{"field-id": 11, "names": ["location"], "fields": [
      		{"field-id": 12, "names": ["element"], "fields": [
          		{"field-id": 13, "names": ["latitude"]},
          		{"field-id": 14, "names": ["longitude"]}
        	]}
    	]},
  		{"field-id": 15, "names": ["person"], "fields": [
      		{"field-id": 16, "names": ["name"]},
      		{"field-id": 17, "names": ["age"]}
    	]}
]`, string(result))
}

func TestNameMappingToString(t *testing.T) {
	assert.Equal(t, `[
	([foo] -> ?)
	([id, record_id] -> 1)
	([data] -> 2)
	([location] -> 3 ([lat, latitude] -> 4), ([long, longitude] -> 5))
]`, rgfilter.NameMapping{
		{Names: []string{"foo"}},
		{FieldID: makeID(1), Names: []string{"id", "record_id"}},
		{FieldID: makeID(2), Names: []string{"data"}},
		{FieldID: makeID(3), Names: []string{"location"}, Fields: []rgfilter.MappedField{
			{FieldID: makeID(4), Names: []string{"lat", "latitude"}},
			{FieldID: makeID(5), Names: []string{"long", "longitude"}},
		}},
	}.String())
}

func TestParseNameMapping(t *testing.T) {
	nm, err := rgfilter.ParseNameMapping([]byte(`[{"field-id": 1, "names": ["id"]}]`))
	require.NoError(t, err)
	assert.Equal(t, rgfilter.NameMapping{{FieldID: makeID(1), Names: []string{"id"}}}, nm)

	_, err = rgfilter.ParseNameMapping([]byte(`{"field-id": 1}`))
	assert.ErrorIs(t, err, rgfilter.ErrInvalidArgument)
}

func TestNameMappingFind(t *testing.T) {
	tests := []struct {
		path []string
		id   int
		ok   bool
	}{
		{[]string{"foo"}, 1, true},
		{[]string{"qux", "element"}, 5, true},
		{[]string{"quux", "value", "key"}, 9, true},
		{[]string{"location", "element", "longitude"}, 14, true},
		{[]string{"person", "age"}, 17, true},
		{[]string{"person", "height"}, 0, false},
		{[]string{"missing"}, 0, false},
		{nil, 0, false},
	}

	for _, tt := range tests {
		id, ok := tableNameMappingNested.Find(tt.path...)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}

	_, ok := rgfilter.NameMapping{{Names: []string{"foo"}}}.Find("foo")
	assert.False(t, ok)
}

func TestNameMappingFromSchema(t *testing.T) {
	sc := rgfilter.NewSchema(0,
		rgfilter.NestedField{ID: 1, Name: "foo", Type: rgfilter.PrimitiveTypes.String},
		rgfilter.NestedField{ID: 2, Name: "bar", Type: rgfilter.PrimitiveTypes.Int32, Required: true},
		rgfilter.NestedField{ID: 3, Name: "baz", Type: rgfilter.PrimitiveTypes.Bool},
		rgfilter.NestedField{ID: 4, Name: "qux", Type: &rgfilter.ListType{
			ElementID: 5, Element: rgfilter.PrimitiveTypes.String, ElementRequired: true,
		}, Required: true},
		rgfilter.NestedField{ID: 6, Name: "quux", Type: &rgfilter.MapType{
			KeyID: 7, KeyType: rgfilter.PrimitiveTypes.String,
			ValueID: 8, ValueType: &rgfilter.MapType{
				KeyID: 9, KeyType: rgfilter.PrimitiveTypes.String,
				ValueID: 10, ValueType: rgfilter.PrimitiveTypes.Int32, ValueRequired: true,
			}, ValueRequired: true,
		}, Required: true},
		rgfilter.NestedField{ID: 11, Name: "location", Type: &rgfilter.ListType{
			ElementID: 12, Element: &rgfilter.StructType{FieldList: []rgfilter.NestedField{
				{ID: 13, Name: "latitude", Type: rgfilter.PrimitiveTypes.Float32},
				{ID: 14, Name: "longitude", Type: rgfilter.PrimitiveTypes.Float32},
			}}, ElementRequired: true,
		}, Required: true},
		rgfilter.NestedField{ID: 15, Name: "person", Type: &rgfilter.StructType{FieldList: []rgfilter.NestedField{
			{ID: 16, Name: "name", Type: rgfilter.PrimitiveTypes.String},
			{ID: 17, Name: "age", Type: rgfilter.PrimitiveTypes.Int32, Required: true},
		}}},
	)

	assert.Equal(t, tableNameMappingNested, rgfilter.NameMappingFromSchema(sc))
}
