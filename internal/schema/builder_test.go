package schema

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/buger/jsonparser"

	"github.com/ron96g/cheader-gen/internal/meta"
	"github.com/ron96g/cheader-gen/internal/parser"
)

func field(label string, t parser.VariableType, flags string) parser.VariableDeclaration {
	return parser.VariableDeclaration{Label: label, Type: t, Meta: meta.Parse(flags)}
}

func testHeader() *parser.Header {
	return &parser.Header{
		Enums: []parser.EnumDecl{
			{Name: "Color", Members: []parser.EnumMember{{Name: "RED"}, {Name: "GREEN"}}},
		},
		Structs: []parser.StructDecl{
			{Name: "Handle"},
			{
				Name:    "Point",
				Comment: "// A point on the screen.\n// #meta: persistent;",
				Fields: []parser.VariableDeclaration{
					field("x", parser.VariableType{Kind: parser.KindInt32}, ""),
					field("y", parser.VariableType{Kind: parser.KindInt32}, ""),
				},
			},
			{
				Name: "Shape",
				Fields: []parser.VariableDeclaration{
					field("name", parser.VariableType{Kind: parser.KindChar, PointerCount: 1}, "nullable;"),
					field("origin", parser.VariableType{Kind: parser.KindStructRef, Name: "Point", IsStruct: true, PointerCount: 1}, ""),
					field("points", parser.VariableType{Kind: parser.KindStructRef, Name: "Point", IsStruct: true, PointerCount: 1}, ""),
					field("count", parser.VariableType{Kind: parser.KindSize}, "length(points);"),
					field("tags", parser.VariableType{Kind: parser.KindChar, PointerCount: 2}, "list;"),
					field("color", parser.VariableType{Kind: parser.KindEnumRef, Name: "Color"}, ""),
					field("handle", parser.VariableType{Kind: parser.KindStructRef, Name: "Handle", IsStruct: true, PointerCount: 1}, "nullable;"),
					field("scale", parser.VariableType{Kind: parser.KindDouble}, ""),
					field("visible", parser.VariableType{Kind: parser.KindBool}, ""),
					field("created", parser.VariableType{Kind: parser.KindChar, PointerCount: 1}, "datetime;"),
					field("homepage", parser.VariableType{Kind: parser.KindChar, PointerCount: 1}, "url; nullable;"),
					field("ttl", parser.VariableType{Kind: parser.KindInt64}, "duration;"),
					field("user_data", parser.VariableType{Kind: parser.KindVoidPtr, PointerCount: 1}, "nullable;"),
				},
			},
		},
	}
}

func buildShape(t *testing.T, schemaID string) ([]byte, []string) {
	t.Helper()
	h := testHeader()
	b := NewBuilder(schemaID)
	b.SetHeader(h)

	s, _ := h.Struct("Shape")
	schema, refs, err := b.BuildSchemaWithRefs(s)
	if err != nil {
		t.Fatalf("BuildSchemaWithRefs() error = %v", err)
	}
	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return data, refs
}

func TestBuildSchemaProperties(t *testing.T) {
	data, refs := buildShape(t, "")

	tests := []struct {
		property string
		key      string
		expected string
	}{
		{"name", "type", "string"},
		{"origin", "$ref", "point.schema.json"},
		{"points", "type", "array"},
		{"count", "type", "integer"},
		{"count", "x-length-for", "points"},
		{"tags", "type", "array"},
		{"color", "type", "integer"},
		{"handle", "type", "object"},
		{"scale", "type", "number"},
		{"visible", "type", "boolean"},
		{"created", "format", "date-time"},
		{"homepage", "format", "uri"},
		{"ttl", "type", "integer"},
		{"ttl", "x-format", "duration"},
	}

	for i, tt := range tests {
		got, err := jsonparser.GetString(data, "properties", tt.property, tt.key)
		if err != nil {
			t.Fatalf("tests[%d] - %s.%s missing: %v\n%s", i, tt.property, tt.key, err, data)
		}
		if got != tt.expected {
			t.Fatalf("tests[%d] - %s.%s wrong. expected=%q, got=%q", i, tt.property, tt.key, tt.expected, got)
		}
	}

	items, err := jsonparser.GetString(data, "properties", "points", "items", "$ref")
	if err != nil || items != "point.schema.json" {
		t.Fatalf("points items wrong. expected=%q, got=%q (%v)", "point.schema.json", items, err)
	}
	tagItems, err := jsonparser.GetString(data, "properties", "tags", "items", "type")
	if err != nil || tagItems != "string" {
		t.Fatalf("tags items wrong. expected=%q, got=%q (%v)", "string", tagItems, err)
	}
	if _, _, _, err := jsonparser.Get(data, "properties", "user_data", "type"); err == nil {
		t.Fatalf("user_data should accept any value\n%s", data)
	}

	if !slices.Equal(refs, []string{"Point"}) {
		t.Fatalf("refs wrong. expected=[Point], got=%v", refs)
	}
}

func TestBuildSchemaRequired(t *testing.T) {
	data, _ := buildShape(t, "")

	var required []string
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		required = append(required, string(value))
	}, "required")
	if err != nil {
		t.Fatalf("ArrayEach() error = %v", err)
	}

	expected := []string{"origin", "points", "count", "tags", "color", "scale", "visible", "created", "ttl"}
	if !slices.Equal(required, expected) {
		t.Fatalf("required wrong. expected=%v, got=%v", expected, required)
	}
}

func TestBuildSchemaEnumValues(t *testing.T) {
	data, _ := buildShape(t, "")

	var names []string
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		names = append(names, string(value))
	}, "properties", "color", "x-enum-varnames")
	if err != nil {
		t.Fatalf("ArrayEach() error = %v", err)
	}
	if !slices.Equal(names, []string{"RED", "GREEN"}) {
		t.Fatalf("enum names wrong. got=%v", names)
	}

	last, err := jsonparser.GetInt(data, "properties", "color", "enum", "[1]")
	if err != nil || last != 1 {
		t.Fatalf("enum value wrong. expected=1, got=%d (%v)", last, err)
	}
}

func TestBuildSchemaHeader(t *testing.T) {
	h := testHeader()
	b := NewBuilder("https://example.com/schemas")
	b.SetHeader(h)

	s, _ := h.Struct("Point")
	schema, err := b.BuildSchema(s, NewRefTracker())
	if err != nil {
		t.Fatalf("BuildSchema() error = %v", err)
	}

	if schema.Title != "Point" {
		t.Fatalf("schema.Title wrong. expected=%q, got=%q", "Point", schema.Title)
	}
	if string(schema.ID) != "https://example.com/schemas/point.schema.json" {
		t.Fatalf("schema.ID wrong. got=%q", schema.ID)
	}
	if schema.Description != "A point on the screen." {
		t.Fatalf("schema.Description wrong. got=%q", schema.Description)
	}
	if schema.Version != JSONSchemaDraft {
		t.Fatalf("schema.Version wrong. got=%q", schema.Version)
	}

	var keys []string
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	if !slices.Equal(keys, []string{"x", "y"}) {
		t.Fatalf("property order wrong. got=%v", keys)
	}
}

func TestBuildSchemaErrors(t *testing.T) {
	h := testHeader()
	b := NewBuilder("")
	b.SetHeader(h)

	handle, _ := h.Struct("Handle")
	if _, err := b.BuildSchema(handle, NewRefTracker()); err == nil {
		t.Fatalf("expected error for opaque struct")
	}

	bad := parser.StructDecl{
		Name: "Bad",
		Fields: []parser.VariableDeclaration{
			field("n", parser.VariableType{Kind: parser.KindInt}, "list;"),
		},
	}
	if _, err := b.BuildSchema(bad, NewRefTracker()); err == nil {
		t.Fatalf("expected error for list on non-pointer")
	}
}

func TestCleanComment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"// Hello", "Hello"},
		{"/* Hello */", "Hello"},
		{"/**\n * Multi\n * line\n */", "Multi line"},
		{"// Doc\n// #meta: persistent;", "Doc"},
		{"// #meta_param: x; nullable;", ""},
	}

	for i, tt := range tests {
		if got := cleanComment(tt.input); got != tt.expected {
			t.Fatalf("tests[%d] - cleanComment() wrong. expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestTopologicalSort(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("Shape", "Point")
	dg.AddDependency("Scene", "Shape")
	dg.AddDependency("Node", "Node")

	sorted, err := dg.TopologicalSort([]string{"Scene", "Node", "Shape", "Point"})
	if err != nil {
		t.Fatalf("TopologicalSort() error = %v", err)
	}

	expected := []string{"Point", "Shape", "Scene", "Node"}
	if !slices.Equal(sorted, expected) {
		t.Fatalf("order wrong. expected=%v, got=%v", expected, sorted)
	}
	if len(dg.GetDependencies("Node")) != 0 {
		t.Fatalf("self reference recorded. got=%v", dg.GetDependencies("Node"))
	}
}

func TestTopologicalSortCycle(t *testing.T) {
	dg := NewDependencyGraph()
	dg.AddDependency("A", "B")
	dg.AddDependency("B", "A")

	_, err := dg.TopologicalSort([]string{"A", "B"})
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected *CycleError, got %v", err)
	}
	if !slices.Equal(cycle.Types, []string{"A", "B", "A"}) {
		t.Fatalf("cycle wrong. got=%v", cycle.Types)
	}
}
