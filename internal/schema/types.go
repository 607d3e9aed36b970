// Package schema handles JSON Schema generation from parsed C structs.
package schema

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/ron96g/cheader-gen/internal/parser"
)

// CTypeToJSONSchema converts a C type to JSON Schema type and format.
// `char *` is treated as a string; every other pointer is described by its
// pointee.
func CTypeToJSONSchema(t parser.VariableType) (schemaType string, format string) {
	if t.Kind == parser.KindChar && t.PointerCount == 1 {
		return "string", ""
	}

	switch {
	case t.Kind == parser.KindBool:
		return "boolean", ""
	case t.Kind.IsInteger():
		return "integer", ""
	case t.Kind.IsFloat():
		return "number", ""
	case t.Kind == parser.KindStructRef:
		return "object", ""
	case t.Kind == parser.KindEnumRef:
		return "integer", ""
	default:
		return "", "" // void * and friends, any value
	}
}

// elem returns the type one level of indirection down.
func elem(t parser.VariableType) parser.VariableType {
	if t.PointerCount > 0 {
		t.PointerCount--
	}
	if t.Kind == parser.KindVoidPtr && t.PointerCount == 0 {
		t.Kind = parser.KindVoid
	}
	return t
}

// BuildTypeSchema creates a JSON Schema for a C type. Struct references
// are recorded on refTracker; references to opaque or unknown structs fall
// back to a plain object.
func (b *Builder) BuildTypeSchema(t parser.VariableType, refTracker *RefTracker) *jsonschema.Schema {
	schema := &jsonschema.Schema{}

	switch t.Kind {
	case parser.KindStructRef:
		if s, ok := b.structs[t.Name]; ok && !s.Opaque() {
			refTracker.AddRef(t.Name)
			schema.Ref = refTracker.GetRefPath(t.Name)
		} else {
			schema.Type = "object"
		}

	case parser.KindEnumRef:
		schema.Type = "integer"
		if e, ok := b.enums[t.Name]; ok {
			values := make([]any, len(e.Members))
			names := make([]string, len(e.Members))
			for i, m := range e.Members {
				values[i] = i
				names[i] = m.Name
			}
			schema.Enum = values
			schema.Extras = map[string]any{"x-enum-varnames": names}
		}

	default:
		schemaType, format := CTypeToJSONSchema(t)
		schema.Type = schemaType
		if format != "" {
			schema.Format = format
		}
	}

	return schema
}

// BuildFieldSchema creates a JSON Schema for a struct member. A list field
// is described as an array of its pointee.
func (b *Builder) BuildFieldSchema(field parser.VariableDeclaration, list bool, refTracker *RefTracker) (*jsonschema.Schema, error) {
	var schema *jsonschema.Schema

	switch {
	case list:
		if field.Type.PointerCount == 0 {
			return nil, fmt.Errorf("field %s: list annotation on non-pointer type %s", field.Label, field.Type)
		}
		schema = &jsonschema.Schema{
			Type:  "array",
			Items: b.BuildTypeSchema(elem(field.Type), refTracker),
		}

	case field.Meta != nil && field.Meta.IsHashmap:
		schema = &jsonschema.Schema{
			Type:                 "object",
			AdditionalProperties: b.BuildTypeSchema(elem(field.Type), refTracker),
		}

	default:
		schema = b.BuildTypeSchema(field.Type, refTracker)
	}

	if doc := cleanComment(field.Comment); doc != "" {
		schema.Description = doc
	}

	return schema, nil
}

// cleanComment strips comment markers and annotation lines.
func cleanComment(comment string) string {
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(strings.TrimSpace(line), "*")
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "#meta") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, " ")
}
