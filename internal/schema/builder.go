package schema

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/ron96g/cheader-gen/internal/parser"
)

const (
	// JSONSchemaDraft is the JSON Schema draft version.
	JSONSchemaDraft = "https://json-schema.org/draft/2020-12/schema"
)

// Builder builds JSON Schemas from parsed struct declarations.
type Builder struct {
	mapper   *MetaMapper
	schemaID string // Base URL for $id field
	structs  map[string]parser.StructDecl
	enums    map[string]parser.EnumDecl
}

// NewBuilder creates a new Builder.
func NewBuilder(schemaID string) *Builder {
	return &Builder{
		mapper:   NewMetaMapper(),
		schemaID: schemaID,
		structs:  make(map[string]parser.StructDecl),
		enums:    make(map[string]parser.EnumDecl),
	}
}

// SetHeader makes the structs and enums of h available for references.
func (b *Builder) SetHeader(h *parser.Header) {
	for _, s := range h.Structs {
		b.structs[s.Name] = s
	}
	for _, e := range h.Enums {
		b.enums[e.Name] = e
	}
}

// BuildSchema creates a JSON Schema from a StructDecl.
func (b *Builder) BuildSchema(s parser.StructDecl, refTracker *RefTracker) (*jsonschema.Schema, error) {
	if s.Opaque() {
		return nil, fmt.Errorf("struct %s is opaque", s.Name)
	}

	schema := &jsonschema.Schema{
		Version: JSONSchemaDraft,
		Title:   s.Name,
		Type:    "object",
	}

	// Set $id if base URL is provided (uses lowercase to match output filename)
	if b.schemaID != "" {
		schema.ID = jsonschema.ID(b.schemaID + "/" + GetSchemaFilename(s.Name))
	}

	if doc := cleanComment(s.Comment); doc != "" {
		schema.Description = doc
	}

	// Fields whose length is held by a sibling are arrays
	counted := make(map[string]bool)
	for _, f := range s.Fields {
		if f.Meta != nil && f.Meta.LengthFor != "" {
			counted[f.Meta.LengthFor] = true
		}
	}

	properties := jsonschema.NewProperties()
	var required []string

	for _, field := range s.Fields {
		if field.Label == "" {
			return nil, fmt.Errorf("struct %s: unnamed field of type %s", s.Name, field.Type)
		}

		list := field.Meta != nil && field.Meta.IsList
		if counted[field.Label] && !isCString(field.Type) {
			list = true
		}

		fieldSchema, err := b.BuildFieldSchema(field, list, refTracker)
		if err != nil {
			return nil, fmt.Errorf("struct %s: %w", s.Name, err)
		}

		if b.mapper.ApplyMeta(fieldSchema, field) {
			required = append(required, field.Label)
		}

		properties.Set(field.Label, fieldSchema)
	}

	schema.Properties = properties
	if len(required) > 0 {
		schema.Required = required
	}

	return schema, nil
}

// BuildSchemaWithRefs creates a JSON Schema and returns all referenced types.
func (b *Builder) BuildSchemaWithRefs(s parser.StructDecl) (*jsonschema.Schema, []string, error) {
	refTracker := NewRefTracker()
	schema, err := b.BuildSchema(s, refTracker)
	if err != nil {
		return nil, nil, err
	}
	return schema, refTracker.GetRefs(), nil
}

// GetSchemaFilename returns the schema filename for a type.
func GetSchemaFilename(typeName string) string {
	return strings.ToLower(typeName) + ".schema.json"
}

func isCString(t parser.VariableType) bool {
	return t.Kind == parser.KindChar && t.PointerCount == 1
}
