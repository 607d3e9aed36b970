package schema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/ron96g/cheader-gen/internal/meta"
	"github.com/ron96g/cheader-gen/internal/parser"
)

// MetaMapper maps #meta annotations to JSON Schema constraints.
type MetaMapper struct{}

// NewMetaMapper creates a new MetaMapper.
func NewMetaMapper() *MetaMapper {
	return &MetaMapper{}
}

// ApplyMeta applies the field's annotation to its schema. Every field is
// required unless it is annotated nullable.
func (m *MetaMapper) ApplyMeta(schema *jsonschema.Schema, field parser.VariableDeclaration) (isRequired bool) {
	a := field.Meta
	if a == nil {
		return true
	}

	target := schema
	if schema.Type == "array" && schema.Items != nil {
		target = schema.Items
	}
	m.applyFormat(target, a)

	if a.LengthFor != "" {
		schema.Type = "integer"
		schema.Minimum = json.Number("0")
		setExtra(schema, "x-length-for", a.LengthFor)
	}
	if a.CapacityFor != "" {
		schema.Type = "integer"
		schema.Minimum = json.Number("0")
		setExtra(schema, "x-capacity-for", a.CapacityFor)
	}
	if a.IsError {
		setExtra(schema, "x-error", true)
	}
	if a.IsPersistent {
		setExtra(schema, "x-persistent", true)
	}

	return !a.IsNullable
}

// applyFormat maps the value semantics flags.
func (m *MetaMapper) applyFormat(schema *jsonschema.Schema, a *meta.Annotation) {
	switch {
	case a.IsString:
		schema.Type = "string"

	case a.IsURL:
		schema.Type = "string"
		schema.Format = "uri"

	case a.IsDatetime:
		schema.Type = "string"
		schema.Format = "date-time"

	case a.IsDuration:
		if schema.Type == "string" {
			schema.Format = "duration"
		} else {
			setExtra(schema, "x-format", "duration")
		}

	case a.IsTimestamp:
		if schema.Type == "string" {
			schema.Format = "date-time"
		} else {
			setExtra(schema, "x-format", "timestamp")
		}
	}
}

func setExtra(schema *jsonschema.Schema, key string, value any) {
	if schema.Extras == nil {
		schema.Extras = make(map[string]any)
	}
	schema.Extras[key] = value
}
