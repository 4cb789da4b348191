package entity

import (
	"fmt"
	"slices"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaBaseURL = "https://content-server.local/schemas/"

// datePattern matches a calendar date with an optional time of day
const datePattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}([T ][0-9]{2}:[0-9]{2}(:[0-9]{2}(\.[0-9]+)?)?(Z|[+-][0-9]{2}:[0-9]{2})?)?$`

// compileValidator builds and compiles the JSON schema admin payloads must satisfy.
// The document is built from []any and map[string]any values only, which is
// what the compiler walks.
func compileValidator(resource string, def *Definition) (*jsonschema.Schema, error) {
	properties := map[string]any{
		def.IDField:     map[string]any{"type": []any{"string", "number"}},
		def.ActiveField: map[string]any{"type": []any{"boolean", "null"}},
	}

	for _, field := range def.Fields {
		if field == def.IDField || field == def.ActiveField {
			continue
		}
		properties[field] = propertySchema(def.Kinds[field], slices.Contains(def.Required, field))
	}
	for field, kind := range def.Kinds {
		if _, ok := properties[field]; !ok {
			properties[field] = propertySchema(kind, slices.Contains(def.Required, field))
		}
	}
	for _, field := range def.Required {
		if _, ok := properties[field]; !ok {
			properties[field] = propertySchema("", true)
		}
	}

	required := make([]any, 0, len(def.Required))
	for _, field := range def.Required {
		required = append(required, field)
	}

	doc := map[string]any{
		"type":       "object",
		"required":   required,
		"properties": properties,
		"additionalProperties": map[string]any{
			"type": []any{"string", "number", "boolean", "null"},
		},
	}

	url := schemaBaseURL + resource + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("failed to add payload schema: %w", err)
	}
	sch, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile payload schema: %w", err)
	}
	return sch, nil
}

// propertySchema returns the schema for one field. Required fields reject null,
// and required strings must contain a non-space character.
func propertySchema(kind Kind, required bool) map[string]any {
	var variants []any
	switch kind {
	case KindString:
		s := map[string]any{"type": "string"}
		if required {
			s["pattern"] = `\S`
		}
		variants = []any{s}
	case KindNumber:
		variants = []any{
			map[string]any{"type": "number"},
			map[string]any{"type": "string", "pattern": `^\s*-?[0-9]+(\.[0-9]+)?\s*$`},
		}
	case KindBoolean:
		variants = []any{map[string]any{"type": "boolean"}}
	case KindDate:
		variants = []any{map[string]any{"type": "string", "pattern": datePattern}}
	default:
		variants = []any{
			map[string]any{"type": "string", "pattern": `\S`},
			map[string]any{"type": []any{"number", "boolean"}},
		}
		if !required {
			variants[0] = map[string]any{"type": "string"}
		}
	}

	if !required {
		variants = append(variants, map[string]any{"type": "null"})
	}
	if len(variants) == 1 {
		return variants[0].(map[string]any)
	}
	return map[string]any{"anyOf": variants}
}
