package registry

import (
	"fmt"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SchemaFor derives a JSON schema definition from a Go struct via
// reflection. Field names follow the struct's json tags.
func SchemaFor(v any) (jsonschema.Definition, error) {
	def, err := jsonschema.GenerateSchemaForType(v)
	if err != nil {
		return jsonschema.Definition{}, fmt.Errorf("registry: schema generation failed: %w", err)
	}
	return *def, nil
}

// MustSchemaFor is SchemaFor for static struct types that are known to
// reflect cleanly. It panics on failure.
func MustSchemaFor(v any) jsonschema.Definition {
	def, err := SchemaFor(v)
	if err != nil {
		panic(err)
	}
	return def
}

// NoParams is the schema for functions that take no arguments.
func NoParams() jsonschema.Definition {
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: map[string]jsonschema.Definition{},
	}
}

// RegisterStruct registers fn under name with a schema reflected from the
// params struct type.
func (r *FunctionRegistry) RegisterStruct(name, description string, params any, fn Func) error {
	schema, err := SchemaFor(params)
	if err != nil {
		return err
	}
	return r.RegisterFunc(name, description, schema, fn)
}
