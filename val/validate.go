package val

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

// CompileSchema turns an adapter.Schema (the JSON-Schema subset spec.md
// section 3 allows) into a compiled *jsonschema.Schema, done once at VAL
// registration time rather than per call.
func CompileSchema(name string, s *adapter.Schema) (*jsonschema.Schema, error) {
	if s == nil {
		return nil, nil
	}

	doc, err := toJSONSchemaDoc(s)
	if err != nil {
		return nil, fmt.Errorf("val: marshal schema %q: %w", name, err)
	}

	compiled, err := jsonschema.CompileString(name, string(doc))
	if err != nil {
		return nil, fmt.Errorf("val: compile schema %q: %w", name, err)
	}
	return compiled, nil
}

// toJSONSchemaDoc renders our Schema subset as a standard JSON Schema
// document jsonschema/v5 can compile. "default" is included for
// documentation purposes only — JSON Schema validation never applies
// defaults; applyDefaults does that separately.
func toJSONSchemaDoc(s *adapter.Schema) ([]byte, error) {
	return json.Marshal(schemaToMap(s))
}

func schemaToMap(s *adapter.Schema) map[string]any {
	if s == nil {
		return nil
	}
	doc := make(map[string]any)
	if s.Type != "" {
		doc["type"] = s.Type
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = schemaToMap(p)
		}
		doc["properties"] = props
	}
	if len(s.Required) > 0 {
		doc["required"] = s.Required
	}
	if len(s.Enum) > 0 {
		doc["enum"] = s.Enum
	}
	if s.Minimum != nil {
		doc["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		doc["maximum"] = *s.Maximum
	}
	if s.Items != nil {
		doc["items"] = schemaToMap(s.Items)
	}
	return doc
}

// applyDefaults copies input and, for each top-level declared field with a
// Default and a missing value, sets the default on the copy (spec.md 4.4
// step 3's second bullet). It never mutates the caller's input map.
func applyDefaults(schema *adapter.Schema, input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for k, v := range input {
		out[k] = v
	}

	if schema == nil {
		return out
	}
	for name, prop := range schema.Properties {
		if prop.Default == nil {
			continue
		}
		if _, present := out[name]; !present {
			out[name] = prop.Default
		}
	}
	return out
}

// ValidateAndDefault applies defaults then validates input against the
// compiled schema, translating any jsonschema validation failure into a
// VALIDATION_ERROR (spec.md 4.4 step 3: "Type mismatch fails VALIDATION_ERROR").
// It returns the defaulted copy on success; the caller's input is untouched.
func ValidateAndDefault(compiled *jsonschema.Schema, schema *adapter.Schema, input map[string]any) (map[string]any, error) {
	defaulted := applyDefaults(schema, input)

	if compiled == nil {
		return defaulted, nil
	}

	if err := compiled.Validate(toValidatable(defaulted)); err != nil {
		return nil, gwerrors.ValidationError(err.Error())
	}

	return defaulted, nil
}

// toValidatable round-trips through encoding/json so jsonschema/v5 sees the
// same decoded shapes (float64 numbers, []any, map[string]any) it expects,
// regardless of what concrete numeric/slice types the caller's map holds.
func toValidatable(input map[string]any) any {
	raw, err := json.Marshal(input)
	if err != nil {
		return input
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return input
	}
	return decoded
}
