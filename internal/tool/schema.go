package tool

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ObjectSchema reflects a typed tool-input struct into the JSON-schema
// parameter map the model call boundary expects. Fields without
// `json:",omitempty"` become required. Descriptions are attached per field
// name since struct tags are too cramped for the multi-sentence guidance
// tool parameters tend to need.
func ObjectSchema[T any](descriptions map[string]string) map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var input T
	schema := reflector.Reflect(input)

	for name, description := range descriptions {
		if prop, ok := schema.Properties.Get(name); ok {
			prop.Description = description
		}
	}

	params := map[string]any{
		"type":       "object",
		"properties": schema.Properties,
	}
	if len(schema.Required) > 0 {
		params["required"] = schema.Required
	}
	return params
}

// BindArguments decodes the raw argument map the dispatch core parsed from
// the model's call payload into a typed input struct. A type mismatch is
// reported as an error; missing fields are left at their zero value and
// are the tool's own responsibility to check.
func BindArguments(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode arguments: %w", err)
	}
	return nil
}
