package auth

import (
	"bytes"
	"encoding/json"
	"fmt"

	ischema "github.com/invopop/jsonschema"
	vschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "fcon-auth.schema.json"

// Schema returns the JSON schema of the auth config file, reflected from Config.
func Schema() ([]byte, error) {
	r := &ischema.Reflector{}
	data, err := json.MarshalIndent(r.Reflect(&Config{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth schema: %w", err)
	}
	return data, nil
}

// NewSchemaValidator compiles the auth config schema and returns a validator for YAML config data.
func NewSchemaValidator() (ConfigValidator, error) {
	data, err := Schema()
	if err != nil {
		return nil, err
	}

	compiler := vschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add auth schema: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile auth schema: %w", err)
	}

	return func(data []byte) error {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("failed to parse auth config file: %w", err)
		}
		// round trip through JSON, the validator expects encoding/json value types
		js, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to convert auth config: %w", err)
		}
		var v any
		if err := json.Unmarshal(js, &v); err != nil {
			return fmt.Errorf("failed to convert auth config: %w", err)
		}
		if err := sch.Validate(v); err != nil {
			return fmt.Errorf("invalid auth config: %w", err)
		}
		return nil
	}, nil
}
