package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// reflector makes schemas with only explicitly tagged fields required, all types inlined
func reflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{RequiredFromJSONSchemaTags: true, DoNotReference: true}
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return reflector().Reflect(&Config{})
}

// Verify checks every field marked required in the reflected schema is present and non-empty
func Verify(cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	return checkRequired(GenerateSchema(), doc, "")
}

func checkRequired(s *jsonschema.Schema, val any, path string) error {
	if s == nil {
		return nil
	}

	if arr, ok := val.([]any); ok {
		for i, v := range arr {
			if err := checkRequired(s.Items, v, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	}

	obj, ok := val.(map[string]any)
	if !ok {
		return nil
	}

	for _, name := range s.Required {
		if isEmpty(obj[name]) {
			return fmt.Errorf("%s is required", joinPath(path, name))
		}
	}

	if s.Properties == nil {
		return nil
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := obj[pair.Key]
		if !ok {
			continue
		}
		if err := checkRequired(pair.Value, v, joinPath(path, pair.Key)); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch vv := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(vv) == ""
	case []any:
		return len(vv) == 0
	case map[string]any:
		return len(vv) == 0
	}
	return false
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
