package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hyperterse/sqlgeneric/core/domain"
)

// ParseRequest parses a request document holding the info values and
// parameters of one invocation. JSON documents parse as YAML.
//
// Scalars are kept as their text. A query_values parameter written as a
// mapping is encoded to the JSON object the handler expects.
func ParseRequest(data []byte) (domain.HostInput, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return domain.HostInput{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	input := domain.HostInput{
		Info:       map[string]string{},
		Parameters: map[string]string{},
	}

	for key := range raw {
		if key != "info" && key != "parameters" {
			return domain.HostInput{}, fmt.Errorf("unknown top-level key '%s'", key)
		}
	}

	if err := decodeSection(raw, "info", input.Info); err != nil {
		return domain.HostInput{}, err
	}
	if err := decodeSection(raw, "parameters", input.Parameters); err != nil {
		return domain.HostInput{}, err
	}
	return input, nil
}

// LoadRequest reads and parses a request document, then substitutes
// environment references in its info values
func LoadRequest(path string) (domain.HostInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.HostInput{}, fmt.Errorf("failed to read request file: %w", err)
	}

	input, err := ParseRequest(data)
	if err != nil {
		return domain.HostInput{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := SubstituteEnvVarsInInput(&input); err != nil {
		return domain.HostInput{}, fmt.Errorf("%s: %w", path, err)
	}
	return input, nil
}

func decodeSection(raw map[string]any, section string, into map[string]string) error {
	value, ok := raw[section]
	if !ok || value == nil {
		return nil
	}
	entries, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("'%s' must be a mapping", section)
	}

	for key, entry := range entries {
		switch v := entry.(type) {
		case nil:
			into[key] = ""
		case string:
			into[key] = v
		case map[string]any:
			if section != "parameters" || key != domain.ParamQueryValues {
				return fmt.Errorf("%s value '%s' must be a scalar", section, key)
			}
			encoded, err := encodeJSON(v)
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", key, err)
			}
			into[key] = encoded
		case []any:
			return fmt.Errorf("%s value '%s' must be a scalar", section, key)
		default:
			into[key] = fmt.Sprintf("%v", v)
		}
	}
	return nil
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}
