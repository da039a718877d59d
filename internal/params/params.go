// Package params builds loosely typed settings maps from environment
// variables, config files, JSON strings and key=value pairs. Later sources
// override earlier ones.
package params

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseKV parses a key=value pair, attempting type inference for the value
func ParseKV(kvPair string) (string, any, error) {
	key, valueStr, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	return key, inferValue(strings.TrimSpace(valueStr)), nil
}

// inferValue prefers integers so that "1" is never read as boolean true.
func inferValue(s string) any {
	if intVal, err := strconv.Atoi(s); err == nil {
		return intVal
	}
	if floatVal, err := strconv.ParseFloat(s, 64); err == nil {
		return floatVal
	}
	if s == "true" || s == "false" {
		return s == "true"
	}
	return s
}

// ParseJSON parses a JSON string into a map or other structure
func ParseJSON(jsonStr string) (any, error) {
	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a JSON or YAML file, chosen by extension.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var result any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid YAML in file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid JSON in file: %w", err)
		}
	}
	return result, nil
}

// ParseEnv reads PREFIX (a JSON object) and PREFIX_* variables. Keys of the
// latter are lower-cased with the prefix stripped. Returns nil when nothing
// is set.
func ParseEnv(prefix string) map[string]any {
	settings := make(map[string]any)

	// Malformed JSON in PREFIX is ignored
	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(settings, m)
			}
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		settings[key] = inferValue(strings.TrimSpace(value))
	}

	if len(settings) == 0 {
		return nil
	}
	return settings
}

// Merge combines sources with later ones winning. A lone non-object source
// (a JSON array, say) is returned unchanged.
func Merge(sources ...any) any {
	result := make(map[string]any)

	for _, src := range sources {
		if src == nil {
			continue
		}

		switch v := src.(type) {
		case map[string]any:
			maps.Copy(result, v)
		default:
			if len(result) == 0 {
				return v
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Build merges, in increasing precedence: environment variables under
// envPrefix, the file at filePath, jsonStr and kvPairs.
func Build(envPrefix, jsonStr string, kvPairs []string, filePath string) (any, error) {
	var sources []any

	if env := ParseEnv(envPrefix); env != nil {
		sources = append(sources, env)
	}

	if filePath != "" {
		fileSrc, err := ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fileSrc)
	}

	if jsonStr != "" {
		jsonSrc, err := ParseJSON(jsonStr)
		if err != nil {
			return nil, err
		}
		sources = append(sources, jsonSrc)
	}

	if len(kvPairs) > 0 {
		kv := make(map[string]any)
		for _, pair := range kvPairs {
			key, value, err := ParseKV(pair)
			if err != nil {
				return nil, err
			}
			kv[key] = value
		}
		sources = append(sources, kv)
	}

	return Merge(sources...), nil
}

// BuildMap is Build for settings that must be an object. An empty result
// is an empty map.
func BuildMap(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	result, err := Build(envPrefix, jsonStr, kvPairs, filePath)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return make(map[string]any), nil
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s settings must be an object/map", strings.ToLower(envPrefix))
	}
	return m, nil
}
