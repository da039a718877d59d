package params

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// String returns settings[key] when it is a string.
func String(settings map[string]any, key string) (string, bool) {
	if val, ok := settings[key]; ok {
		if str, ok := val.(string); ok {
			return str, true
		}
	}
	return "", false
}

// StringOr returns settings[key] or def.
func StringOr(settings map[string]any, key, def string) string {
	if val, ok := String(settings, key); ok {
		return val
	}
	return def
}

// Bool accepts real booleans and strconv.ParseBool strings.
func Bool(settings map[string]any, key string, def bool) bool {
	if val, ok := settings[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return def
}

// Int handles both int values (KV, env, YAML) and float64 values (JSON).
func Int(settings map[string]any, key string, def int) int {
	switch v := settings[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// Strings accepts a list or a comma-separated string.
func Strings(settings map[string]any, key string) ([]string, bool) {
	switch v := settings[key].(type) {
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out, true
	}
	return nil, false
}

// Duration accepts Go duration strings ("90s") or a bare number of seconds.
func Duration(settings map[string]any, key string) (time.Duration, bool, error) {
	switch v := settings[key].(type) {
	case nil:
		return 0, false, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, true, fmt.Errorf("invalid %s duration: %w", key, err)
		}
		return d, true, nil
	case int:
		return time.Duration(v) * time.Second, true, nil
	case float64:
		return time.Duration(v * float64(time.Second)), true, nil
	default:
		return 0, true, fmt.Errorf("invalid %s duration: %v", key, v)
	}
}
