package tool

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tool arguments originate from free-form model tool calls, so they are
// validated here and then bound as literal query parameters. They are never
// spliced into SQL text, whatever they contain.

const maxStringArgLen = 200

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s is empty", key)
	}
	if len(value) > maxStringArgLen {
		return "", fmt.Errorf("%s exceeds %d characters", key, maxStringArgLen)
	}
	return value, nil
}

// intArg accepts the numeric shapes JSON decoding produces and clamps the
// result into [min, max]. A missing key yields the default.
func intArg(args map[string]any, key string, def, min, max int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}

	var value int
	switch v := raw.(type) {
	case float64:
		value = int(v)
	case int:
		value = v
	case int64:
		value = int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		value = int(n)
	case string:
		return 0, fmt.Errorf("%s must be an integer", key)
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}

	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	return value, nil
}
