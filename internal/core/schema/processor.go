// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// ParseAssignments turns "name=value" pairs from the command line into a raw map.
func ParseAssignments(pairs []string) (map[string]string, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected name=value", pair)
		}
		raw[name] = value
	}
	return raw, nil
}

// CoerceValues converts string inputs to the types the item's inputs declare.
// Multiselect accepts a JSON array or a comma separated list. Values for
// undeclared fields stay strings so validation can report them.
func CoerceValues(item models.ConfigItem, raw map[string]string) (map[string]interface{}, error) {
	defs := make(map[string]models.InputDef, len(item.Inputs))
	for _, in := range item.Inputs {
		defs[in.Name] = in
	}

	result := make(map[string]interface{}, len(raw))
	for name, value := range raw {
		def, ok := defs[name]
		if !ok {
			result[name] = value
			continue
		}

		switch strings.ToLower(def.Type) {
		case TypeNumber:
			num, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return nil, fmt.Errorf("input %s: %q is not a number", name, value)
			}
			result[name] = num
		case TypeBoolean:
			b, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("input %s: %q is not a boolean", name, value)
			}
			result[name] = b
		case TypeMultiSelect:
			result[name] = splitList(value)
		default:
			result[name] = value
		}
	}

	return result, nil
}

func splitList(value string) []interface{} {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var arr []interface{}
		if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
			return arr
		}
	}

	list := []interface{}{}
	for _, part := range strings.Split(trimmed, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// NormalizeValue converts typed values from YAML or prompts into the JSON-compatible
// shapes the validator expects: ints become float64 and string slices become []interface{}.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case []string:
		out := make([]interface{}, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = NormalizeValue(item)
		}
		return out
	default:
		return v
	}
}
