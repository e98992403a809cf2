// SPDX-License-Identifier: Apache-2.0

// Package schema derives JSON schemas from item input definitions and validates
// submitted answers against them.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Input types understood by the schema builder. Other types accept any value.
const (
	TypeSelect      = "select"
	TypeMultiSelect = "multiselect"
	TypeString      = "string"
	TypeNumber      = "number"
	TypeBoolean     = "boolean"
)

// ForItem builds an object schema with one property per input. When the item
// declares inputs, unknown field names are rejected.
func ForItem(item models.ConfigItem) map[string]interface{} {
	properties := make(map[string]interface{}, len(item.Inputs))
	for _, in := range item.Inputs {
		properties[in.Name] = propertyFor(in)
	}

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": len(item.Inputs) == 0,
	}
}

func propertyFor(in models.InputDef) map[string]interface{} {
	switch strings.ToLower(in.Type) {
	case TypeSelect:
		prop := map[string]interface{}{"type": "string"}
		if len(in.Options) > 0 {
			prop["enum"] = in.Options
		}
		return prop
	case TypeMultiSelect:
		items := map[string]interface{}{"type": "string"}
		if len(in.Options) > 0 {
			items["enum"] = in.Options
		}
		return map[string]interface{}{"type": "array", "items": items}
	case TypeString:
		return map[string]interface{}{"type": "string"}
	case TypeNumber:
		return map[string]interface{}{"type": "number"}
	case TypeBoolean:
		return map[string]interface{}{"type": "boolean"}
	default:
		return map[string]interface{}{}
	}
}

// ValidateParams validates values against a JSON schema
func ValidateParams(schema map[string]interface{}, values map[string]interface{}) error {
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("schema validation error: failed to serialize schema: %w", err)
	}
	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)

	valueBytes, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("schema validation error: failed to serialize values: %w", err)
	}
	documentLoader := gojsonschema.NewBytesLoader(valueBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("answer validation failed: %s", strings.Join(msgs, "; "))
	}

	return nil
}

// ValidateAnswers checks values against the schema derived from item.
func ValidateAnswers(item models.ConfigItem, values map[string]interface{}) error {
	return ValidateParams(ForItem(item), values)
}

// Defaults returns the default value of each input that declares one.
func Defaults(item models.ConfigItem) map[string]interface{} {
	defaults := make(map[string]interface{})
	for _, in := range item.Inputs {
		if in.Default != nil {
			defaults[in.Name] = in.Default
		}
	}
	return defaults
}

// MergeWithDefaults merges values over defaults
func MergeWithDefaults(values map[string]interface{}, defaults map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(defaults)+len(values))
	for k, v := range defaults {
		result[k] = v
	}
	for k, v := range values {
		result[k] = v
	}
	return result
}
