// SPDX-License-Identifier: Apache-2.0

// Package format encodes and decodes the YAML and JSON documents imgquest reads and
// writes: catalogs, config, project files and exports.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat accepts "yaml", "yml" and "json", case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q: must be yaml or json", s)
	}
}

// ForPath picks the format from a file extension. Unknown extensions are YAML.
func ForPath(filePath string) Format {
	if strings.ToLower(filepath.Ext(filePath)) == ".json" {
		return JSON
	}
	return YAML
}

// ParseFile reads and parses a file, trying YAML first, then JSON
func ParseFile(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	return ParseData(data, v)
}

// ParseData parses data, trying YAML first, then JSON
func ParseData(data []byte, v interface{}) error {
	err := yaml.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	jsonErr := json.Unmarshal(data, v)
	if jsonErr == nil {
		return nil
	}

	return fmt.Errorf("failed to parse as YAML (%v) or JSON (%v)", err, jsonErr)
}

// Encode marshals v in the given format. JSON is indented with two spaces.
func Encode(v interface{}, f Format) ([]byte, error) {
	var data []byte
	var err error

	switch f {
	case JSON:
		data, err = json.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case YAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}

	if err != nil {
		return nil, fmt.Errorf("error marshaling %s: %w", f, err)
	}
	return data, nil
}

// WriteFile encodes v according to the file extension and replaces filePath
// atomically, creating parent directories as needed.
func WriteFile(filePath string, v interface{}) error {
	data, err := Encode(v, ForPath(filePath))
	if err != nil {
		return err
	}
	return WriteBytes(filePath, data)
}

// WriteBytes atomically replaces filePath with data.
func WriteBytes(filePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("error creating directory for %s: %w", filePath, err)
	}
	if err := atomic.WriteFile(filePath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("error writing %s: %w", filePath, err)
	}
	return nil
}

// FormatData formats data as a YAML or JSON string
func FormatData(v interface{}, f Format) (string, error) {
	data, err := Encode(v, f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// IsYAMLFile returns true if the file extension suggests it's a YAML file
func IsYAMLFile(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".yaml" || ext == ".yml"
}
