// SPDX-License-Identifier: Apache-2.0

// Package template renders the text/template sources used for reports.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Compile parses text into a named template. Missing map keys are errors.
func Compile(name, text string, funcs template.FuncMap) (*template.Template, error) {
	tmpl := template.New(name).Option("missingkey=error")
	if funcs != nil {
		tmpl = tmpl.Funcs(funcs)
	}
	tmpl, err := tmpl.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("error parsing template %s: %w", name, err)
	}
	return tmpl, nil
}

// Execute runs a compiled template against data.
func Execute(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// ProcessString compiles and executes text in one step.
func ProcessString(text string, data interface{}) (string, error) {
	tmpl, err := Compile("template", text, DefaultFuncs())
	if err != nil {
		return "", err
	}
	return Execute(tmpl, data)
}

// DefaultFuncs are available to every report template.
func DefaultFuncs() template.FuncMap {
	return template.FuncMap{
		"join":  strings.Join,
		"upper": strings.ToUpper,
		// cell escapes a value for a Markdown table cell.
		"cell": func(s string) string {
			s = strings.ReplaceAll(s, "|", "\\|")
			return strings.ReplaceAll(s, "\n", " ")
		},
		"default": func(fallback, s string) string {
			if s == "" {
				return fallback
			}
			return s
		},
		"add": func(a, b int) int { return a + b },
	}
}
