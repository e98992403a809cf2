// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/template"
)

// DefaultPathTemplate places each report under a directory per project.
const DefaultPathTemplate = "{{ .project_id }}/{{ .type }}.md"

// Writer writes rendered artifacts below a base directory.
type Writer struct {
	dir          string
	pathTemplate string
}

// NewWriter creates a writer rooted at dir using DefaultPathTemplate.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, pathTemplate: DefaultPathTemplate}
}

// WithPathTemplate overrides the relative target path. The template sees
// project_id and type (lower case).
func (w *Writer) WithPathTemplate(tmpl string) *Writer {
	w.pathTemplate = tmpl
	return w
}

// TargetPath returns where a is written.
func (w *Writer) TargetPath(a models.Artifact) (string, error) {
	params := map[string]interface{}{
		"project_id": a.ProjectID,
		"type":       strings.ToLower(string(a.Type)),
	}
	rel, err := template.ProcessString(w.pathTemplate, params)
	if err != nil {
		return "", fmt.Errorf("error processing target path: %w", err)
	}
	return filepath.Join(w.dir, rel), nil
}

// Write writes every artifact and returns the paths written, in order.
func (w *Writer) Write(artifacts []models.Artifact) ([]string, error) {
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path, err := w.TargetPath(a)
		if err != nil {
			return paths, err
		}
		if err := format.WriteBytes(path, []byte(a.Content)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
