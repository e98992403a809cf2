// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"embed"
	"fmt"
	gotemplate "text/template"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/template"
)

//go:embed templates/*.md.tmpl
var templateFS embed.FS

const headerTemplate = "header.md.tmpl"

// templateRenderer executes one embedded report template against a view
// built from the snapshot.
type templateRenderer struct {
	typ  models.ArtifactType
	tmpl *gotemplate.Template
	view func(Snapshot) interface{}
}

func newTemplateRenderer(t models.ArtifactType, file string, view func(Snapshot) interface{}) (Renderer, error) {
	header, err := templateFS.ReadFile("templates/" + headerTemplate)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", headerTemplate, err)
	}
	body, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}

	tmpl, err := template.Compile(file, string(header)+string(body), template.DefaultFuncs())
	if err != nil {
		return nil, err
	}
	return &templateRenderer{typ: t, tmpl: tmpl, view: view}, nil
}

func (r *templateRenderer) Type() models.ArtifactType {
	return r.typ
}

func (r *templateRenderer) Render(s Snapshot) (string, error) {
	out, err := template.Execute(r.tmpl, r.view(s))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRender, fmt.Sprintf("failed to render %s", r.typ), err)
	}
	return out, nil
}
