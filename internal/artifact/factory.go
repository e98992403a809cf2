// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"fmt"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
)

// RendererCreator builds a renderer for one report type.
type RendererCreator func() (Renderer, error)

// Factory creates renderers of different report types
type Factory struct {
	creators map[models.ArtifactType]RendererCreator
	order    []models.ArtifactType
}

// NewFactory creates an empty factory
func NewFactory() *Factory {
	return &Factory{
		creators: make(map[models.ArtifactType]RendererCreator),
	}
}

// DefaultFactory returns a factory with the four standard reports registered.
func DefaultFactory() *Factory {
	f := NewFactory()
	f.RegisterDefaultTypes()
	return f
}

// Register registers a renderer creator for a report type. Registering a
// type twice replaces the earlier creator.
func (f *Factory) Register(t models.ArtifactType, creator RendererCreator) {
	if _, ok := f.creators[t]; !ok {
		f.order = append(f.order, t)
	}
	f.creators[t] = creator
}

// Types returns the registered report types in registration order.
func (f *Factory) Types() []models.ArtifactType {
	return append([]models.ArtifactType(nil), f.order...)
}

// Create creates a renderer of the specified type
func (f *Factory) Create(t models.ArtifactType) (Renderer, error) {
	creator, ok := f.creators[t]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidArtifactType, "unknown artifact type: %s", t).
			WithSuggestion(fmt.Sprintf("Use one of %v", f.order))
	}
	return creator()
}

// Generate renders the requested types, or every registered type when none
// are given.
func (f *Factory) Generate(s Snapshot, types ...models.ArtifactType) ([]models.Artifact, error) {
	if len(types) == 0 {
		types = f.order
	}

	artifacts := make([]models.Artifact, 0, len(types))
	for _, t := range types {
		r, err := f.Create(t)
		if err != nil {
			return nil, err
		}
		a, err := Build(r, s)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// RegisterDefaultTypes registers all the standard report types
func (f *Factory) RegisterDefaultTypes() {
	f.Register(models.ArtifactDecisionLog, func() (Renderer, error) {
		return newTemplateRenderer(models.ArtifactDecisionLog, "decision_log.md.tmpl", decisionLogView)
	})
	f.Register(models.ArtifactConfigWorkbook, func() (Renderer, error) {
		return newTemplateRenderer(models.ArtifactConfigWorkbook, "config_workbook.md.tmpl", workbookView)
	})
	f.Register(models.ArtifactTestView, func() (Renderer, error) {
		return newTemplateRenderer(models.ArtifactTestView, "test_view.md.tmpl", testView)
	})
	f.Register(models.ArtifactMigrationView, func() (Renderer, error) {
		return newTemplateRenderer(models.ArtifactMigrationView, "migration_view.md.tmpl", migrationView)
	})
}
