// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"context"

	"github.com/kusari-oss/imgquest/internal/artifact"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/store"
)

// ParseArtifactTypes converts names such as "test-view" into artifact types.
func ParseArtifactTypes(names []string) ([]models.ArtifactType, error) {
	types := make([]models.ArtifactType, 0, len(names))
	for _, name := range names {
		t, err := models.ParseArtifactType(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidArtifactType, "invalid artifact type", err).
				WithSuggestion("Use decision-log, config-workbook, test-view or migration-view")
		}
		types = append(types, t)
	}
	return types, nil
}

// GenerateArtifacts renders the requested reports, or all of them, from the
// project's current state and stores them, replacing earlier versions of the
// same type.
func (s *Service) GenerateArtifacts(ctx context.Context, id string, types ...models.ArtifactType) ([]models.Artifact, error) {
	var generated []models.Artifact
	_, err := s.update(ctx, id, func(state *store.ProjectState) error {
		s.recompute(state)

		artifacts, err := s.factory.Generate(s.snapshot(state), types...)
		if err != nil {
			return err
		}
		generated = artifacts

		replaced := make(map[models.ArtifactType]bool, len(artifacts))
		for _, a := range artifacts {
			replaced[a.Type] = true
		}
		kept := make([]models.Artifact, 0, len(state.Artifacts)+len(artifacts))
		for _, a := range state.Artifacts {
			if !replaced[a.Type] {
				kept = append(kept, a)
			}
		}
		state.Artifacts = append(kept, artifacts...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range generated {
		s.metrics.ArtifactsRendered.WithLabelValues(string(a.Type)).Inc()
		s.metrics.ArtifactTBD.WithLabelValues(string(a.Type)).Set(float64(a.TBDCount))
		s.logger.Info("artifact generated", "project_id", id, "type", a.Type, "tbd_count", a.TBDCount)
	}
	return generated, nil
}

// Artifacts returns the stored reports of the project.
func (s *Service) Artifacts(ctx context.Context, id string) ([]models.Artifact, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return state.Artifacts, nil
}

// Artifact returns the stored report of type t.
func (s *Service) Artifact(ctx context.Context, id string, t models.ArtifactType) (*models.Artifact, error) {
	artifacts, err := s.Artifacts(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := len(artifacts) - 1; i >= 0; i-- {
		if artifacts[i].Type == t {
			return &artifacts[i], nil
		}
	}
	return nil, s.fail(errors.NewArtifactNotFound(id, string(t)))
}

// Export builds the structured export from the project's current state.
func (s *Service) Export(ctx context.Context, id string) (*artifact.Export, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	exp := artifact.BuildExport(s.snapshot(state))
	return &exp, nil
}
