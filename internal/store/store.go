// SPDX-License-Identifier: Apache-2.0

// Package store persists project aggregates. A project's backlog, answers,
// decisions and artifacts are saved and deleted together with the project.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/core/models"
)

// ProjectState is the aggregate persisted for one project.
type ProjectState struct {
	Project   models.Project        `json:"project" yaml:"project"`
	Backlog   []models.BacklogEntry `json:"backlog" yaml:"backlog"`
	Answers   []models.Answer       `json:"answers" yaml:"answers"`
	Decisions []models.Decision     `json:"decisions" yaml:"decisions"`
	Artifacts []models.Artifact     `json:"artifacts,omitempty" yaml:"artifacts,omitempty"`
}

// Clone returns a copy whose slices can be modified independently.
func (s *ProjectState) Clone() *ProjectState {
	if s == nil {
		return nil
	}
	return &ProjectState{
		Project:   s.Project,
		Backlog:   append([]models.BacklogEntry(nil), s.Backlog...),
		Answers:   append([]models.Answer(nil), s.Answers...),
		Decisions: append([]models.Decision(nil), s.Decisions...),
		Artifacts: append([]models.Artifact(nil), s.Artifacts...),
	}
}

// Entry returns the backlog entry for itemID.
func (s *ProjectState) Entry(itemID string) (*models.BacklogEntry, bool) {
	for i := range s.Backlog {
		if s.Backlog[i].ConfigItemID == itemID {
			return &s.Backlog[i], true
		}
	}
	return nil, false
}

// Store loads and saves project aggregates. Implementations are safe for
// concurrent use.
type Store interface {
	// Load returns the aggregate for id, or a PROJECT-001 error.
	Load(ctx context.Context, id string) (*ProjectState, error)
	// Save replaces the aggregate for state.Project.ID.
	Save(ctx context.Context, state *ProjectState) error
	// List returns every project ordered by creation time.
	List(ctx context.Context) ([]models.Project, error)
	// Delete removes the project and everything it owns.
	Delete(ctx context.Context, id string) error
}

// New creates the store named by kind.
func New(kind, dataDir string) (Store, error) {
	switch kind {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile, "":
		return NewFileStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

func sortProjects(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if !projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].CreatedAt.Before(projects[j].CreatedAt)
		}
		return projects[i].ID < projects[j].ID
	})
}
