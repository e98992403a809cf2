// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"sync"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
)

// MemoryStore keeps aggregates in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*ProjectState
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: make(map[string]*ProjectState)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*ProjectState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.projects[id]
	if !ok {
		return nil, errors.NewProjectNotFound(id)
	}
	return state.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, state *ProjectState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil || state.Project.ID == "" {
		return errors.New(errors.ErrCodeStorage, "project id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.projects[state.Project.ID] = state.Clone()
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	projects := make([]models.Project, 0, len(m.projects))
	for _, state := range m.projects {
		projects = append(projects, state.Project)
	}
	sortProjects(projects)
	return projects, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.projects[id]; !ok {
		return errors.NewProjectNotFound(id)
	}
	delete(m.projects, id)
	return nil
}
