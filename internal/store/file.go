// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
)

const projectFileExt = ".yaml"

// FileStore keeps one YAML file per project under a data directory. Files are
// replaced atomically so a failed save leaves the previous version intact.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	dir = config.ExpandPathWithTilde(dir)
	if dir == "" {
		return nil, errors.New(errors.ErrCodeStorage, "data directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "failed to create data directory", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", errors.NewProjectNotFound(id)
	}
	return filepath.Join(f.dir, id+projectFileExt), nil
}

func (f *FileStore) Load(ctx context.Context, id string) (*ProjectState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := f.path(id)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	return readState(path, id)
}

func readState(path, id string) (*ProjectState, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewProjectNotFound(id)
	}

	var state ProjectState
	if err := format.ParseFile(path, &state); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, fmt.Sprintf("failed to read project %s", id), err)
	}
	// YAML decodes whole numbers as int; answers are kept JSON shaped.
	for i := range state.Answers {
		state.Answers[i].Value = schema.NormalizeValue(state.Answers[i].Value)
	}
	return &state, nil
}

func (f *FileStore) Save(ctx context.Context, state *ProjectState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if state == nil {
		return errors.New(errors.ErrCodeStorage, "project state is required")
	}
	path, err := f.path(state.Project.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, "invalid project id", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := format.WriteFile(path, state); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, fmt.Sprintf("failed to save project %s", state.Project.ID), err)
	}
	return nil
}

func (f *FileStore) List(ctx context.Context) ([]models.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, "failed to read data directory", err)
	}

	var projects []models.Project
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), projectFileExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), projectFileExt)
		state, err := readState(filepath.Join(f.dir, entry.Name()), id)
		if err != nil {
			return nil, err
		}
		projects = append(projects, state.Project)
	}
	sortProjects(projects)
	return projects, nil
}

func (f *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.path(id)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NewProjectNotFound(id)
		}
		return errors.Wrap(errors.ErrCodeStorage, fmt.Sprintf("failed to delete project %s", id), err)
	}
	return nil
}
