// SPDX-License-Identifier: Apache-2.0

package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/imgquest/internal/core/config"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/store"
)

var created = time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)

func sampleState(id string, createdAt time.Time) *store.ProjectState {
	return &store.ProjectState{
		Project: models.Project{ID: id, Name: "Project " + id, Mode: models.ModeRestricted, Country: "JP", CompanyCount: 2, CreatedAt: createdAt, UpdatedAt: createdAt},
		Backlog: []models.BacklogEntry{
			{ProjectID: id, ConfigItemID: "FI-CORE-001", Status: models.StatusDone, Answered: true, CreatedAt: createdAt, UpdatedAt: createdAt},
			{ProjectID: id, ConfigItemID: "FI-CORE-002", Status: models.StatusReady, CreatedAt: createdAt, UpdatedAt: createdAt},
		},
		Answers: []models.Answer{
			{ProjectID: id, ConfigItemID: "FI-CORE-001", InputName: "fiscal_year_start", Value: "04", CreatedAt: createdAt},
			{ProjectID: id, ConfigItemID: "FI-CORE-001", InputName: "special_periods", Value: float64(4), CreatedAt: createdAt},
			{ProjectID: id, ConfigItemID: "FI-CORE-001", InputName: "types", Value: []interface{}{"SA", float64(2)}, CreatedAt: createdAt},
		},
		Decisions: []models.Decision{
			{ID: "d1", ProjectID: id, ConfigItemID: "FI-CORE-001", Title: "Fiscal year variant decision", Status: models.DecisionStatusDecided, CreatedAt: createdAt},
		},
	}
}

func stores(t *testing.T) map[string]store.Store {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return map[string]store.Store{
		"memory": store.NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := sampleState("p1", created)
			require.NoError(t, s.Save(ctx, want))

			got, err := s.Load(ctx, "p1")
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreLoadReturnsCopy(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, sampleState("p1", created)))

			first, err := s.Load(ctx, "p1")
			require.NoError(t, err)
			first.Backlog[0].Status = models.StatusPending
			first.Answers = nil

			second, err := s.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusDone, second.Backlog[0].Status)
			assert.Len(t, second.Answers, 3)
		})
	}
}

func TestStoreListAndDelete(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, sampleState("b", created.Add(time.Hour))))
			require.NoError(t, s.Save(ctx, sampleState("a", created.Add(time.Hour))))
			require.NoError(t, s.Save(ctx, sampleState("c", created)))

			projects, err := s.List(ctx)
			require.NoError(t, err)
			ids := make([]string, len(projects))
			for i, p := range projects {
				ids[i] = p.ID
			}
			assert.Equal(t, []string{"c", "a", "b"}, ids)

			require.NoError(t, s.Delete(ctx, "a"))
			_, err = s.Load(ctx, "a")
			assert.True(t, errors.HasCode(err, errors.ErrCodeProjectNotFound))

			err = s.Delete(ctx, "a")
			assert.True(t, errors.IsNotFound(err))

			projects, err = s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, projects, 2)
		})
	}
}

func TestStoreMissingProject(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), "missing")
			require.Error(t, err)
			assert.True(t, errors.IsNotFound(err))
		})
	}
}

func TestStoreCancelledContext(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			assert.ErrorIs(t, s.Save(ctx, sampleState("p1", created)), context.Canceled)
			_, err := s.List(ctx)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "projects")
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, fs.Dir())

	ctx := context.Background()
	require.NoError(t, fs.Save(ctx, sampleState("p1", created)))
	assert.FileExists(t, filepath.Join(dir, "p1.yaml"))

	// Stray files are ignored by List.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	projects, err := fs.List(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	require.NoError(t, fs.Delete(ctx, "p1"))
	assert.NoFileExists(t, filepath.Join(dir, "p1.yaml"))

	_, err = fs.Load(ctx, "../p1")
	assert.True(t, errors.IsNotFound(err))
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := store.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("project: [unclosed"), 0644))

	_, err = fs.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorage))
}

func TestNew(t *testing.T) {
	s, err := store.New(config.StorageMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	s, err = store.New(config.StorageFile, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &store.FileStore{}, s)

	_, err = store.New("postgres", "")
	assert.Error(t, err)
}

func TestProjectStateEntry(t *testing.T) {
	state := sampleState("p1", created)
	e, ok := state.Entry("FI-CORE-002")
	require.True(t, ok)
	e.Status = models.StatusDone
	assert.Equal(t, models.StatusDone, state.Backlog[1].Status)

	_, ok = state.Entry("NOPE")
	assert.False(t, ok)
}
