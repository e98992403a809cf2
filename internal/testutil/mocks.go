// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/store"
)

// MockStore is a testify mock of store.Store. Tests use it to inject storage
// failures that the real stores cannot produce on demand.
type MockStore struct {
	mock.Mock
}

var _ store.Store = (*MockStore)(nil)

// Load mocks the Load method
func (m *MockStore) Load(ctx context.Context, id string) (*store.ProjectState, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.ProjectState).Clone(), args.Error(1)
}

// Save mocks the Save method
func (m *MockStore) Save(ctx context.Context, state *store.ProjectState) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

// List mocks the List method
func (m *MockStore) List(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Project), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// NewFailingSaveStore returns a mock that serves state on Load and fails
// every Save with err.
func NewFailingSaveStore(state *store.ProjectState, err error) *MockStore {
	m := &MockStore{}
	m.On("Load", mock.Anything, state.Project.ID).Return(state, nil)
	m.On("Save", mock.Anything, mock.Anything).Return(err)
	return m
}
