// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestErrorFormatting(t *testing.T) {
	err := Wrap(ErrCodeStorage, "failed to save project", fmt.Errorf("disk full")).
		WithSuggestion("free some space")

	msg := err.Error()
	assert.Contains(t, msg, "[STORE-001] failed to save project: disk full")
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "free some space")
}

func TestQuestErrorChain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := fmt.Errorf("loading: %w", Wrap(ErrCodeCatalogLoad, "bad catalog", cause))

	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, stderrors.Is(err, New(ErrCodeCatalogLoad, "")))
	assert.False(t, stderrors.Is(err, New(ErrCodeStorage, "")))
	assert.Equal(t, ErrCodeCatalogLoad, CodeOf(err))
	assert.True(t, HasCode(err, ErrCodeCatalogLoad))
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"project", NewProjectNotFound("p1"), true},
		{"item", NewItemNotFound("FI-1"), true},
		{"entry", fmt.Errorf("wrapped: %w", NewEntryNotFound("p1", "FI-1")), true},
		{"artifact", NewArtifactNotFound("p1", "TEST_VIEW"), true},
		{"no more questions", NewNoMoreQuestions(), false},
		{"plain", fmt.Errorf("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNotFound(tt.err))
		})
	}
}
