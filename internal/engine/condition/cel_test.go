// SPDX-License-Identifier: Apache-2.0

package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/imgquest/internal/engine/condition"
)

func TestCELEvaluator(t *testing.T) {
	evaluator, err := condition.NewCELEvaluator()
	require.NoError(t, err, "Error creating CEL evaluator")

	jp := map[string]interface{}{
		"country":       "JP",
		"industry":      "retail",
		"company_count": 3,
		"currency":      "JPY",
		"mode":          "EXPERT",
	}

	tests := []struct {
		name       string
		expression string
		project    map[string]interface{}
		expected   bool
		wantErr    bool
	}{
		{
			name:       "string equality",
			expression: "project.country == 'JP'",
			project:    jp,
			expected:   true,
		},
		{
			name:       "membership",
			expression: "project.industry in ['retail', 'wholesale', 'trading']",
			project:    jp,
			expected:   true,
		},
		{
			name:       "integer comparison",
			expression: "project.company_count > 1",
			project:    jp,
			expected:   true,
		},
		{
			name:       "disjunction false",
			expression: "project.company_count >= 5 || project.industry == 'manufacturing'",
			project:    jp,
			expected:   false,
		},
		{
			name:       "missing key is an evaluation error",
			expression: "project.region == 'EU'",
			project:    jp,
			wantErr:    true,
		},
		{
			name:       "non-boolean result",
			expression: "project.country",
			project:    jp,
			wantErr:    true,
		},
		{
			name:       "syntax error",
			expression: "project.country ==",
			project:    jp,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: "findings.country == 'JP'",
			project:    jp,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluator.EvaluateExpression(tt.expression, tt.project)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCompileCaches(t *testing.T) {
	evaluator, err := condition.NewCELEvaluator()
	require.NoError(t, err)

	first, err := evaluator.Compile("project.country == 'JP'")
	require.NoError(t, err)
	second, err := evaluator.Compile("project.country == 'JP'")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
