// SPDX-License-Identifier: Apache-2.0

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
)

func currencyItem() models.ConfigItem {
	return models.ConfigItem{
		ID:    "FI-CORE-002",
		Title: "Currency",
		Inputs: []models.InputDef{
			{Name: "currency", Type: "select", Options: []string{"JPY", "USD"}},
			{Name: "regions", Type: "multiselect", Options: []string{"EU", "APAC"}},
			{Name: "periods", Type: "number"},
			{Name: "parallel", Type: "boolean"},
			{Name: "note", Type: "string"},
		},
	}
}

func TestValidateAnswers(t *testing.T) {
	tests := []struct {
		name       string
		values     map[string]interface{}
		shouldPass bool
	}{
		{
			name:       "valid select",
			values:     map[string]interface{}{"currency": "JPY"},
			shouldPass: true,
		},
		{
			name:       "select outside options",
			values:     map[string]interface{}{"currency": "EUR"},
			shouldPass: false,
		},
		{
			name:       "valid multiselect",
			values:     map[string]interface{}{"regions": []interface{}{"EU", "APAC"}},
			shouldPass: true,
		},
		{
			name:       "multiselect element outside options",
			values:     map[string]interface{}{"regions": []interface{}{"LATAM"}},
			shouldPass: false,
		},
		{
			name:       "number and boolean",
			values:     map[string]interface{}{"periods": float64(12), "parallel": true, "note": "x"},
			shouldPass: true,
		},
		{
			name:       "wrong number type",
			values:     map[string]interface{}{"periods": "twelve"},
			shouldPass: false,
		},
		{
			name:       "unknown field",
			values:     map[string]interface{}{"colour": "red"},
			shouldPass: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.ValidateAnswers(currencyItem(), tt.values)
			if tt.shouldPass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateAnswersWithoutInputs(t *testing.T) {
	item := models.ConfigItem{ID: "FI-FREE-001"}
	assert.NoError(t, schema.ValidateAnswers(item, map[string]interface{}{"anything": "goes"}))
}

func TestCoerceValues(t *testing.T) {
	raw, err := schema.ParseAssignments([]string{
		"currency=JPY",
		"regions=EU, APAC",
		"periods=12",
		"parallel=true",
		"extra=1",
	})
	require.NoError(t, err)

	values, err := schema.CoerceValues(currencyItem(), raw)
	require.NoError(t, err)

	assert.Equal(t, "JPY", values["currency"])
	assert.Equal(t, []interface{}{"EU", "APAC"}, values["regions"])
	assert.Equal(t, float64(12), values["periods"])
	assert.Equal(t, true, values["parallel"])
	assert.Equal(t, "1", values["extra"])

	t.Run("JSONArray", func(t *testing.T) {
		values, err := schema.CoerceValues(currencyItem(), map[string]string{"regions": `["EU"]`})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{"EU"}, values["regions"])
	})

	t.Run("BadNumber", func(t *testing.T) {
		_, err := schema.CoerceValues(currencyItem(), map[string]string{"periods": "many"})
		assert.Error(t, err)
	})

	t.Run("BadAssignment", func(t *testing.T) {
		_, err := schema.ParseAssignments([]string{"novalue"})
		assert.Error(t, err)
	})
}

func TestDefaultsAndMerge(t *testing.T) {
	item := models.ConfigItem{Inputs: []models.InputDef{
		{Name: "currency", Type: "select", Default: "JPY"},
		{Name: "note", Type: "string"},
	}}

	merged := schema.MergeWithDefaults(map[string]interface{}{"note": "n"}, schema.Defaults(item))
	assert.Equal(t, map[string]interface{}{"currency": "JPY", "note": "n"}, merged)
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, float64(3), schema.NormalizeValue(3))
	assert.Equal(t, []interface{}{"a"}, schema.NormalizeValue([]string{"a"}))
	assert.Equal(t, "s", schema.NormalizeValue("s"))
	assert.Equal(t, []interface{}{float64(1), "b"}, schema.NormalizeValue([]interface{}{1, "b"}))
}
