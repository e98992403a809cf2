// SPDX-License-Identifier: Apache-2.0

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority Priority
		rank     int
	}{
		{PriorityP0, 0},
		{PriorityP1, 1},
		{PriorityP2, 2},
		{PriorityP3, 3},
		{"", 3},
		{"P9", UnknownPriorityRank},
		{"high", UnknownPriorityRank},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			assert.Equal(t, tt.rank, tt.priority.Rank())
		})
	}

	assert.Equal(t, PriorityP3, Priority("").Effective())
	assert.True(t, Priority("").IsKnown())
	assert.False(t, Priority("P4").IsKnown())
}

func TestParseMode(t *testing.T) {
	t.Run("WireValues", func(t *testing.T) {
		m, err := ParseMode("BEGINNER")
		require.NoError(t, err)
		assert.Equal(t, ModeRestricted, m)

		m, err = ParseMode("expert")
		require.NoError(t, err)
		assert.Equal(t, ModeStandard, m)
	})

	t.Run("DescriptiveNames", func(t *testing.T) {
		m, err := ParseMode("restricted")
		require.NoError(t, err)
		assert.True(t, m.IsRestricted())

		m, err = ParseMode("Standard")
		require.NoError(t, err)
		assert.False(t, m.IsRestricted())
	})

	t.Run("EmptyDefaultsToStandard", func(t *testing.T) {
		m, err := ParseMode("")
		require.NoError(t, err)
		assert.Equal(t, ModeStandard, m)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := ParseMode("novice")
		assert.Error(t, err)
	})
}

func TestParseStatusAndArtifactType(t *testing.T) {
	st, err := ParseStatus("ready")
	require.NoError(t, err)
	assert.Equal(t, StatusReady, st)

	_, err = ParseStatus("finished")
	assert.Error(t, err)

	at, err := ParseArtifactType("config-workbook")
	require.NoError(t, err)
	assert.Equal(t, ArtifactConfigWorkbook, at)

	_, err = ParseArtifactType("xlsx")
	assert.Error(t, err)
}

func TestAnsweredSet(t *testing.T) {
	answers := []Answer{
		{ConfigItemID: "A", InputName: "x", Value: "1"},
		{ConfigItemID: "A", InputName: "y", Value: "2"},
		{ConfigItemID: "B", InputName: "x", Value: "3"},
	}

	set := NewAnsweredSet(answers)
	assert.Len(t, set, 2)
	assert.True(t, set.Has("A"))
	assert.True(t, set.Has("B"))
	assert.False(t, set.Has("C"))

	grouped := AnswersByItem(answers)
	require.Len(t, grouped["A"], 2)
	assert.Equal(t, "x", grouped["A"][0].InputName)
	assert.Equal(t, "y", grouped["A"][1].InputName)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "JPY", FormatValue("JPY"))
	assert.Equal(t, "a, b", FormatValue([]interface{}{"a", "b"}))
	assert.Equal(t, "a, b", FormatValue([]string{"a", "b"}))
	assert.Equal(t, "12", FormatValue(float64(12)))
	assert.Equal(t, "0.5", FormatValue(0.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "", FormatValue(nil))
}

func TestCatalog(t *testing.T) {
	cat := Catalog{
		"B": {ID: "B"},
		"A": {ID: "A", Produces: []string{"MIGRATION_VIEW"}},
	}

	assert.Equal(t, []string{"A", "B"}, cat.IDs())

	item, ok := cat.Get("A")
	require.True(t, ok)
	assert.True(t, item.HasProduct("MIGRATION_VIEW"))

	_, ok = cat.Get("missing")
	assert.False(t, ok)
}
