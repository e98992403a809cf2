// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

func item(id string, priority models.Priority, deps ...string) models.ConfigItem {
	return models.ConfigItem{ID: id, Title: id, Priority: priority, DependsOn: deps, ModeVisible: true}
}

func hidden(i models.ConfigItem) models.ConfigItem {
	i.ModeVisible = false
	return i
}

func catalogOf(items ...models.ConfigItem) models.Catalog {
	cat := make(models.Catalog, len(items))
	for _, i := range items {
		cat[i.ID] = i
	}
	return cat
}

func TestIsSatisfied(t *testing.T) {
	cat := catalogOf(
		item("ROOT", models.PriorityP0),
		item("A", models.PriorityP0, "ROOT"),
		item("B", models.PriorityP0, "ROOT", "A"),
		item("ORPHAN", models.PriorityP1, "X-MISSING"),
	)

	tests := []struct {
		name     string
		itemID   string
		answered models.AnsweredSet
		want     bool
	}{
		{"no dependencies", "ROOT", models.AnsweredIDs(), true},
		{"dependency unanswered", "A", models.AnsweredIDs(), false},
		{"dependency answered", "A", models.AnsweredIDs("ROOT"), true},
		{"first of two answered", "B", models.AnsweredIDs("ROOT"), false},
		{"all answered", "B", models.AnsweredIDs("ROOT", "A"), true},
		{"missing referent", "ORPHAN", models.AnsweredIDs("ROOT", "A", "B"), false},
		{"unknown item", "NOPE", models.AnsweredIDs(), false},
	}

	for _, mode := range []models.Mode{models.ModeStandard, models.ModeRestricted} {
		for _, tt := range tests {
			t.Run(string(mode)+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, IsSatisfied(tt.itemID, tt.answered, cat, mode))
			})
		}
	}
}

func TestIsSatisfiedSkipAndInherit(t *testing.T) {
	// A depends on hidden B, which depends on C.
	cat := catalogOf(
		item("A", models.PriorityP0, "B"),
		hidden(item("B", models.PriorityP1, "C")),
		item("C", models.PriorityP0),
	)

	t.Run("InheritedRequirementMet", func(t *testing.T) {
		answered := models.AnsweredIDs("C")
		assert.True(t, IsSatisfied("A", answered, cat, models.ModeRestricted))
		assert.False(t, IsSatisfied("A", answered, cat, models.ModeStandard))
	})

	t.Run("InheritedRequirementUnmet", func(t *testing.T) {
		answered := models.AnsweredIDs()
		assert.False(t, IsSatisfied("A", answered, cat, models.ModeRestricted))
	})

	t.Run("HiddenDependencyAnswered", func(t *testing.T) {
		answered := models.AnsweredIDs("B")
		assert.True(t, IsSatisfied("A", answered, cat, models.ModeRestricted))
		assert.True(t, IsSatisfied("A", answered, cat, models.ModeStandard))
	})

	t.Run("ChainOfHiddenItems", func(t *testing.T) {
		chain := catalogOf(
			item("A", models.PriorityP0, "H1"),
			hidden(item("H1", models.PriorityP1, "H2")),
			hidden(item("H2", models.PriorityP1, "ROOT")),
			item("ROOT", models.PriorityP0),
		)
		assert.False(t, IsSatisfied("A", models.AnsweredIDs(), chain, models.ModeRestricted))
		assert.True(t, IsSatisfied("A", models.AnsweredIDs("ROOT"), chain, models.ModeRestricted))
	})

	t.Run("HiddenDependencyOnMissingReferent", func(t *testing.T) {
		broken := catalogOf(
			item("A", models.PriorityP0, "H"),
			hidden(item("H", models.PriorityP1, "X-MISSING")),
		)
		assert.False(t, IsSatisfied("A", models.AnsweredIDs(), broken, models.ModeRestricted))
	})
}

// Cycles through hidden items are treated as satisfied rather than blocking.
func TestIsSatisfiedCycleFailsOpen(t *testing.T) {
	cat := catalogOf(
		item("A", models.PriorityP0, "H1"),
		hidden(item("H1", models.PriorityP1, "H2")),
		hidden(item("H2", models.PriorityP1, "H1")),
		hidden(item("SELF", models.PriorityP1, "SELF")),
	)

	assert.True(t, IsSatisfied("A", models.AnsweredIDs(), cat, models.ModeRestricted))
	assert.True(t, IsSatisfied("SELF", models.AnsweredIDs(), cat, models.ModeRestricted))

	assert.False(t, IsSatisfied("A", models.AnsweredIDs(), cat, models.ModeStandard))
	assert.False(t, IsSatisfied("SELF", models.AnsweredIDs(), cat, models.ModeStandard))
}

func TestIsSatisfiedSharedHiddenPrerequisite(t *testing.T) {
	// Both branches reach hidden H, which inherits ROOT.
	cat := catalogOf(
		item("A", models.PriorityP0, "L", "R"),
		hidden(item("L", models.PriorityP1, "H")),
		hidden(item("R", models.PriorityP1, "H")),
		hidden(item("H", models.PriorityP1, "ROOT")),
		item("ROOT", models.PriorityP0),
	)

	assert.False(t, IsSatisfied("A", models.AnsweredIDs(), cat, models.ModeRestricted))
	assert.True(t, IsSatisfied("A", models.AnsweredIDs("ROOT"), cat, models.ModeRestricted))
}

func TestBlockingDependencies(t *testing.T) {
	cat := catalogOf(
		item("A", models.PriorityP0, "C", "B", "X-MISSING"),
		hidden(item("B", models.PriorityP1)),
		item("C", models.PriorityP0),
	)

	assert.Equal(t, []string{"C", "B", "X-MISSING"}, BlockingDependencies("A", models.AnsweredIDs(), cat))
	assert.Equal(t, []string{"B", "X-MISSING"}, BlockingDependencies("A", models.AnsweredIDs("C"), cat))
	assert.Equal(t, []string{}, BlockingDependencies("C", models.AnsweredIDs(), cat))
	assert.Equal(t, []string{}, BlockingDependencies("UNKNOWN", models.AnsweredIDs(), cat))
}
