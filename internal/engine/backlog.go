// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Change describes one entry touched by Recompute.
type Change struct {
	ItemID       string        `json:"config_item_id" yaml:"config_item_id"`
	FromStatus   models.Status `json:"from_status" yaml:"from_status"`
	ToStatus     models.Status `json:"to_status" yaml:"to_status"`
	FromAnswered bool          `json:"from_answered" yaml:"from_answered"`
	ToAnswered   bool          `json:"to_answered" yaml:"to_answered"`
}

// StatusChanged reports whether the status moved.
func (c Change) StatusChanged() bool {
	return c.FromStatus != c.ToStatus
}

// Recompute advances every entry in place and returns the entries that changed.
//
// Answered entries become DONE and stay DONE while their answers exist.
// Unanswered entries become READY when their prerequisites are satisfied and
// BLOCKED otherwise, including entries marked DONE by hand. The answered flag
// always mirrors the answered set. A second call with the same
// answers returns no changes.
func Recompute(entries []models.BacklogEntry, answered models.AnsweredSet, cat models.Catalog, mode models.Mode, now time.Time) []Change {
	var changes []Change

	for i := range entries {
		entry := &entries[i]
		answeredNow := answered.Has(entry.ConfigItemID)

		next := entry.Status
		switch {
		case answeredNow:
			next = models.StatusDone
		case IsSatisfied(entry.ConfigItemID, answered, cat, mode):
			next = models.StatusReady
		default:
			next = models.StatusBlocked
		}

		if next == entry.Status && answeredNow == entry.Answered {
			continue
		}

		changes = append(changes, Change{
			ItemID:       entry.ConfigItemID,
			FromStatus:   entry.Status,
			ToStatus:     next,
			FromAnswered: entry.Answered,
			ToAnswered:   answeredNow,
		})
		entry.Status = next
		entry.Answered = answeredNow
		entry.UpdatedAt = now
	}

	return changes
}

// NewEntries creates one PENDING, unanswered entry per item.
func NewEntries(projectID string, items []models.ConfigItem, now time.Time) []models.BacklogEntry {
	entries := make([]models.BacklogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.BacklogEntry{
			ProjectID:    projectID,
			ConfigItemID: item.ID,
			Status:       models.StatusPending,
			Answered:     false,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return entries
}
