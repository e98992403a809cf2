// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"sort"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Visible reports whether item is shown under mode.
func Visible(item models.ConfigItem, mode models.Mode) bool {
	return !mode.IsRestricted() || item.ModeVisible
}

// NextQuestions returns up to limit READY, unanswered items ordered by priority
// rank then id. Entries without a catalog item are skipped, and restricted mode
// drops items that are not mode visible. An empty result means the wizard is done.
func NextQuestions(entries []models.BacklogEntry, cat models.Catalog, mode models.Mode, limit int) []models.ConfigItem {
	if limit <= 0 {
		return []models.ConfigItem{}
	}

	candidates := []models.ConfigItem{}
	for _, entry := range entries {
		if entry.Status != models.StatusReady || entry.Answered {
			continue
		}
		item, ok := cat[entry.ConfigItemID]
		if !ok || !Visible(item, mode) {
			continue
		}
		candidates = append(candidates, item)
	}

	SortItems(candidates)

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// SortItems orders items by (priority rank, id).
func SortItems(items []models.ConfigItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := items[i].Priority.Rank(), items[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return items[i].ID < items[j].ID
	})
}
