// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"context"
	"sort"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/kusari-oss/imgquest/internal/store"
)

// BacklogItem is a backlog entry joined with its catalog item.
type BacklogItem struct {
	Entry models.BacklogEntry `json:"entry" yaml:"entry"`
	// Item is nil when the catalog no longer has the entry's item.
	Item *models.ConfigItem `json:"config_item,omitempty" yaml:"config_item,omitempty"`
	// BlockedBy lists the direct dependencies that are not answered yet.
	BlockedBy []string `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
}

// BacklogSummary counts a project's backlog by status and priority.
type BacklogSummary struct {
	Total                int                   `json:"total" yaml:"total"`
	ByStatus             map[models.Status]int `json:"by_status" yaml:"by_status"`
	ByPriority           map[string]int        `json:"by_priority" yaml:"by_priority"`
	CompletionPercentage float64               `json:"completion_percentage" yaml:"completion_percentage"`
}

func parseStatus(value string) (models.Status, error) {
	status, err := models.ParseStatus(value)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidStatus, "invalid status", err).
			WithSuggestion("Use one of PENDING, BLOCKED, READY, DONE")
	}
	return status, nil
}

// Backlog lists the project's backlog ordered by priority then id. A
// non-empty statusFilter keeps only entries with that status.
func (s *Service) Backlog(ctx context.Context, id, statusFilter string) ([]BacklogItem, error) {
	var filter models.Status
	if statusFilter != "" {
		status, err := parseStatus(statusFilter)
		if err != nil {
			return nil, s.fail(err)
		}
		filter = status
	}

	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}

	answered := models.NewAnsweredSet(state.Answers)
	items := make([]BacklogItem, 0, len(state.Backlog))
	for _, e := range state.Backlog {
		if filter != "" && e.Status != filter {
			continue
		}
		bi := BacklogItem{Entry: e}
		if item, ok := s.catalog.Get(e.ConfigItemID); ok {
			bi.Item = &item
			bi.BlockedBy = engine.BlockingDependencies(e.ConfigItemID, answered, s.catalog)
		}
		items = append(items, bi)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rankOf(items[i]), rankOf(items[j])
		if ri != rj {
			return ri < rj
		}
		return items[i].Entry.ConfigItemID < items[j].Entry.ConfigItemID
	})
	return items, nil
}

func rankOf(bi BacklogItem) int {
	if bi.Item == nil {
		return models.PriorityP3.Rank()
	}
	return bi.Item.Priority.Rank()
}

// BacklogSummary counts the project's backlog.
func (s *Service) BacklogSummary(ctx context.Context, id string) (*BacklogSummary, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &BacklogSummary{
		Total:      len(state.Backlog),
		ByStatus:   make(map[models.Status]int, len(models.AllStatuses())),
		ByPriority: make(map[string]int),
	}
	for _, st := range models.AllStatuses() {
		summary.ByStatus[st] = 0
	}
	for _, e := range state.Backlog {
		summary.ByStatus[e.Status]++
		if item, ok := s.catalog.Get(e.ConfigItemID); ok {
			summary.ByPriority[string(item.Priority.Effective())]++
		}
	}
	summary.CompletionPercentage = percent(summary.ByStatus[models.StatusDone], summary.Total)
	return summary, nil
}

// Graph returns the dependency graph of the project's backlog.
func (s *Service) Graph(ctx context.Context, id string) (*engine.Graph, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	g := engine.BuildGraph(state.Backlog, s.catalog)
	return &g, nil
}

// SetStatus overrides the status of one backlog entry. The override is stored
// as is; the next resolve pass recomputes it from the answers, so only DONE on
// an answered item survives.
func (s *Service) SetStatus(ctx context.Context, id, itemID, value string) (*models.BacklogEntry, error) {
	status, err := parseStatus(value)
	if err != nil {
		return nil, s.fail(err)
	}

	var updated models.BacklogEntry
	_, err = s.update(ctx, id, func(state *store.ProjectState) error {
		entry, ok := state.Entry(itemID)
		if !ok {
			return errors.NewEntryNotFound(id, itemID)
		}
		entry.Status = status
		entry.UpdatedAt = s.clock()
		updated = *entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("backlog status set", "project_id", id, "item_id", itemID, "status", status)
	return &updated, nil
}
