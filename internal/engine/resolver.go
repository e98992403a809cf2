// SPDX-License-Identifier: Apache-2.0

// Package engine resolves item dependencies, advances backlog statuses and
// selects the next questions. It performs no I/O and keeps no state between calls.
package engine

import (
	"github.com/kusari-oss/imgquest/internal/core/models"
)

// IsSatisfied reports whether every prerequisite of itemID is met.
//
// A dependency is met when it has been answered. In restricted mode a
// dependency that is not mode visible is skipped and its own prerequisites are
// checked in its place. Items missing from the catalog are never satisfied.
// Reaching an item that is already on the current path counts as satisfied.
func IsSatisfied(itemID string, answered models.AnsweredSet, cat models.Catalog, mode models.Mode) bool {
	return isSatisfied(itemID, answered, cat, mode, make(map[string]bool))
}

func isSatisfied(itemID string, answered models.AnsweredSet, cat models.Catalog, mode models.Mode, path map[string]bool) bool {
	if path[itemID] {
		return true
	}

	item, ok := cat[itemID]
	if !ok {
		return false
	}

	path[itemID] = true
	defer delete(path, itemID)

	for _, dep := range item.DependsOn {
		if answered.Has(dep) {
			continue
		}
		if mode.IsRestricted() {
			if depItem, ok := cat[dep]; ok && !depItem.ModeVisible {
				if !isSatisfied(dep, answered, cat, mode, path) {
					return false
				}
				continue
			}
		}
		return false
	}

	return true
}

// BlockingDependencies returns the direct dependencies of itemID that are not
// answered, in declaration order. Mode skipping does not apply.
func BlockingDependencies(itemID string, answered models.AnsweredSet, cat models.Catalog) []string {
	item, ok := cat[itemID]
	if !ok {
		return []string{}
	}

	blocking := []string{}
	for _, dep := range item.DependsOn {
		if !answered.Has(dep) {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}
