// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Node is one tracked item in the dependency graph.
type Node struct {
	ID       string          `json:"id" yaml:"id"`
	Label    string          `json:"label" yaml:"label"`
	Priority models.Priority `json:"priority" yaml:"priority"`
	Status   models.Status   `json:"status" yaml:"status"`
	Answered bool            `json:"answered" yaml:"answered"`
}

// Edge points from a prerequisite to the item that depends on it.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is the dependency graph of a project's backlog.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// BuildGraph emits a node per tracked entry with a catalog item and an edge per
// declared dependency. Edges may point at items that are not tracked.
func BuildGraph(entries []models.BacklogEntry, cat models.Catalog) Graph {
	g := Graph{Nodes: []Node{}, Edges: []Edge{}}
	for _, entry := range entries {
		item, ok := cat[entry.ConfigItemID]
		if !ok {
			continue
		}
		g.Nodes = append(g.Nodes, Node{
			ID:       item.ID,
			Label:    item.Title,
			Priority: item.Priority,
			Status:   entry.Status,
			Answered: entry.Answered,
		})
		for _, dep := range item.DependsOn {
			g.Edges = append(g.Edges, Edge{From: dep, To: item.ID})
		}
	}
	return g
}

// MissingReferent is a dependency on an id the catalog does not contain.
type MissingReferent struct {
	ItemID       string `json:"item_id" yaml:"item_id"`
	DependencyID string `json:"dependency_id" yaml:"dependency_id"`
}

// Diagnostics lists catalog data problems the resolver tolerates silently.
type Diagnostics struct {
	MissingReferents []MissingReferent `json:"missing_referents" yaml:"missing_referents"`
	Cycles           [][]string        `json:"cycles" yaml:"cycles"`
}

// Clean reports whether no problems were found.
func (d Diagnostics) Clean() bool {
	return len(d.MissingReferents) == 0 && len(d.Cycles) == 0
}

// Diagnose finds dependencies on unknown ids and dependency cycles.
// Each cycle is reported once, as the path from its first node back to itself.
func Diagnose(cat models.Catalog) Diagnostics {
	d := Diagnostics{MissingReferents: []MissingReferent{}, Cycles: [][]string{}}

	for _, id := range cat.IDs() {
		for _, dep := range cat[id].DependsOn {
			if _, ok := cat[dep]; !ok {
				d.MissingReferents = append(d.MissingReferents, MissingReferent{ItemID: id, DependencyID: dep})
			}
		}
	}

	visited := make(map[string]bool)
	seen := make(map[string]bool)
	for _, id := range cat.IDs() {
		var stack []string
		onStack := make(map[string]bool)
		findCycles(id, cat, visited, onStack, &stack, func(cycle []string) {
			key := cycleKey(cycle)
			if !seen[key] {
				seen[key] = true
				d.Cycles = append(d.Cycles, cycle)
			}
		})
	}

	return d
}

// findCycles walks dependencies depth first and reports every back edge as a cycle.
func findCycles(
	nodeID string,
	cat models.Catalog,
	visited map[string]bool,
	onStack map[string]bool,
	stack *[]string,
	report func([]string),
) {
	if visited[nodeID] {
		return
	}
	visited[nodeID] = true
	onStack[nodeID] = true
	*stack = append(*stack, nodeID)

	for _, dep := range cat[nodeID].DependsOn {
		if _, ok := cat[dep]; !ok {
			continue
		}
		if onStack[dep] {
			start := indexOf(*stack, dep)
			cycle := append([]string{}, (*stack)[start:]...)
			report(append(cycle, dep))
			continue
		}
		findCycles(dep, cat, visited, onStack, stack, report)
	}

	*stack = (*stack)[:len(*stack)-1]
	onStack[nodeID] = false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

// cycleKey normalizes a closed path so rotations of the same cycle compare equal.
func cycleKey(cycle []string) string {
	nodes := cycle[:len(cycle)-1]
	first := 0
	for i, n := range nodes {
		if n < nodes[first] {
			first = i
		}
	}
	rotated := append(append([]string{}, nodes[first:]...), nodes[:first]...)
	return strings.Join(rotated, "->")
}

// FormatCycle renders a cycle as "A -> B -> A".
func FormatCycle(cycle []string) string {
	return strings.Join(cycle, " -> ")
}

// String summarizes the diagnostics for logs.
func (d Diagnostics) String() string {
	return fmt.Sprintf("%d missing referents, %d cycles", len(d.MissingReferents), len(d.Cycles))
}
