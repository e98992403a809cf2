// SPDX-License-Identifier: Apache-2.0

// Package models holds the data types shared by the engine, the renderer and the
// storage layer. Nothing in here performs I/O.
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Priority orders configuration items, P0 being the most urgent.
type Priority string

const (
	PriorityP0 Priority = "P0"
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
)

// UnknownPriorityRank is the rank given to priorities outside P0..P3.
const UnknownPriorityRank = 99

// Rank maps P0..P3 to 0..3. An empty priority is treated as P3 and anything
// else sorts after every known priority.
func (p Priority) Rank() int {
	switch p.Effective() {
	case PriorityP0:
		return 0
	case PriorityP1:
		return 1
	case PriorityP2:
		return 2
	case PriorityP3:
		return 3
	default:
		return UnknownPriorityRank
	}
}

// Effective returns P3 for an unset priority and p otherwise.
func (p Priority) Effective() Priority {
	if p == "" {
		return PriorityP3
	}
	return p
}

// IsKnown reports whether p is one of P0..P3 (after defaulting).
func (p Priority) IsKnown() bool {
	return p.Rank() != UnknownPriorityRank
}

// KnownPriorities lists the standard priorities from most to least urgent.
func KnownPriorities() []Priority {
	return []Priority{PriorityP0, PriorityP1, PriorityP2, PriorityP3}
}

// Mode parameterizes dependency skipping and question visibility for a project.
// The wire values are kept from the original catalog format.
type Mode string

const (
	// ModeStandard shows every catalog item.
	ModeStandard Mode = "EXPERT"
	// ModeRestricted hides items with ModeVisible=false and lets their own
	// prerequisites gate downstream items instead.
	ModeRestricted Mode = "BEGINNER"
)

// ParseMode accepts both the wire values and the descriptive names.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "EXPERT", "STANDARD":
		return ModeStandard, nil
	case "BEGINNER", "RESTRICTED":
		return ModeRestricted, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be EXPERT (standard) or BEGINNER (restricted)", s)
	}
}

// IsRestricted reports whether m hides items that are not mode visible.
func (m Mode) IsRestricted() bool {
	return m == ModeRestricted
}

// Status is the lifecycle state of a backlog entry.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusBlocked Status = "BLOCKED"
	StatusReady   Status = "READY"
	StatusDone    Status = "DONE"
)

// AllStatuses lists the statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusBlocked, StatusReady, StatusDone}
}

// ParseStatus is case-insensitive.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses() {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of PENDING, BLOCKED, READY, DONE", s)
}

// ArtifactType names one of the generated reports.
type ArtifactType string

const (
	ArtifactDecisionLog    ArtifactType = "DECISION_LOG"
	ArtifactConfigWorkbook ArtifactType = "CONFIG_WORKBOOK"
	ArtifactTestView       ArtifactType = "TEST_VIEW"
	ArtifactMigrationView  ArtifactType = "MIGRATION_VIEW"
)

// AllArtifactTypes lists the report types in generation order.
func AllArtifactTypes() []ArtifactType {
	return []ArtifactType{ArtifactDecisionLog, ArtifactConfigWorkbook, ArtifactTestView, ArtifactMigrationView}
}

// ParseArtifactType is case-insensitive and accepts dashes for underscores.
func ParseArtifactType(s string) (ArtifactType, error) {
	t := ArtifactType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	for _, known := range AllArtifactTypes() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid artifact type %q", s)
}

// InputDef describes one answer field of a configuration item.
type InputDef struct {
	Name         string            `json:"name" yaml:"name"`
	Type         string            `json:"type" yaml:"type"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Options      []string          `json:"options,omitempty" yaml:"options,omitempty"`
	OptionLabels map[string]string `json:"option_labels,omitempty" yaml:"option_labels,omitempty"`
	Default      interface{}       `json:"default,omitempty" yaml:"default,omitempty"`
	Recommended  interface{}       `json:"recommended,omitempty" yaml:"recommended,omitempty"`
}

// ConfigItem is one catalog entry.
type ConfigItem struct {
	ID                  string     `json:"id" yaml:"id"`
	Title               string     `json:"title" yaml:"title"`
	Description         string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority            Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Inputs              []InputDef `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	DependsOn           []string   `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Produces            []string   `json:"produces,omitempty" yaml:"produces,omitempty"`
	Notes               []string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	ModeVisible         bool       `json:"beginner_mode" yaml:"beginner_mode"`
	BeginnerTitle       string     `json:"beginner_title,omitempty" yaml:"beginner_title,omitempty"`
	BeginnerDescription string     `json:"beginner_description,omitempty" yaml:"beginner_description,omitempty"`
	BeginnerWhy         string     `json:"beginner_why,omitempty" yaml:"beginner_why,omitempty"`
	MigrationObject     string     `json:"migration_object,omitempty" yaml:"migration_object,omitempty"`
}

// HasProduct reports whether the item lists marker in Produces.
func (c ConfigItem) HasProduct(marker string) bool {
	for _, p := range c.Produces {
		if p == marker {
			return true
		}
	}
	return false
}

// Catalog maps item id to definition. It is shared read-only across projects.
type Catalog map[string]ConfigItem

// Get returns the item and whether it exists.
func (c Catalog) Get(id string) (ConfigItem, bool) {
	item, ok := c[id]
	return item, ok
}

// IDs returns the catalog ids in lexical order.
func (c Catalog) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Project is a single configuration effort.
type Project struct {
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Mode         Mode      `json:"mode" yaml:"mode"`
	Country      string    `json:"country,omitempty" yaml:"country,omitempty"`
	Currency     string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	Industry     string    `json:"industry,omitempty" yaml:"industry,omitempty"`
	CompanyCount int       `json:"company_count,omitempty" yaml:"company_count,omitempty"`
	Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// EffectiveMode returns the standard mode when none is recorded.
func (p Project) EffectiveMode() Mode {
	if p.Mode == "" {
		return ModeStandard
	}
	return p.Mode
}

// Answer is the value recorded for one input field of one item.
type Answer struct {
	ProjectID    string      `json:"project_id" yaml:"project_id"`
	ConfigItemID string      `json:"config_item_id" yaml:"config_item_id"`
	InputName    string      `json:"input_name" yaml:"input_name"`
	Value        interface{} `json:"value" yaml:"value"`
	CreatedAt    time.Time   `json:"created_at" yaml:"created_at"`
}

// AnsweredSet holds the ids of items with at least one answer.
type AnsweredSet map[string]struct{}

// NewAnsweredSet builds the set from a list of answers.
func NewAnsweredSet(answers []Answer) AnsweredSet {
	set := make(AnsweredSet, len(answers))
	for _, a := range answers {
		set[a.ConfigItemID] = struct{}{}
	}
	return set
}

// AnsweredIDs builds the set from bare item ids.
func AnsweredIDs(ids ...string) AnsweredSet {
	set := make(AnsweredSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id has been answered.
func (s AnsweredSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// AnswersByItem groups answers by item id, preserving their order.
func AnswersByItem(answers []Answer) map[string][]Answer {
	grouped := make(map[string][]Answer)
	for _, a := range answers {
		grouped[a.ConfigItemID] = append(grouped[a.ConfigItemID], a)
	}
	return grouped
}

// FormatValue renders an answer value for reports: lists are joined with ", ".
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatValue(item)
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// DecisionStatusDecided is the status given to decisions recorded from answers.
const DecisionStatusDecided = "DECIDED"

// Decision records why an item was configured the way it was.
type Decision struct {
	ID           string    `json:"id" yaml:"id"`
	ProjectID    string    `json:"project_id" yaml:"project_id"`
	ConfigItemID string    `json:"config_item_id" yaml:"config_item_id"`
	Title        string    `json:"title" yaml:"title"`
	Rationale    string    `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Impact       string    `json:"impact,omitempty" yaml:"impact,omitempty"`
	Status       string    `json:"status" yaml:"status"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// BacklogEntry tracks one catalog item inside a project.
type BacklogEntry struct {
	ProjectID    string    `json:"project_id" yaml:"project_id"`
	ConfigItemID string    `json:"config_item_id" yaml:"config_item_id"`
	Status       Status    `json:"status" yaml:"status"`
	Answered     bool      `json:"answered" yaml:"answered"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"updated_at"`
}

// Artifact is a rendered report stored with its TBD count.
type Artifact struct {
	ProjectID string       `json:"project_id" yaml:"project_id"`
	Type      ArtifactType `json:"artifact_type" yaml:"artifact_type"`
	Content   string       `json:"content" yaml:"content"`
	TBDCount  int          `json:"tbd_count" yaml:"tbd_count"`
	Digest    string       `json:"digest" yaml:"digest"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}
