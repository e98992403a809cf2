// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"time"

	"github.com/kusari-oss/imgquest/internal/core/format"
	"github.com/kusari-oss/imgquest/internal/core/models"
)

// Export is the structured dump of a project's decisions and answers.
type Export struct {
	Project     ExportProject    `json:"project" yaml:"project"`
	ExportedAt  time.Time        `json:"exported_at" yaml:"exported_at"`
	Decisions   []ExportDecision `json:"decisions" yaml:"decisions"`
	ConfigItems []ExportItem     `json:"config_items" yaml:"config_items"`
	Summary     ExportSummary    `json:"summary" yaml:"summary"`
}

// ExportProject carries the project attributes that drove backlog selection.
type ExportProject struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Mode         models.Mode `json:"mode" yaml:"mode"`
	Country      string      `json:"country" yaml:"country"`
	Currency     string      `json:"currency" yaml:"currency"`
	Industry     string      `json:"industry" yaml:"industry"`
	CompanyCount int         `json:"company_count" yaml:"company_count"`
	CreatedAt    time.Time   `json:"created_at" yaml:"created_at"`
}

// ExportDecision is one recorded decision.
type ExportDecision struct {
	ConfigItemID string    `json:"config_item_id" yaml:"config_item_id"`
	Title        string    `json:"title" yaml:"title"`
	Rationale    string    `json:"rationale" yaml:"rationale"`
	Impact       string    `json:"impact" yaml:"impact"`
	Status       string    `json:"status" yaml:"status"`
	DecidedAt    time.Time `json:"decided_at" yaml:"decided_at"`
	Priority     string    `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// ExportItem is one backlog entry with its answers keyed by input name.
type ExportItem struct {
	ID        string                 `json:"id" yaml:"id"`
	Title     string                 `json:"title" yaml:"title"`
	Priority  models.Priority        `json:"priority" yaml:"priority"`
	Status    models.Status          `json:"status" yaml:"status"`
	Answered  bool                   `json:"answered" yaml:"answered"`
	DependsOn []string               `json:"depends_on" yaml:"depends_on"`
	Produces  []string               `json:"produces" yaml:"produces"`
	Answers   map[string]interface{} `json:"answers" yaml:"answers"`
}

// ExportSummary counts backlog entries by decision state.
type ExportSummary struct {
	TotalItems int `json:"total_items" yaml:"total_items"`
	Answered   int `json:"answered" yaml:"answered"`
	TBD        int `json:"tbd" yaml:"tbd"`
}

// BuildExport assembles the export for s. Backlog entries whose item left the
// catalog are counted in the summary but not listed.
func BuildExport(s Snapshot) Export {
	p := s.Project
	exp := Export{
		Project: ExportProject{
			ID:           p.ID,
			Name:         p.Name,
			Mode:         p.EffectiveMode(),
			Country:      p.Country,
			Currency:     p.Currency,
			Industry:     p.Industry,
			CompanyCount: p.CompanyCount,
			CreatedAt:    p.CreatedAt,
		},
		ExportedAt:  s.GeneratedAt,
		Decisions:   make([]ExportDecision, 0, len(s.Decisions)),
		ConfigItems: make([]ExportItem, 0, len(s.Backlog)),
	}

	for _, d := range s.Decisions {
		ed := ExportDecision{
			ConfigItemID: d.ConfigItemID,
			Title:        d.Title,
			Rationale:    d.Rationale,
			Impact:       d.Impact,
			Status:       d.Status,
			DecidedAt:    d.CreatedAt,
		}
		if item, ok := s.Catalog.Get(d.ConfigItemID); ok {
			ed.Priority = string(item.Priority.Effective())
		}
		exp.Decisions = append(exp.Decisions, ed)
	}

	answered := models.NewAnsweredSet(s.Answers)
	answers := models.AnswersByItem(s.Answers)
	for _, e := range s.Backlog {
		if answered.Has(e.ConfigItemID) {
			exp.Summary.Answered++
		}
	}
	exp.Summary.TotalItems = len(s.Backlog)
	exp.Summary.TBD = exp.Summary.TotalItems - exp.Summary.Answered

	for _, t := range tracked(s) {
		ei := ExportItem{
			ID:        t.Item.ID,
			Title:     t.Item.Title,
			Priority:  t.Item.Priority.Effective(),
			Status:    t.Entry.Status,
			Answered:  t.Entry.Answered,
			DependsOn: nonNil(t.Item.DependsOn),
			Produces:  nonNil(t.Item.Produces),
			Answers:   make(map[string]interface{}),
		}
		if t.Entry.Answered {
			for _, a := range answers[t.Item.ID] {
				ei.Answers[a.InputName] = a.Value
			}
		}
		exp.ConfigItems = append(exp.ConfigItems, ei)
	}
	return exp
}

// EncodeExport builds the export for s and encodes it as JSON or YAML.
func EncodeExport(s Snapshot, f format.Format) ([]byte, error) {
	return format.Encode(BuildExport(s), f)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
