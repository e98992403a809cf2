// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/kusari-oss/imgquest/internal/core/log"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine/condition"
)

// ProjectInputs are the project attributes seed rules can inspect.
type ProjectInputs struct {
	Country      string
	Currency     string
	Industry     string
	CompanyCount int
	Mode         models.Mode
}

// InputsFromProject extracts the seed inputs from a project.
func InputsFromProject(p models.Project) ProjectInputs {
	return ProjectInputs{
		Country:      p.Country,
		Currency:     p.Currency,
		Industry:     p.Industry,
		CompanyCount: p.CompanyCount,
		Mode:         p.EffectiveMode(),
	}
}

// Vars exposes the inputs to predicates. Every key is always present.
func (in ProjectInputs) Vars() map[string]interface{} {
	return map[string]interface{}{
		"country":       in.Country,
		"currency":      in.Currency,
		"industry":      in.Industry,
		"company_count": in.CompanyCount,
		"mode":          string(in.Mode),
	}
}

// SeedRule selects ItemID when Condition holds for the project.
type SeedRule struct {
	ItemID    string `json:"item_id" yaml:"item_id"`
	Condition string `json:"condition" yaml:"condition"`
}

// DefaultSeedRules lists the conditionally seeded P1 items.
var DefaultSeedRules = []SeedRule{
	{ItemID: "FI-TAX-001", Condition: "project.country == 'JP'"},
	{ItemID: "FI-DIFF-001", Condition: "project.industry in ['retail', 'wholesale', 'trading']"},
	{ItemID: "FI-DIFF-002", Condition: "project.industry in ['retail', 'wholesale']"},
	{ItemID: "FI-CLOSE-001", Condition: "project.company_count > 1"},
	{ItemID: "FI-RPT-001", Condition: "project.company_count >= 3 || project.industry == 'manufacturing'"},
}

// Seeder picks the items a new project starts with.
type Seeder struct {
	rules     []SeedRule
	evaluator *condition.CELEvaluator
	logger    *log.Logger
}

// NewSeeder creates a Seeder for rules. A nil logger discards output.
func NewSeeder(rules []SeedRule, logger *log.Logger) (*Seeder, error) {
	evaluator, err := condition.NewCELEvaluator()
	if err != nil {
		return nil, fmt.Errorf("error creating seed rule evaluator: %w", err)
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Seeder{rules: rules, evaluator: evaluator, logger: logger}, nil
}

// Select returns every P0 item plus each rule item whose condition holds,
// ordered by id. Rules are independent of each other. A rule that fails to
// evaluate only deselects its own item.
func (s *Seeder) Select(cat models.Catalog, in ProjectInputs) []models.ConfigItem {
	selected := make(map[string]bool)
	for id, item := range cat {
		if item.Priority == models.PriorityP0 {
			selected[id] = true
		}
	}

	vars := in.Vars()
	for _, rule := range s.rules {
		if _, ok := cat[rule.ItemID]; !ok {
			s.logger.Debug("seed rule item not in catalog", "item_id", rule.ItemID)
			continue
		}
		ok, err := s.evaluator.EvaluateExpression(rule.Condition, vars)
		if err != nil {
			s.logger.WithError(err).Warn("seed rule failed, item not selected",
				"item_id", rule.ItemID, "condition", rule.Condition)
			continue
		}
		if ok {
			selected[rule.ItemID] = true
		}
	}

	items := make([]models.ConfigItem, 0, len(selected))
	for _, id := range cat.IDs() {
		if selected[id] {
			items = append(items, cat[id])
		}
	}
	return items
}

// Validate compiles every rule and reports the ones that do not compile.
func (s *Seeder) Validate() []error {
	var errs []error
	for _, rule := range s.rules {
		if _, err := s.evaluator.Compile(rule.Condition); err != nil {
			errs = append(errs, fmt.Errorf("seed rule for %s: %w", rule.ItemID, err))
		}
	}
	return errs
}

// ExpandBacklog returns items to add after itemID is answered. No answer adds
// items yet; callers append whatever is returned.
func ExpandBacklog(cat models.Catalog, itemID string, answers []models.Answer) []models.ConfigItem {
	return nil
}
