// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/core/schema"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/kusari-oss/imgquest/internal/store"
)

// Question is a catalog item presented for the project's mode.
type Question struct {
	ConfigItemID string            `json:"config_item_id" yaml:"config_item_id"`
	Title        string            `json:"title" yaml:"title"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Why          string            `json:"why,omitempty" yaml:"why,omitempty"`
	Priority     models.Priority   `json:"priority" yaml:"priority"`
	Inputs       []models.InputDef `json:"inputs" yaml:"inputs"`
	Progress     int               `json:"progress" yaml:"progress"`
	Total        int               `json:"total" yaml:"total"`
}

// Progress counts the backlog entries that count in the project's mode.
type Progress struct {
	Total      int     `json:"total" yaml:"total"`
	Answered   int     `json:"answered" yaml:"answered"`
	Ready      int     `json:"ready" yaml:"ready"`
	Blocked    int     `json:"blocked" yaml:"blocked"`
	Done       int     `json:"done" yaml:"done"`
	Percentage float64 `json:"progress_percentage" yaml:"progress_percentage"`
}

// SubmitResult reports what an answer submission recorded.
type SubmitResult struct {
	AnswersCount int             `json:"answers_count" yaml:"answers_count"`
	DecisionID   string          `json:"decision_id" yaml:"decision_id"`
	Added        []string        `json:"added,omitempty" yaml:"added,omitempty"`
	Changes      []engine.Change `json:"-" yaml:"-"`
}

// progressOf counts entries visible in mode. In the restricted mode entries
// for hidden items and items missing from the catalog are left out.
func progressOf(backlog []models.BacklogEntry, cat models.Catalog, mode models.Mode) Progress {
	var p Progress
	for _, e := range backlog {
		if mode.IsRestricted() {
			item, ok := cat.Get(e.ConfigItemID)
			if !ok || !item.ModeVisible {
				continue
			}
		}
		p.Total++
		if e.Answered {
			p.Answered++
		}
		switch e.Status {
		case models.StatusReady:
			if !e.Answered {
				p.Ready++
			}
		case models.StatusBlocked:
			p.Blocked++
		case models.StatusDone:
			p.Done++
		}
	}
	p.Percentage = percent(p.Answered, p.Total)
	return p
}

// present shapes item for mode. The restricted mode prefers the plain
// language title, description and explanation when the catalog has them.
func present(item models.ConfigItem, mode models.Mode) Question {
	q := Question{
		ConfigItemID: item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Priority:     item.Priority.Effective(),
		Inputs:       make([]models.InputDef, len(item.Inputs)),
	}
	if mode.IsRestricted() {
		if item.BeginnerTitle != "" {
			q.Title = item.BeginnerTitle
		}
		if item.BeginnerDescription != "" {
			q.Description = item.BeginnerDescription
		}
		q.Why = item.BeginnerWhy
	}
	for i, in := range item.Inputs {
		if in.Label == "" {
			in.Label = labelFor(in.Name)
		}
		q.Inputs[i] = in
	}
	return q
}

// labelFor turns an input name like "fiscal_year_start" into "Fiscal Year Start".
func labelFor(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// NextQuestions returns up to limit questions for the project.
func (s *Service) NextQuestions(ctx context.Context, id string, limit int) ([]Question, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}

	mode := state.Project.EffectiveMode()
	items := engine.NextQuestions(state.Backlog, s.catalog, mode, limit)
	s.metrics.QuestionsServed.WithLabelValues(string(mode)).Add(float64(len(items)))

	progress := progressOf(state.Backlog, s.catalog, mode)
	questions := make([]Question, len(items))
	for i, item := range items {
		q := present(item, mode)
		q.Progress = progress.Answered + 1
		q.Total = progress.Total
		questions[i] = q
	}
	return questions, nil
}

// NextQuestion returns the single most urgent question, or WIZARD-001 when
// nothing is ready.
func (s *Service) NextQuestion(ctx context.Context, id string) (*Question, error) {
	questions, err := s.NextQuestions(ctx, id, 1)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, s.fail(errors.NewNoMoreQuestions())
	}
	return &questions[0], nil
}

// Question returns the question for itemID whatever its status, for
// revisiting an answered item.
func (s *Service) Question(ctx context.Context, id, itemID string) (*Question, error) {
	item, ok := s.catalog.Get(itemID)
	if !ok {
		return nil, s.fail(errors.NewItemNotFound(itemID))
	}
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}

	mode := state.Project.EffectiveMode()
	progress := progressOf(state.Backlog, s.catalog, mode)
	q := present(item, mode)
	q.Progress = progress.Answered
	q.Total = progress.Total
	return &q, nil
}

// Answers returns the recorded values for itemID keyed by input name. An
// unanswered item yields an empty map.
func (s *Service) Answers(ctx context.Context, id, itemID string) (map[string]interface{}, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	values := make(map[string]interface{})
	for _, a := range state.Answers {
		if a.ConfigItemID == itemID {
			values[a.InputName] = a.Value
		}
	}
	return values, nil
}

// SubmitAnswer replaces the answers recorded for itemID with values, records
// a decision and re-resolves the backlog, all in one write.
func (s *Service) SubmitAnswer(ctx context.Context, id, itemID string, values map[string]interface{}) (*SubmitResult, error) {
	item, ok := s.catalog.Get(itemID)
	if !ok {
		return nil, s.fail(errors.NewItemNotFound(itemID))
	}
	if len(values) == 0 {
		return nil, s.fail(errors.Newf(errors.ErrCodeInvalidAnswer, "no values given for %s", itemID))
	}

	normalized := make(map[string]interface{}, len(values))
	for name, v := range values {
		normalized[name] = schema.NormalizeValue(v)
	}
	if err := schema.ValidateAnswers(item, normalized); err != nil {
		return nil, s.fail(errors.Wrap(errors.ErrCodeInvalidAnswer, fmt.Sprintf("invalid answer for %s", itemID), err))
	}

	result := &SubmitResult{}
	state, err := s.update(ctx, id, func(state *store.ProjectState) error {
		now := s.clock()
		names := orderedNames(item, normalized)

		kept := state.Answers[:0]
		for _, a := range state.Answers {
			if a.ConfigItemID != itemID {
				kept = append(kept, a)
			}
		}
		state.Answers = kept

		rationale := make([]string, 0, len(names))
		for _, name := range names {
			state.Answers = append(state.Answers, models.Answer{
				ProjectID:    id,
				ConfigItemID: itemID,
				InputName:    name,
				Value:        normalized[name],
				CreatedAt:    now,
			})
			rationale = append(rationale, name+": "+models.FormatValue(normalized[name]))
		}

		decision := models.Decision{
			ID:           s.newID(),
			ProjectID:    id,
			ConfigItemID: itemID,
			Title:        item.Title + " decision",
			Rationale:    strings.Join(rationale, "; "),
			Impact:       item.Description,
			Status:       models.DecisionStatusDecided,
			CreatedAt:    now,
		}
		state.Decisions = append(state.Decisions, decision)

		tracked := make(map[string]bool, len(state.Backlog))
		for _, e := range state.Backlog {
			tracked[e.ConfigItemID] = true
		}
		var added []models.ConfigItem
		for _, extra := range engine.ExpandBacklog(s.catalog, itemID, state.Answers) {
			if !tracked[extra.ID] {
				tracked[extra.ID] = true
				added = append(added, extra)
				result.Added = append(result.Added, extra.ID)
			}
		}
		state.Backlog = append(state.Backlog, engine.NewEntries(id, added, now)...)

		result.AnswersCount = len(names)
		result.DecisionID = decision.ID
		result.Changes = s.recompute(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AnswersSubmitted.WithLabelValues(string(item.Priority.Effective())).Inc()
	s.logger.Info("answer submitted",
		"project_id", id, "item_id", itemID, "answers", result.AnswersCount, "changes", len(result.Changes),
		"mode", state.Project.EffectiveMode())
	return result, nil
}

// orderedNames lists the submitted field names in input declaration order,
// followed by any others alphabetically.
func orderedNames(item models.ConfigItem, values map[string]interface{}) []string {
	names := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, in := range item.Inputs {
		if _, ok := values[in.Name]; ok && !seen[in.Name] {
			names = append(names, in.Name)
			seen[in.Name] = true
		}
	}
	var rest []string
	for name := range values {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Decisions returns the project's decisions in the order they were made.
func (s *Service) Decisions(ctx context.Context, id string) ([]models.Decision, error) {
	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	return state.Decisions, nil
}

// Progress reports answered and remaining counts for the project's mode.
func (s *Service) Progress(ctx context.Context, id string) (*Progress, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	p := progressOf(state.Backlog, s.catalog, state.Project.EffectiveMode())
	return &p, nil
}
