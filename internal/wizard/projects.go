// SPDX-License-Identifier: Apache-2.0

package wizard

import (
	"context"
	"strings"

	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/kusari-oss/imgquest/internal/store"
)

// CreateProjectInput describes a new project. An empty Mode uses the
// service default.
type CreateProjectInput struct {
	Name         string
	Mode         string
	Country      string
	Currency     string
	Industry     string
	CompanyCount int
	Description  string
}

// ProjectUpdate changes the non-nil fields of a project.
type ProjectUpdate struct {
	Name         *string
	Mode         *string
	Country      *string
	Currency     *string
	Industry     *string
	CompanyCount *int
	Description  *string
}

// ProjectStats counts backlog entries by status.
type ProjectStats struct {
	Total   int `json:"backlog_total" yaml:"backlog_total"`
	Ready   int `json:"backlog_ready" yaml:"backlog_ready"`
	Blocked int `json:"backlog_blocked" yaml:"backlog_blocked"`
	Done    int `json:"backlog_done" yaml:"backlog_done"`
}

// ProjectSummary is a project with its backlog counts.
type ProjectSummary struct {
	Project models.Project `json:"project" yaml:"project"`
	Stats   ProjectStats   `json:"stats" yaml:"stats"`
}

func statsOf(backlog []models.BacklogEntry) ProjectStats {
	stats := ProjectStats{Total: len(backlog)}
	for _, e := range backlog {
		switch e.Status {
		case models.StatusReady:
			stats.Ready++
		case models.StatusBlocked:
			stats.Blocked++
		case models.StatusDone:
			stats.Done++
		}
	}
	return stats
}

func (s *Service) parseMode(value string) (models.Mode, error) {
	if strings.TrimSpace(value) == "" {
		return s.defaultMode, nil
	}
	mode, err := models.ParseMode(value)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidMode, "invalid mode", err).
			WithSuggestion("Use EXPERT (standard) or BEGINNER (restricted)")
	}
	return mode, nil
}

// CreateProject stores a new project with its initial backlog already
// resolved.
func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*store.ProjectState, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, s.fail(errors.New(errors.ErrCodeInvalidProject, "project name is required"))
	}
	if in.CompanyCount < 0 {
		return nil, s.fail(errors.Newf(errors.ErrCodeInvalidProject, "company count must not be negative, got %d", in.CompanyCount))
	}
	mode, err := s.parseMode(in.Mode)
	if err != nil {
		return nil, s.fail(err)
	}

	now := s.clock()
	project := models.Project{
		ID:           s.newID(),
		Name:         name,
		Mode:         mode,
		Country:      strings.ToUpper(strings.TrimSpace(in.Country)),
		Currency:     strings.ToUpper(strings.TrimSpace(in.Currency)),
		Industry:     strings.ToLower(strings.TrimSpace(in.Industry)),
		CompanyCount: in.CompanyCount,
		Description:  in.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	items := s.seeder.Select(s.catalog, engine.InputsFromProject(project))
	state := &store.ProjectState{
		Project:   project,
		Backlog:   engine.NewEntries(project.ID, items, now),
		Answers:   []models.Answer{},
		Decisions: []models.Decision{},
	}
	s.recompute(state)

	unlock := s.locks.lock(project.ID)
	defer unlock()
	if err := s.store.Save(ctx, state); err != nil {
		return nil, s.fail(err)
	}

	s.logger.Info("project created",
		"project_id", project.ID, "mode", mode, "backlog_items", len(state.Backlog))
	return state, nil
}

// GetProject returns the project with current backlog counts.
func (s *Service) GetProject(ctx context.Context, id string) (*ProjectSummary, error) {
	state, err := s.refresh(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectSummary{Project: state.Project, Stats: statsOf(state.Backlog)}, nil
}

// ListProjects returns every project with its backlog counts, oldest first.
// Counts reflect the last stored pass.
func (s *Service) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		state, err := s.store.Load(ctx, p.ID)
		if err != nil {
			return nil, s.fail(err)
		}
		summaries = append(summaries, ProjectSummary{Project: state.Project, Stats: statsOf(state.Backlog)})
	}
	return summaries, nil
}

// UpdateProject applies u. A mode change re-resolves the backlog under the
// new mode; items already DONE stay DONE.
func (s *Service) UpdateProject(ctx context.Context, id string, u ProjectUpdate) (*models.Project, error) {
	state, err := s.update(ctx, id, func(state *store.ProjectState) error {
		p := &state.Project
		if u.Name != nil {
			name := strings.TrimSpace(*u.Name)
			if name == "" {
				return errors.New(errors.ErrCodeInvalidProject, "project name must not be empty")
			}
			p.Name = name
		}
		if u.Mode != nil {
			mode, err := s.parseMode(*u.Mode)
			if err != nil {
				return err
			}
			p.Mode = mode
		}
		if u.Country != nil {
			p.Country = strings.ToUpper(strings.TrimSpace(*u.Country))
		}
		if u.Currency != nil {
			p.Currency = strings.ToUpper(strings.TrimSpace(*u.Currency))
		}
		if u.Industry != nil {
			p.Industry = strings.ToLower(strings.TrimSpace(*u.Industry))
		}
		if u.CompanyCount != nil {
			if *u.CompanyCount < 0 {
				return errors.Newf(errors.ErrCodeInvalidProject, "company count must not be negative, got %d", *u.CompanyCount)
			}
			p.CompanyCount = *u.CompanyCount
		}
		if u.Description != nil {
			p.Description = *u.Description
		}
		p.UpdatedAt = s.clock()

		s.recompute(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "project_id", id, "mode", state.Project.Mode)
	return &state.Project, nil
}

// DeleteProject removes the project with its backlog, answers, decisions and
// artifacts.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.logger.Info("project deleted", "project_id", id)
	return nil
}
