// SPDX-License-Identifier: Apache-2.0

// Package wizard sequences the engine against a project store: it loads a
// project, runs a recompute pass, answers the request and writes the project
// back once. Operations on the same project are serialized.
package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kusari-oss/imgquest/internal/artifact"
	"github.com/kusari-oss/imgquest/internal/core/errors"
	"github.com/kusari-oss/imgquest/internal/core/log"
	"github.com/kusari-oss/imgquest/internal/core/metrics"
	"github.com/kusari-oss/imgquest/internal/core/models"
	"github.com/kusari-oss/imgquest/internal/engine"
	"github.com/kusari-oss/imgquest/internal/store"
)

// Options configures a Service. Store and Catalog are required.
type Options struct {
	Store   store.Store
	Catalog models.Catalog

	// Seeder picks the initial backlog. Nil uses engine.DefaultSeedRules.
	Seeder *engine.Seeder
	// Factory renders reports. Nil uses artifact.DefaultFactory.
	Factory *artifact.Factory

	Logger  *log.Logger
	Metrics *metrics.Metrics

	// DefaultMode applies to projects created without a mode.
	DefaultMode models.Mode

	Clock func() time.Time
	NewID func() string
}

// Service is the entry point for every project operation.
type Service struct {
	store       store.Store
	catalog     models.Catalog
	seeder      *engine.Seeder
	factory     *artifact.Factory
	logger      *log.Logger
	metrics     *metrics.Metrics
	defaultMode models.Mode
	clock       func() time.Time
	newID       func() string
	locks       projectLocks
}

// New creates a Service from opts.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	s := &Service{
		store:       opts.Store,
		catalog:     opts.Catalog,
		seeder:      opts.Seeder,
		factory:     opts.Factory,
		logger:      opts.Logger,
		metrics:     opts.Metrics,
		defaultMode: opts.DefaultMode,
		clock:       opts.Clock,
		newID:       opts.NewID,
		locks:       projectLocks{locks: make(map[string]*sync.Mutex)},
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	if s.seeder == nil {
		seeder, err := engine.NewSeeder(engine.DefaultSeedRules, s.logger)
		if err != nil {
			return nil, err
		}
		s.seeder = seeder
	}
	if s.factory == nil {
		s.factory = artifact.DefaultFactory()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewMetrics(prometheus.NewRegistry())
	}
	if s.defaultMode == "" {
		s.defaultMode = models.ModeStandard
	}
	if s.clock == nil {
		s.clock = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	for _, err := range s.seeder.Validate() {
		s.logger.WithError(err).Warn("seed rule does not compile")
	}
	if diag := engine.Diagnose(s.catalog); !diag.Clean() {
		s.logger.Warn("catalog has dependency problems", "diagnostics", diag.String())
	}
	return s, nil
}

// Catalog returns the catalog the service resolves against.
func (s *Service) Catalog() models.Catalog {
	return s.catalog
}

// projectLocks hands out one mutex per project id.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (p *projectLocks) lock(id string) func() {
	p.mu.Lock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// fail counts err under its code and returns it unchanged.
func (s *Service) fail(err error) error {
	if err != nil {
		s.metrics.RecordError(string(errors.CodeOf(err)))
	}
	return err
}

// recompute runs one resolve pass over the project's backlog in place.
func (s *Service) recompute(state *store.ProjectState) []engine.Change {
	mode := state.Project.EffectiveMode()
	start := time.Now()

	changes := engine.Recompute(state.Backlog, models.NewAnsweredSet(state.Answers), s.catalog, mode, s.clock())

	s.metrics.RecomputeDuration.Observe(time.Since(start).Seconds())
	s.metrics.Recomputes.WithLabelValues(string(mode)).Inc()
	for _, c := range changes {
		if !c.StatusChanged() {
			continue
		}
		s.metrics.Transitions.WithLabelValues(string(c.FromStatus), string(c.ToStatus)).Inc()
		s.logger.Debug("backlog transition",
			"project_id", state.Project.ID, "item_id", c.ItemID, "from", c.FromStatus, "to", c.ToStatus)
	}
	return changes
}

// update loads the project, applies fn and saves the result. Nothing is
// written when fn fails.
func (s *Service) update(ctx context.Context, id string, fn func(state *store.ProjectState) error) (*store.ProjectState, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := fn(state); err != nil {
		return nil, s.fail(err)
	}
	if err := s.store.Save(ctx, state); err != nil {
		return nil, s.fail(err)
	}
	return state, nil
}

// refresh loads the project and brings its statuses up to date, writing back
// only when the pass changed something.
func (s *Service) refresh(ctx context.Context, id string) (*store.ProjectState, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	state, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, s.fail(err)
	}
	if changes := s.recompute(state); len(changes) > 0 {
		if err := s.store.Save(ctx, state); err != nil {
			return nil, s.fail(err)
		}
	}
	return state, nil
}

// snapshot builds the renderer input for state at the current time.
func (s *Service) snapshot(state *store.ProjectState) artifact.Snapshot {
	return artifact.Snapshot{
		Project:     state.Project,
		Decisions:   state.Decisions,
		Backlog:     state.Backlog,
		Answers:     state.Answers,
		Catalog:     s.catalog,
		GeneratedAt: s.clock(),
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	v := float64(part) / float64(total) * 100
	return float64(int64(v*10+0.5)) / 10
}
