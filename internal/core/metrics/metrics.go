// SPDX-License-Identifier: Apache-2.0

// Package metrics defines the Prometheus collectors updated by the wizard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors for imgquest
type Metrics struct {
	Recomputes        *prometheus.CounterVec
	RecomputeDuration prometheus.Histogram
	Transitions       *prometheus.CounterVec
	AnswersSubmitted  *prometheus.CounterVec
	QuestionsServed   *prometheus.CounterVec
	ArtifactsRendered *prometheus.CounterVec
	ArtifactTBD       *prometheus.GaugeVec
	Errors            *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with every collector registered on registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Recomputes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_backlog_recomputes_total",
				Help: "Total number of backlog recompute passes",
			},
			[]string{"mode"},
		),
		RecomputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "imgquest_backlog_recompute_duration_seconds",
				Help:    "Duration of a backlog recompute pass in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_backlog_transitions_total",
				Help: "Total number of backlog status transitions",
			},
			[]string{"from", "to"},
		),
		AnswersSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_answers_submitted_total",
				Help: "Total number of answer submissions",
			},
			[]string{"priority"},
		),
		QuestionsServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_questions_served_total",
				Help: "Total number of questions returned by the selector",
			},
			[]string{"mode"},
		),
		ArtifactsRendered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_artifacts_rendered_total",
				Help: "Total number of rendered artifacts",
			},
			[]string{"type"},
		),
		ArtifactTBD: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "imgquest_artifact_tbd_markers",
				Help: "TBD markers in the most recently rendered artifact",
			},
			[]string{"type"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "imgquest_errors_total",
				Help: "Total number of service errors by code",
			},
			[]string{"error_code"},
		),
	}
}

// RecordError counts an error under its code, "unknown" when uncoded.
func (m *Metrics) RecordError(code string) {
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code).Inc()
}
