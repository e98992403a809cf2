// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	m.Recomputes.WithLabelValues("EXPERT").Inc()
	m.Transitions.WithLabelValues("PENDING", "READY").Add(3)
	m.RecordError("")
	m.RecordError("PROJECT-001")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Recomputes.WithLabelValues("EXPERT")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.Transitions.WithLabelValues("PENDING", "READY")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Errors.WithLabelValues("unknown")))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewMetricsSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
