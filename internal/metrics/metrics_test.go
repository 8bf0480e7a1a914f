package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.ObserveReport("A", 2*time.Millisecond)
	m.ObserveReport("A", time.Millisecond)
	m.ObserveReport("D", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reports.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reports.WithLabelValues("D")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.computeDuration))
}

func TestCountersIgnoreNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.AddPurged(0)
	m.AddPurged(-3)
	m.AddPurged(4)
	m.AddDelivered(0)
	m.AddDelivered(2)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.purgedReports))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.notificationsOut))
}

func TestNarrativeAndFailureLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNewMetrics(reg)

	m.IncNarrative("template")
	m.IncNarrative("fallback")
	m.IncNarrative("fallback")
	m.IncFailure("validation")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.narratives.WithLabelValues("template")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.narratives.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("validation")))
}

func TestMustNewMetricsReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := MustNewMetrics(reg)
	second := MustNewMetrics(reg)

	first.IncNarrative("template")
	second.IncNarrative("template")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.narratives.WithLabelValues("template")))
	require.Same(t, first.reports, second.reports)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveReport("A", time.Millisecond)
		m.IncFailure("x")
		m.IncNarrative("template")
		m.AddPurged(1)
		m.AddDelivered(1)
	})
}
