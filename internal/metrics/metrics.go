package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "financial_health"

// Metrics хранит коллекторы Prometheus для генерации отчетов.
type Metrics struct {
	reports          *prometheus.CounterVec
	failures         *prometheus.CounterVec
	narratives       *prometheus.CounterVec
	computeDuration  prometheus.Histogram
	purgedReports    prometheus.Counter
	notificationsOut prometheus.Counter
}

// MustNewMetrics регистрирует коллекторы в reg и паникует при конфликте типов.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Generated financial health reports by letter grade.",
		}, []string{"grade"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_failures_total",
			Help:      "Report requests rejected or failed, by reason.",
		}, []string{"reason"}),
		narratives: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narratives_total",
			Help:      "Narratives attached to reports, by source.",
		}, []string{"source"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing a report.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		purgedReports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_purged_total",
			Help:      "Stored reports removed by the retention job.",
		}),
		notificationsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_delivered_total",
			Help:      "Report events delivered to SSE subscribers.",
		}),
	}

	m.reports = register(reg, m.reports)
	m.failures = register(reg, m.failures)
	m.narratives = register(reg, m.narratives)
	m.computeDuration = register(reg, m.computeDuration)
	m.purgedReports = register(reg, m.purgedReports)
	m.notificationsOut = register(reg, m.notificationsOut)

	return m
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) T {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return collector
}

// ObserveReport учитывает успешно построенный отчет.
func (m *Metrics) ObserveReport(grade string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(grade).Inc()
	m.computeDuration.Observe(duration.Seconds())
}

// IncFailure учитывает отклоненный или упавший запрос.
func (m *Metrics) IncFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// IncNarrative учитывает источник нарратива: template, groq, gemini или fallback.
func (m *Metrics) IncNarrative(source string) {
	if m == nil {
		return
	}
	m.narratives.WithLabelValues(source).Inc()
}

// AddPurged учитывает удаленные по retention отчеты.
func (m *Metrics) AddPurged(count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.purgedReports.Add(float64(count))
}

// AddDelivered учитывает доставленные SSE-события.
func (m *Metrics) AddDelivered(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.notificationsOut.Add(float64(count))
}
