package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — счётчики движка расписаний. Методы безопасны для nil-получателя,
// чтобы тесты и CLI могли работать без регистрации метрик.
type Metrics struct {
	mutations *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	conflicts *prometheus.CounterVec
	warnings  *prometheus.CounterVec
	replaced  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "operations_total",
			Help:      "Scheduling operations by outcome.",
		}, []string{"operation", "outcome"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "timetable",
			Name:      "operation_duration_seconds",
			Help:      "Latency of scheduling operations.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "conflicts_total",
			Help:      "Blocked placements by conflict type.",
		}, []string{"type"}),
		warnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "warnings_total",
			Help:      "Best-effort steps that failed after the primary write.",
		}, []string{"stage"}),
		replaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: "timetable",
			Name:      "force_replaced_total",
			Help:      "Peer schedules soft-deleted by forced replacement.",
		}),
	}
}

func (m *Metrics) ObserveOperation(op, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) Blocked(conflictType string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(conflictType).Inc()
}

func (m *Metrics) Warning(stage string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(stage).Inc()
}

func (m *Metrics) Replaced(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.replaced.Add(float64(n))
}
