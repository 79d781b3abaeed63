package app

import (
	"net/http"

	"github.com/Freeeeeet/attendance_bot/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics метрики абонементов, обновляются планировщиком
type Metrics struct {
	registry     *prometheus.Registry
	byStatus     *prometheus.GaugeVec
	remindersDue prometheus.Gauge
	runs         prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		byStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "attendance_students_by_status",
			Help: "Number of students per subscription status.",
		}, []string{"status"}),
		remindersDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "attendance_reminders_due",
			Help: "Students whose subscription needs renewal.",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendance_reminder_runs_total",
			Help: "Completed reminder task runs.",
		}),
	}

	m.registry.MustRegister(
		m.byStatus,
		m.remindersDue,
		m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe записывает результат одного прохода напоминаний
func (m *Metrics) Observe(counts map[model.SubscriptionStatus]int, due int) {
	for status, n := range counts {
		m.byStatus.WithLabelValues(string(status)).Set(float64(n))
	}
	m.remindersDue.Set(float64(due))
	m.runs.Inc()
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен для проверки значений в тестах
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
