// Package observability exposes Prometheus metrics for the review intake flow.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "review_guard"

// IntakeMetrics counts flow transitions, submissions and hand-offs.
type IntakeMetrics struct {
	transitions   *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	rateLimited   prometheus.Counter
	persistErrors *prometheus.CounterVec
	handoffs      *prometheus.CounterVec
	clipboard     *prometheus.CounterVec
}

// NewIntakeMetrics creates the collectors and registers them on registry.
func NewIntakeMetrics(registry prometheus.Registerer) (*IntakeMetrics, error) {
	m := &IntakeMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "transitions_total",
			Help:      "Review flow state transitions",
		}, []string{"from", "to"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Stored review submissions by rating band",
		}, []string{"band", "internal"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "rate_limited_total",
			Help:      "Submissions refused by the per-QR throttle",
		}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "persist_errors_total",
			Help:      "Review inserts that failed",
		}, []string{"band"}),
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "handoffs_total",
			Help:      "External review platform hand-offs by platform",
		}, []string{"platform"}),
		clipboard: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "clipboard_total",
			Help:      "Comment copy attempts by method and outcome",
		}, []string{"method", "outcome"}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *IntakeMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.transitions, m.submissions, m.rateLimited, m.persistErrors, m.handoffs, m.clipboard}
}

// Describe implements prometheus.Collector.
func (m *IntakeMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *IntakeMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

func (m *IntakeMetrics) Transition(from, to string) {
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *IntakeMetrics) Submission(band string, internal bool) {
	m.submissions.WithLabelValues(band, strconv.FormatBool(internal)).Inc()
}

func (m *IntakeMetrics) RateLimited() {
	m.rateLimited.Inc()
}

func (m *IntakeMetrics) PersistError(band string) {
	m.persistErrors.WithLabelValues(band).Inc()
}

func (m *IntakeMetrics) Handoff(platform string) {
	m.handoffs.WithLabelValues(platform).Inc()
}

func (m *IntakeMetrics) Clipboard(method, outcome string) {
	m.clipboard.WithLabelValues(method, outcome).Inc()
}
