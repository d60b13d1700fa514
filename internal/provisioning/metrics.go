package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records provisioning metrics on a caller-supplied registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	planNodes        *prometheus.GaugeVec
	resourcesCreated *prometheus.CounterVec
	phaseDuration    *prometheus.HistogramVec
	phaseFailures    *prometheus.CounterVec
}

// NewMetrics creates the provisioning metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		planNodes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "loadfleet",
				Name:      "plan_nodes",
				Help:      "Number of nodes in the applied plan by role",
			},
			[]string{"cluster", "role"},
		),
		resourcesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loadfleet",
				Name:      "resources_created_total",
				Help:      "Total number of cloud resources created by kind",
			},
			[]string{"kind"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "loadfleet",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~7min
			},
			[]string{"phase"},
		),
		phaseFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "loadfleet",
				Name:      "phase_failures_total",
				Help:      "Total number of failed provisioning phases",
			},
			[]string{"phase"},
		),
	}
	reg.MustRegister(m.planNodes, m.resourcesCreated, m.phaseDuration, m.phaseFailures)
	return m
}

// RecordPlan records the node counts of a plan.
func (m *Metrics) RecordPlan(cluster string, masters, workers int) {
	if m == nil {
		return
	}
	m.planNodes.WithLabelValues(cluster, "master").Set(float64(masters))
	m.planNodes.WithLabelValues(cluster, "worker").Set(float64(workers))
}

// ResourceCreated counts a created resource.
func (m *Metrics) ResourceCreated(kind string) {
	if m == nil {
		return
	}
	m.resourcesCreated.WithLabelValues(kind).Inc()
}

// ObservePhase records a phase duration and, when err is set, a failure.
func (m *Metrics) ObservePhase(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	if err != nil {
		m.phaseFailures.WithLabelValues(phase).Inc()
	}
}
