package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func NewPromCounter(m prometheus.Counter) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.Add(val)
		},
		Collector: m,
	}
}

func NewPromCounterVec(m *prometheus.CounterVec) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.WithLabelValues(labels...).Add(val)
		},
		Collector: m,
	}
}

// NewPromGaugeVec creates an observer that sets the gauge to the observed value.
func NewPromGaugeVec(m *prometheus.GaugeVec) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.WithLabelValues(labels...).Set(val)
		},
		Collector: m,
	}
}

// for histogram or summary vecs
func NewPromObserverVec(m prometheus.ObserverVec) Observer {
	return &PrometheusMetric{
		observe: func(val float64, labels ...string) {
			m.WithLabelValues(labels...).Observe(val)
		},
		Collector: m,
	}
}

type PrometheusMetric struct {
	observe func(val float64, labels ...string)
	prometheus.Collector
}

func (m *PrometheusMetric) Observe(val float64, labels ...string) {
	m.observe(val, labels...)
}

// New creates the benchmark metrics under the given namespace.
func New(namespace string) *Metrics {
	labels := []string{"impl", "workload"}
	return &Metrics{
		Runs: NewPromCounter(
			prometheus.NewCounter(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: "bench",
					Name:      "runs_total",
					Help:      "Number of benchmark trials completed.",
				},
			),
		),
		Ops: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: "queue",
					Name:      "ops_total",
					Help:      "Number of queue operations performed.",
				},
				labels,
			),
		),
		Grows: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: "queue",
					Name:      "grows_total",
					Help:      "Number of times a queue's capacity increased.",
				},
				labels,
			),
		),
		Shrinks: NewPromCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: "queue",
					Name:      "shrinks_total",
					Help:      "Number of times a queue's capacity decreased.",
				},
				labels,
			),
		),
		PeakCap: NewPromGaugeVec(
			prometheus.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: namespace,
					Subsystem: "queue",
					Name:      "peak_capacity",
					Help:      "Largest capacity observed in the most recent trial. Zero for queues that don't report capacity.",
				},
				labels,
			),
		),
		PhaseLatency: NewPromObserverVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
					Namespace: namespace,
					Subsystem: "bench",
					Name:      "phase_seconds",
					Help:      "How long each benchmark phase takes in seconds.",
				},
				labels,
			),
		),
	}
}
