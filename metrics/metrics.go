package metrics

import "github.com/prometheus/client_golang/prometheus"

type Observer interface {
	Observe(val float64, labels ...string)

	// for now we will tightly couple to the prometheus collector type
	prometheus.Collector
}

// Metrics is the set of observations made while benchmarking queues.
// Labeled observers take the implementation name and then the workload name.
type Metrics struct {
	Runs         Observer
	Ops          Observer
	Grows        Observer
	Shrinks      Observer
	PeakCap      Observer
	PhaseLatency Observer
}

func (m Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Runs,
		m.Ops,
		m.Grows,
		m.Shrinks,
		m.PeakCap,
		m.PhaseLatency,
	}
}
