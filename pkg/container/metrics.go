package container

// metrics.go is a thin abstraction over Prometheus, the same noop-vs-prom
// shape pkg/metrics.go uses: when a *prometheus.Registry is supplied via
// WithMetrics, labeled collectors are created and registered; otherwise a
// no-op sink is used and the hot path pays nothing for metric updates.
//
// Metrics are per-shape (dictionary/set/bag), labeled by shape name so
// aggregation across all three can be done Prometheus-side with sum()/rate().
//
// © 2025 hashkernel authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink is the internal interface abstracting the concrete backend;
// Dictionary/Set/Bag only know about these methods.
type metricsSink interface {
	incFind(shape string, hit bool)
	incAdd(shape string)
	incRemove(shape string)
	incRehash(shape string)
	setCapacity(shape string, n int)
}

type noopMetrics struct{}

func (noopMetrics) incFind(string, bool)   {}
func (noopMetrics) incAdd(string)          {}
func (noopMetrics) incRemove(string)       {}
func (noopMetrics) incRehash(string)       {}
func (noopMetrics) setCapacity(string, int) {}

type promMetrics struct {
	finds    *prometheus.CounterVec
	adds     *prometheus.CounterVec
	removes  *prometheus.CounterVec
	rehashes *prometheus.CounterVec
	capacity *prometheus.GaugeVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"shape"}
	pm := &promMetrics{
		finds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hashkernel",
			Name:      "find_total",
			Help:      "Number of Find calls, labeled by shape.",
		}, append(label, "hit")),
		adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hashkernel",
			Name:      "add_total",
			Help:      "Number of Add calls that introduced a new key.",
		}, label),
		removes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hashkernel",
			Name:      "remove_total",
			Help:      "Number of Remove calls that found the key.",
		}, label),
		rehashes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hashkernel",
			Name:      "rehash_total",
			Help:      "Number of capacity-growth rehashes observed.",
		}, label),
		capacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hashkernel",
			Name:      "capacity_buckets",
			Help:      "Current bucket capacity.",
		}, label),
	}
	reg.MustRegister(pm.finds, pm.adds, pm.removes, pm.rehashes, pm.capacity)
	return pm
}

func (m *promMetrics) incFind(shape string, hit bool) {
	label := "miss"
	if hit {
		label = "hit"
	}
	m.finds.WithLabelValues(shape, label).Inc()
}
func (m *promMetrics) incAdd(shape string)     { m.adds.WithLabelValues(shape).Inc() }
func (m *promMetrics) incRemove(shape string)  { m.removes.WithLabelValues(shape).Inc() }
func (m *promMetrics) incRehash(shape string)  { m.rehashes.WithLabelValues(shape).Inc() }
func (m *promMetrics) setCapacity(shape string, n int) {
	m.capacity.WithLabelValues(shape).Set(float64(n))
}

// newMetricsSink picks the implementation based on whether metrics were
// requested via WithMetrics.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
