/*
Package metrics provides the prometheus collectors updated while growing
forests and classifying samples with them.
*/
package metrics

import (
	"time"

	"github.com/pbanos/canopy/feature"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "canopy"

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	treesGrown      prometheus.Counter
	treeNodes       prometheus.Histogram
	growDuration    prometheus.Histogram
	classifications *prometheus.CounterVec
}

/*
New returns a Metrics with its collectors registered on the given
registerer, or an error if any of them cannot be registered. A nil
registerer leaves the collectors unregistered.
*/
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		treesGrown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trees_grown_total",
			Help:      "Number of decision trees grown.",
		}),
		treeNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tree_nodes",
			Help:      "Number of nodes of grown decision trees.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		growDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tree_grow_duration_seconds",
			Help:      "Time spent growing each decision tree.",
			Buckets:   prometheus.DefBuckets,
		}),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Number of samples classified by forests, by predicted label.",
		}, []string{"label"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.treesGrown, m.treeNodes, m.growDuration, m.classifications} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveTree records a grown tree with the given number of nodes.
func (m *Metrics) ObserveTree(nodes int, d time.Duration) {
	if m == nil {
		return
	}
	m.treesGrown.Inc()
	m.treeNodes.Observe(float64(nodes))
	m.growDuration.Observe(d.Seconds())
}

// ObserveClassification records a sample classified with the given label.
func (m *Metrics) ObserveClassification(l feature.Label) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(l.String()).Inc()
}
