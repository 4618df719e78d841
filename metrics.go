package archindex

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors of one index and the queries built
// on it.
type Metrics struct {
	GroupsCreated   prometheus.Counter
	Grows           prometheus.Counter
	Capacity        prometheus.Gauge
	CacheRefreshes  prometheus.Counter
	CacheGroupsScan prometheus.Counter
}

// NewMetrics creates the collectors. labels are attached as constant labels,
// which lets several indexes share one registry.
func NewMetrics(labels prometheus.Labels) *Metrics {
	const (
		namespace = "archindex"
		subsystem = "index"
	)

	return &Metrics{
		GroupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "groups_created_total",
			Help:        "Number of archetype groups created",
			ConstLabels: labels,
		}),
		Grows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "grows_total",
			Help:        "Number of times the index snapshot was replaced by a larger one",
			ConstLabels: labels,
		}),
		Capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   subsystem,
			Name:        "capacity",
			Help:        "Capacity of the current index snapshot",
			ConstLabels: labels,
		}),
		CacheRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "query_cache",
			Name:        "refreshes_total",
			Help:        "Number of query cache refreshes that scanned new groups",
			ConstLabels: labels,
		}),
		CacheGroupsScan: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "query_cache",
			Name:        "groups_scanned_total",
			Help:        "Number of groups tested against a filter during cache refreshes",
			ConstLabels: labels,
		}),
	}
}

// PrometheusCollectors returns the collectors for registration.
func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.GroupsCreated,
		m.Grows,
		m.Capacity,
		m.CacheRefreshes,
		m.CacheGroupsScan,
	}
}
