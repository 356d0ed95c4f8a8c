package metrics

import "github.com/prometheus/client_golang/prometheus"

// SiteMetrics exposes counters/histograms for lead capture and catalog traffic.
type SiteMetrics struct {
	leadsTotal       *prometheus.CounterVec
	notifyTotal      *prometheus.CounterVec
	persistLatency   prometheus.Histogram
	catalogQueries   *prometheus.CounterVec
	catalogCacheHits *prometheus.CounterVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		leadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "equipment",
			Subsystem: "leads",
			Name:      "submitted_total",
			Help:      "Lead submissions by action and outcome",
		}, []string{"action", "outcome"}),
		notifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "equipment",
			Subsystem: "leads",
			Name:      "notifications_total",
			Help:      "Lead notification attempts by status",
		}, []string{"status"}),
		persistLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "equipment",
			Subsystem: "leads",
			Name:      "persist_latency_seconds",
			Help:      "Latency of lead inserts",
			Buckets:   prometheus.DefBuckets,
		}),
		catalogQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "equipment",
			Subsystem: "catalog",
			Name:      "queries_total",
			Help:      "Catalog listing requests by filter state",
		}, []string{"filtered", "empty"}),
		catalogCacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "equipment",
			Subsystem: "catalog",
			Name:      "cache_total",
			Help:      "Catalog cache lookups by result",
		}, []string{"key", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.leadsTotal, m.notifyTotal, m.persistLatency, m.catalogQueries, m.catalogCacheHits)
	return m
}

// ObserveLead records the outcome of one submission ("saved", "invalid", "store_error").
func (m *SiteMetrics) ObserveLead(action, outcome string) {
	if m == nil {
		return
	}
	m.leadsTotal.WithLabelValues(action, outcome).Inc()
}

// ObserveNotification records a notification result ("sent", "failed", "skipped").
func (m *SiteMetrics) ObserveNotification(status string) {
	if m == nil {
		return
	}
	m.notifyTotal.WithLabelValues(status).Inc()
}

func (m *SiteMetrics) ObservePersistLatency(seconds float64) {
	if m == nil {
		return
	}
	m.persistLatency.Observe(seconds)
}

func (m *SiteMetrics) ObserveCatalogQuery(filtered, empty bool) {
	if m == nil {
		return
	}
	m.catalogQueries.WithLabelValues(boolLabel(filtered), boolLabel(empty)).Inc()
}

func (m *SiteMetrics) ObserveCacheLookup(key string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.catalogCacheHits.WithLabelValues(key, result).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
