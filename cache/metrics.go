package cache

import "github.com/prometheus/client_golang/prometheus"

// statser is satisfied by BaseConditionCache and EligiblePredicateCache;
// StatsCollector only needs the Stats() accessor to export a cache's
// counters.
type statser interface {
	Stats() Stats
}

// StatsCollector adapts a cache's Stats() counters to prometheus.Collector,
// so a caller can register it with their own registry (spec §"Metrics":
// the core emits counters, it does not aggregate or export them itself —
// grounded in open-policy-agent-eopa's NewCounterVec-registered-against-a-
// manager pattern). Hits/misses/evictions are monotonic counters per spec
// §5, so they are exported as prometheus counters, not gauges.
type StatsCollector struct {
	cache statser
	hits  *prometheus.Desc
	miss  *prometheus.Desc
	evict *prometheus.Desc
}

// NewStatsCollector builds a Collector for cache, labeling every exported
// metric with name (e.g. "base_condition", "eligible_predicate") so a
// caller registering both of Helios's cache tiers can tell them apart.
func NewStatsCollector(name string, cache statser) *StatsCollector {
	constLabels := prometheus.Labels{"cache": name}
	return &StatsCollector{
		cache: cache,
		hits:  prometheus.NewDesc("helios_cache_hits_total", "Total cache hits.", nil, constLabels),
		miss:  prometheus.NewDesc("helios_cache_misses_total", "Total cache misses.", nil, constLabels),
		evict: prometheus.NewDesc("helios_cache_evictions_total", "Total cache evictions.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.miss
	ch <- c.evict
}

// Collect implements prometheus.Collector, reading the cache's current
// counters on every scrape.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.cache.Stats()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.miss, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(c.evict, prometheus.CounterValue, float64(s.Evictions))
}
