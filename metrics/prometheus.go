package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/saiset-co/sai-cache/types"
)

// StatsSource is anything that can produce a point-in-time stats snapshot,
// normally a cache engine.
type StatsSource interface {
	GetStats() types.CacheStats
}

// Exporter bridges cache statistics into a prometheus registry. It reads the
// source on every scrape and emits const metrics, so the engine keeps no
// prometheus state of its own.
type Exporter struct {
	source StatsSource

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	hitRate     *prometheus.Desc
	size        *prometheus.Desc
	memoryUsage *prometheus.Desc
	memoryUtil  *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	accessTime  *prometheus.Desc
	byStrategy  *prometheus.Desc
}

func NewExporter(namespace string, source StatsSource) *Exporter {
	return &Exporter{
		source: source,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hits_total"),
			"Total cache hits", nil, nil),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "misses_total"),
			"Total cache misses", nil, nil),
		hitRate: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hit_rate"),
			"Cache hit rate percentage", nil, nil),
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Current number of cached entries", nil, nil),
		memoryUsage: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "memory_bytes"),
			"Estimated memory usage of cached entries", nil, nil),
		memoryUtil: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "memory_utilization"),
			"Memory usage relative to the configured budget, percent", nil, nil),
		evictions: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "evictions_total"),
			"Total evicted entries", nil, nil),
		expirations: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "expirations_total"),
			"Total expired entries removed by cleanup", nil, nil),
		accessTime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "average_access_time_ms"),
			"Average access latency in milliseconds", nil, nil),
		byStrategy: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "evictions_by_strategy_total"),
			"Evicted entries per strategy", []string{"strategy"}, nil),
	}
}

func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	ch <- e.hits
	ch <- e.misses
	ch <- e.hitRate
	ch <- e.size
	ch <- e.memoryUsage
	ch <- e.memoryUtil
	ch <- e.evictions
	ch <- e.expirations
	ch <- e.accessTime
	ch <- e.byStrategy
}

func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	stats := e.source.GetStats()

	ch <- prometheus.MustNewConstMetric(e.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(e.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(e.hitRate, prometheus.GaugeValue, stats.HitRate)
	ch <- prometheus.MustNewConstMetric(e.size, prometheus.GaugeValue, float64(stats.Size))
	ch <- prometheus.MustNewConstMetric(e.memoryUsage, prometheus.GaugeValue, float64(stats.MemoryUsage))
	ch <- prometheus.MustNewConstMetric(e.memoryUtil, prometheus.GaugeValue, stats.MemoryUtilization)
	ch <- prometheus.MustNewConstMetric(e.evictions, prometheus.CounterValue, float64(stats.Evictions))
	ch <- prometheus.MustNewConstMetric(e.expirations, prometheus.CounterValue, float64(stats.Expirations))
	ch <- prometheus.MustNewConstMetric(e.accessTime, prometheus.GaugeValue, stats.AverageAccessTime)

	for strategy, count := range stats.EvictionBreakdown {
		ch <- prometheus.MustNewConstMetric(e.byStrategy, prometheus.CounterValue, float64(count), strategy)
	}
}
