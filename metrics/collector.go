// Package metrics turns the cache event stream into statistics, snapshot
// history, trend classification and a heuristic health analysis. The
// collector is bookkeeping only: it is never a correctness dependency of the
// engine, and none of its methods can fail a cache operation.
package metrics

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/saiset-co/sai-cache/types"
)

const (
	// maxLatencySamples caps the ring buffer backing AverageAccessTime and
	// the percentile accessor.
	maxLatencySamples = 1000

	// maxHistory caps the snapshot ring used for trend analysis.
	maxHistory = 100
)

type Collector struct {
	mu                sync.Mutex
	hits              uint64
	misses            uint64
	evictions         uint64
	expirations       uint64
	evictionBreakdown map[string]uint64
	size              int
	memoryUsage       int64
	maxMemory         int64
	hitRate           float64
	averageAccessTime float64
	latencies         []float64
	history           []types.CacheStats
	peaks             types.PeakValues
}

func NewCollector() *Collector {
	return &Collector{
		evictionBreakdown: make(map[string]uint64),
		latencies:         make([]float64, 0, maxLatencySamples),
		history:           make([]types.CacheStats, 0, maxHistory),
	}
}

// RecordEvent updates the counters touched by a cache event and recomputes
// the derived gauges synchronously.
func (c *Collector) RecordEvent(event types.CacheEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case types.EventHit:
		c.hits++
	case types.EventMiss:
		c.misses++
	case types.EventEviction:
		c.evictions++
		if event.Metadata.Strategy != "" {
			c.evictionBreakdown[event.Metadata.Strategy]++
		}
	case types.EventExpiration:
		c.expirations++
	}

	if event.Metadata.Latency > 0 {
		if len(c.latencies) >= maxLatencySamples {
			c.latencies = c.latencies[1:]
		}
		c.latencies = append(c.latencies, float64(event.Metadata.Latency)/float64(time.Millisecond))
	}

	c.recomputeLocked()
}

// UpdateCacheInfo refreshes the size and memory gauges.
func (c *Collector) UpdateCacheInfo(size int, memoryUsage, maxMemory int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.size = size
	c.memoryUsage = memoryUsage
	c.maxMemory = maxMemory

	if size > c.peaks.Size {
		c.peaks.Size = size
	}
	if memoryUsage > c.peaks.MemoryUsage {
		c.peaks.MemoryUsage = memoryUsage
	}
}

// TakeSnapshot appends the current stats to the bounded history ring.
func (c *Collector) TakeSnapshot() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) >= maxHistory {
		c.history = c.history[1:]
	}
	c.history = append(c.history, c.statsLocked())
}

// Stats returns the current point-in-time statistics.
func (c *Collector) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.statsLocked()
}

// GetMetrics returns current stats plus history, trends and peaks.
func (c *Collector) GetMetrics() types.CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := make([]types.CacheStats, len(c.history))
	copy(history, c.history)

	return types.CacheMetrics{
		Current: c.statsLocked(),
		History: history,
		Trends:  c.trendsLocked(),
		Peaks:   c.peaks,
	}
}

// Percentile returns the p-th latency percentile in milliseconds over the
// sample ring, using ceiling-rank indexing. Returns 0 with no samples.
func (c *Collector) Percentile(p float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.latencies)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, c.latencies)
	sort.Float64s(sorted)

	index := int(math.Ceil(p/100*float64(n))) - 1
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}

	return sorted[index]
}

func (c *Collector) statsLocked() types.CacheStats {
	breakdown := make(map[string]uint64, len(c.evictionBreakdown))
	for strategy, count := range c.evictionBreakdown {
		breakdown[strategy] = count
	}

	return types.CacheStats{
		Hits:              c.hits,
		Misses:            c.misses,
		HitRate:           c.hitRate,
		Size:              c.size,
		MemoryUsage:       c.memoryUsage,
		MemoryUtilization: c.memoryUtilizationLocked(),
		Evictions:         c.evictions,
		Expirations:       c.expirations,
		AverageAccessTime: c.averageAccessTime,
		EvictionBreakdown: breakdown,
		LastUpdated:       time.Now(),
	}
}

func (c *Collector) recomputeLocked() {
	total := c.hits + c.misses
	if total == 0 {
		c.hitRate = 0
	} else {
		c.hitRate = float64(c.hits) / float64(total) * 100
	}

	if len(c.latencies) == 0 {
		c.averageAccessTime = 0
	} else {
		var sum float64
		for _, sample := range c.latencies {
			sum += sample
		}
		c.averageAccessTime = sum / float64(len(c.latencies))
	}

	if c.hitRate > c.peaks.HitRate {
		c.peaks.HitRate = c.hitRate
	}
	if c.averageAccessTime > c.peaks.AccessTime {
		c.peaks.AccessTime = c.averageAccessTime
	}
}

func (c *Collector) memoryUtilizationLocked() float64 {
	if c.maxMemory <= 0 {
		return 0
	}
	return float64(c.memoryUsage) / float64(c.maxMemory) * 100
}

// trendsLocked compares the newest snapshot against the third-from-newest.
// Fewer than three snapshots reads as stable across the board.
func (c *Collector) trendsLocked() types.CacheTrends {
	trends := types.CacheTrends{
		HitRate: types.TrendStable,
		Memory:  types.TrendStable,
		Latency: types.TrendStable,
	}

	if len(c.history) < 3 {
		return trends
	}

	newest := c.history[len(c.history)-1]
	baseline := c.history[len(c.history)-3]

	if delta := newest.HitRate - baseline.HitRate; math.Abs(delta) >= 1 {
		if delta > 0 {
			trends.HitRate = types.TrendImproving
		} else {
			trends.HitRate = types.TrendDeclining
		}
	}

	if delta := newest.MemoryUtilization - baseline.MemoryUtilization; math.Abs(delta) >= 5 {
		if delta > 0 {
			trends.Memory = types.TrendIncreasing
		} else {
			trends.Memory = types.TrendDecreasing
		}
	}

	if delta := newest.AverageAccessTime - baseline.AverageAccessTime; math.Abs(delta) >= 0.1 {
		if delta > 0 {
			trends.Latency = types.TrendDegrading
		} else {
			trends.Latency = types.TrendImproving
		}
	}

	return trends
}
