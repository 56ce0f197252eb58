package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiset-co/sai-cache/types"
)

func hitEvent(latency time.Duration) types.CacheEvent {
	return types.CacheEvent{
		Type:      types.EventHit,
		Timestamp: time.Now(),
		Metadata:  types.EventMetadata{Latency: latency},
	}
}

func missEvent() types.CacheEvent {
	return types.CacheEvent{Type: types.EventMiss, Timestamp: time.Now()}
}

func TestHitRateMatchesRunningCounts(t *testing.T) {
	collector := NewCollector()

	for i := 0; i < 3; i++ {
		collector.RecordEvent(hitEvent(0))
	}
	collector.RecordEvent(missEvent())

	stats := collector.Stats()
	assert.Equal(t, uint64(3), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, float64(75), stats.HitRate)
}

func TestHitRateZeroWithoutAccesses(t *testing.T) {
	collector := NewCollector()

	assert.Zero(t, collector.Stats().HitRate)
}

func TestAverageAccessTime(t *testing.T) {
	collector := NewCollector()

	collector.RecordEvent(hitEvent(2 * time.Millisecond))
	collector.RecordEvent(hitEvent(4 * time.Millisecond))

	assert.InDelta(t, 3.0, collector.Stats().AverageAccessTime, 0.001)
}

func TestLatencyRingDropsOldest(t *testing.T) {
	collector := NewCollector()

	// Fill beyond capacity with 1ms samples, then one large outlier.
	for i := 0; i < maxLatencySamples; i++ {
		collector.RecordEvent(hitEvent(time.Millisecond))
	}
	collector.RecordEvent(hitEvent(time.Second))

	// The ring stayed at capacity: the average reflects exactly one outlier
	// among maxLatencySamples samples.
	expected := (float64(maxLatencySamples-1) + 1000.0) / float64(maxLatencySamples)
	assert.InDelta(t, expected, collector.Stats().AverageAccessTime, 0.001)
}

func TestEvictionBreakdown(t *testing.T) {
	collector := NewCollector()

	for i := 0; i < 3; i++ {
		collector.RecordEvent(types.CacheEvent{
			Type:     types.EventEviction,
			Metadata: types.EventMetadata{Strategy: "lru"},
		})
	}
	collector.RecordEvent(types.CacheEvent{
		Type:     types.EventEviction,
		Metadata: types.EventMetadata{Strategy: "fifo"},
	})
	collector.RecordEvent(types.CacheEvent{Type: types.EventExpiration})

	stats := collector.Stats()
	assert.Equal(t, uint64(4), stats.Evictions)
	assert.Equal(t, uint64(1), stats.Expirations)
	assert.Equal(t, uint64(3), stats.EvictionBreakdown["lru"])
	assert.Equal(t, uint64(1), stats.EvictionBreakdown["fifo"])
}

func TestMemoryUtilization(t *testing.T) {
	collector := NewCollector()

	collector.UpdateCacheInfo(10, 50, 100)
	assert.InDelta(t, 50.0, collector.Stats().MemoryUtilization, 0.001)

	collector.UpdateCacheInfo(10, 50, 0)
	assert.Zero(t, collector.Stats().MemoryUtilization)
}

func TestHistoryRingIsBounded(t *testing.T) {
	collector := NewCollector()

	for i := 0; i < maxHistory+50; i++ {
		collector.TakeSnapshot()
	}

	assert.Len(t, collector.GetMetrics().History, maxHistory)
}

func TestTrendsRequireThreeSnapshots(t *testing.T) {
	collector := NewCollector()

	collector.TakeSnapshot()
	collector.TakeSnapshot()

	trends := collector.GetMetrics().Trends
	assert.Equal(t, types.TrendStable, trends.HitRate)
	assert.Equal(t, types.TrendStable, trends.Memory)
	assert.Equal(t, types.TrendStable, trends.Latency)
}

func TestHitRateTrendImproving(t *testing.T) {
	collector := NewCollector()

	collector.RecordEvent(missEvent())
	collector.TakeSnapshot() // hit rate 0
	collector.TakeSnapshot()

	for i := 0; i < 10; i++ {
		collector.RecordEvent(hitEvent(0))
	}
	collector.TakeSnapshot() // hit rate ~91

	assert.Equal(t, types.TrendImproving, collector.GetMetrics().Trends.HitRate)
}

func TestMemoryTrendIncreasing(t *testing.T) {
	collector := NewCollector()

	collector.UpdateCacheInfo(1, 10, 100)
	collector.TakeSnapshot()
	collector.TakeSnapshot()
	collector.UpdateCacheInfo(1, 90, 100)
	collector.TakeSnapshot()

	assert.Equal(t, types.TrendIncreasing, collector.GetMetrics().Trends.Memory)
}

func TestLatencyTrendDegrading(t *testing.T) {
	collector := NewCollector()

	collector.RecordEvent(hitEvent(time.Millisecond))
	collector.TakeSnapshot()
	collector.TakeSnapshot()
	for i := 0; i < 20; i++ {
		collector.RecordEvent(hitEvent(10 * time.Millisecond))
	}
	collector.TakeSnapshot()

	assert.Equal(t, types.TrendDegrading, collector.GetMetrics().Trends.Latency)
}

func TestPercentileCeilingRank(t *testing.T) {
	collector := NewCollector()

	for i := 1; i <= 10; i++ {
		collector.RecordEvent(hitEvent(time.Duration(i) * time.Millisecond))
	}

	assert.InDelta(t, 5.0, collector.Percentile(50), 0.001)
	assert.InDelta(t, 9.0, collector.Percentile(90), 0.001)
	assert.InDelta(t, 10.0, collector.Percentile(99), 0.001)
}

func TestPercentileEmpty(t *testing.T) {
	collector := NewCollector()

	assert.Zero(t, collector.Percentile(50))
}

func TestPeaksTrackHighWaterMarks(t *testing.T) {
	collector := NewCollector()

	collector.UpdateCacheInfo(100, 2048, 4096)
	collector.UpdateCacheInfo(10, 128, 4096)

	peaks := collector.GetMetrics().Peaks
	require.Equal(t, 100, peaks.Size)
	assert.Equal(t, int64(2048), peaks.MemoryUsage)
}
