package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiset-co/sai-cache/types"
)

type staticStats struct {
	stats types.CacheStats
}

func (s staticStats) GetStats() types.CacheStats {
	return s.stats
}

func TestExporterCollectsStats(t *testing.T) {
	source := staticStats{stats: types.CacheStats{
		Hits:              30,
		Misses:            10,
		HitRate:           75,
		Size:              4,
		MemoryUsage:       2048,
		MemoryUtilization: 50,
		Evictions:         3,
		Expirations:       1,
		AverageAccessTime: 1.5,
		EvictionBreakdown: map[string]uint64{"lru": 2, "fifo": 1},
	}}

	exporter := NewExporter("sai", source)

	expected := strings.NewReader(`
# HELP sai_cache_hits_total Total cache hits
# TYPE sai_cache_hits_total counter
sai_cache_hits_total 30
# HELP sai_cache_misses_total Total cache misses
# TYPE sai_cache_misses_total counter
sai_cache_misses_total 10
# HELP sai_cache_hit_rate Cache hit rate percentage
# TYPE sai_cache_hit_rate gauge
sai_cache_hit_rate 75
# HELP sai_cache_evictions_by_strategy_total Evicted entries per strategy
# TYPE sai_cache_evictions_by_strategy_total counter
sai_cache_evictions_by_strategy_total{strategy="fifo"} 1
sai_cache_evictions_by_strategy_total{strategy="lru"} 2
`)

	err := testutil.CollectAndCompare(exporter, expected,
		"sai_cache_hits_total",
		"sai_cache_misses_total",
		"sai_cache_hit_rate",
		"sai_cache_evictions_by_strategy_total")
	assert.NoError(t, err)
}

func TestExporterRegisters(t *testing.T) {
	registry := prometheus.NewPedanticRegistry()
	exporter := NewExporter("sai", staticStats{})

	require.NoError(t, registry.Register(exporter))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 9)
}
