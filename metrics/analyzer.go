package metrics

import (
	"time"

	"github.com/saiset-co/sai-cache/types"
)

// Analyze scores a metrics snapshot out of 100 and collects the issues,
// recommendations and insights behind the deductions. It is a pure function
// of its input.
func Analyze(m types.CacheMetrics) types.PerformanceAnalysis {
	analysis := types.PerformanceAnalysis{
		Score:       100,
		GeneratedAt: time.Now(),
	}

	current := m.Current

	switch {
	case current.HitRate < 50:
		analysis.Score -= 30
		analysis.Issues = append(analysis.Issues, "hit rate below 50%")
		analysis.Recommendations = append(analysis.Recommendations,
			"increase cache size or default TTL, or review the eviction strategy")
	case current.HitRate < 70:
		analysis.Score -= 15
	}

	if current.MemoryUtilization > 90 {
		analysis.Score -= 20
		analysis.Issues = append(analysis.Issues, "memory utilization above 90%")
		analysis.Recommendations = append(analysis.Recommendations,
			"raise the memory budget or switch to a memory-optimized preset")
	} else if current.MemoryUtilization < 30 {
		analysis.Insights = append(analysis.Insights,
			"memory headroom is large; the cache could hold more entries")
	}

	if current.AverageAccessTime > 5 {
		analysis.Score -= 15
		analysis.Issues = append(analysis.Issues, "average access time above 5ms")
		analysis.Recommendations = append(analysis.Recommendations,
			"check listener cost and lock contention on the cache")
	}

	if m.Trends.HitRate == types.TrendDeclining {
		analysis.Score -= 10
		analysis.Issues = append(analysis.Issues, "hit rate is declining")
	}

	if m.Trends.Latency == types.TrendDegrading {
		analysis.Score -= 10
		analysis.Issues = append(analysis.Issues, "access latency is degrading")
	}

	analyzeEvictions(current, &analysis)
	analyzeBaseline(m, &analysis)

	if analysis.Score < 0 {
		analysis.Score = 0
	}

	return analysis
}

func analyzeEvictions(current types.CacheStats, analysis *types.PerformanceAnalysis) {
	if current.Evictions == 0 || len(current.EvictionBreakdown) == 0 {
		return
	}

	var dominant string
	var dominantCount uint64
	for strategy, count := range current.EvictionBreakdown {
		if count > dominantCount {
			dominant = strategy
			dominantCount = count
		}
	}

	if float64(dominantCount)/float64(current.Evictions) > 0.8 {
		analysis.Insights = append(analysis.Insights,
			"evictions are dominated by the "+dominant+" strategy")
	} else {
		analysis.Insights = append(analysis.Insights,
			"evictions are spread across mixed strategies")
	}
}

// analyzeBaseline compares the current hit rate to the oldest retained
// snapshot and reports material improvement or regression.
func analyzeBaseline(m types.CacheMetrics, analysis *types.PerformanceAnalysis) {
	if len(m.History) == 0 {
		return
	}

	delta := m.Current.HitRate - m.History[0].HitRate
	switch {
	case delta > 10:
		analysis.Insights = append(analysis.Insights,
			"hit rate has improved by more than 10 points since the oldest snapshot")
	case delta < -10:
		analysis.Issues = append(analysis.Issues,
			"hit rate regressed by more than 10 points since the oldest snapshot")
		analysis.Recommendations = append(analysis.Recommendations,
			"compare the current workload against the one the strategy was tuned for")
	}
}
