package metrics

import (
	"fmt"
	"strings"

	"github.com/saiset-co/sai-cache/types"
)

// Report renders a metrics snapshot and its analysis as human-readable text.
func Report(m types.CacheMetrics, analysis types.PerformanceAnalysis) string {
	var b strings.Builder

	b.WriteString("=== Cache Performance Report ===\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", analysis.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "Health score: %d/100\n\n", analysis.Score)

	current := m.Current
	b.WriteString("-- Statistics --\n")
	fmt.Fprintf(&b, "Hits: %d  Misses: %d  Hit rate: %.2f%%\n", current.Hits, current.Misses, current.HitRate)
	fmt.Fprintf(&b, "Entries: %d  Memory: %d bytes (%.2f%% of budget)\n",
		current.Size, current.MemoryUsage, current.MemoryUtilization)
	fmt.Fprintf(&b, "Evictions: %d  Expirations: %d\n", current.Evictions, current.Expirations)
	fmt.Fprintf(&b, "Average access time: %.3fms\n", current.AverageAccessTime)

	if len(current.EvictionBreakdown) > 0 {
		b.WriteString("Eviction breakdown:\n")
		for strategy, count := range current.EvictionBreakdown {
			fmt.Fprintf(&b, "  %s: %d\n", strategy, count)
		}
	}

	b.WriteString("\n-- Trends --\n")
	fmt.Fprintf(&b, "Hit rate: %s  Memory: %s  Latency: %s\n",
		m.Trends.HitRate, m.Trends.Memory, m.Trends.Latency)

	writeSection(&b, "Issues", analysis.Issues)
	writeSection(&b, "Recommendations", analysis.Recommendations)
	writeSection(&b, "Insights", analysis.Insights)

	return b.String()
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(b, "\n-- %s --\n", title)
	for _, line := range lines {
		fmt.Fprintf(b, "- %s\n", line)
	}
}
