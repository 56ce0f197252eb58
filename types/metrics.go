package types

import (
	"time"
)

type TrendDirection string

const (
	TrendStable     TrendDirection = "stable"
	TrendImproving  TrendDirection = "improving"
	TrendDeclining  TrendDirection = "declining"
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendDegrading  TrendDirection = "degrading"
)

// CacheTrends classifies the direction of the three headline signals over the
// recent snapshot history.
type CacheTrends struct {
	HitRate TrendDirection `json:"hit_rate"`
	Memory  TrendDirection `json:"memory"`
	Latency TrendDirection `json:"latency"`
}

// PeakValues tracks the highest observed value for each gauge since the
// collector was created.
type PeakValues struct {
	HitRate     float64 `json:"hit_rate"`
	MemoryUsage int64   `json:"memory_usage"`
	Size        int     `json:"size"`
	AccessTime  float64 `json:"access_time"`
}

// CacheMetrics is the full collector output: live stats, snapshot history,
// trend classification and peaks.
type CacheMetrics struct {
	Current CacheStats   `json:"current"`
	History []CacheStats `json:"history"`
	Trends  CacheTrends  `json:"trends"`
	Peaks   PeakValues   `json:"peaks"`
}

// PerformanceAnalysis is the analyzer verdict over a metrics snapshot.
type PerformanceAnalysis struct {
	Score           int       `json:"score"`
	Issues          []string  `json:"issues"`
	Recommendations []string  `json:"recommendations"`
	Insights        []string  `json:"insights"`
	GeneratedAt     time.Time `json:"generated_at"`
}
