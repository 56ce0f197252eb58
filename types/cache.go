package types

import (
	"time"
)

const (
	// NoExpiration disables TTL tracking for an entry.
	NoExpiration time.Duration = 0

	DefaultMaxSize         = 1000
	DefaultTTL             = 1 * time.Hour
	DefaultMaxMemoryBytes  = 100 * 1024 * 1024
	DefaultMetricsInterval = 1 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
	DefaultStrategy        = "lru"
)

// CacheEntry is owned by a single engine instance. The engine mutates it in
// place through the active policy's OnAccess/OnInsert hooks and never hands
// it out to callers.
type CacheEntry struct {
	Key            string        `json:"key"`
	Value          interface{}   `json:"value"`
	CreatedAt      time.Time     `json:"created_at"`
	LastAccessed   time.Time     `json:"last_accessed"`
	AccessCount    uint64        `json:"access_count"`
	TTL            time.Duration `json:"ttl"`
	ExpiresAt      time.Time     `json:"expires_at"`
	SizeBytes      int64         `json:"size_bytes"`
	InsertionOrder uint64        `json:"insertion_order"`
}

// Expired reports whether the entry's TTL has elapsed at the given instant.
// Entries with TTL <= 0 never expire.
func (e *CacheEntry) Expired(now time.Time) bool {
	return e.TTL > 0 && !now.Before(e.ExpiresAt)
}

// CacheConfig is immutable after construction. MaxMemoryBytes == 0 disables
// memory-based eviction.
type CacheConfig struct {
	MaxSize          int           `yaml:"max_size" json:"max_size" validate:"min=1"`
	DefaultTTL       time.Duration `yaml:"default_ttl" json:"default_ttl" validate:"min=0"`
	EvictionStrategy string        `yaml:"eviction_strategy" json:"eviction_strategy" validate:"required"`
	FallbackStrategy string        `yaml:"fallback_strategy" json:"fallback_strategy"`
	MaxMemoryBytes   int64         `yaml:"max_memory_bytes" json:"max_memory_bytes" validate:"min=0"`
	EnableMetrics    bool          `yaml:"enable_metrics" json:"enable_metrics"`
	MetricsInterval  time.Duration `yaml:"metrics_interval" json:"metrics_interval" validate:"min=0"`
	AutoCleanup      bool          `yaml:"auto_cleanup" json:"auto_cleanup"`
	CleanupInterval  time.Duration `yaml:"cleanup_interval" json:"cleanup_interval" validate:"min=0"`
	ThreadSafe       bool          `yaml:"thread_safe" json:"thread_safe"`
}

// DefaultCacheConfig returns the documented defaults.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		MaxSize:          DefaultMaxSize,
		DefaultTTL:       DefaultTTL,
		EvictionStrategy: DefaultStrategy,
		FallbackStrategy: "fifo",
		MaxMemoryBytes:   DefaultMaxMemoryBytes,
		EnableMetrics:    true,
		MetricsInterval:  DefaultMetricsInterval,
		AutoCleanup:      true,
		CleanupInterval:  DefaultCleanupInterval,
		ThreadSafe:       true,
	}
}

// CacheStats is a point-in-time view of the counters maintained by the
// metrics collector.
type CacheStats struct {
	Hits              uint64            `json:"hits"`
	Misses            uint64            `json:"misses"`
	HitRate           float64           `json:"hit_rate"`
	Size              int               `json:"size"`
	MemoryUsage       int64             `json:"memory_usage"`
	MemoryUtilization float64           `json:"memory_utilization"`
	Evictions         uint64            `json:"evictions"`
	Expirations       uint64            `json:"expirations"`
	AverageAccessTime float64           `json:"average_access_time"`
	EvictionBreakdown map[string]uint64 `json:"eviction_breakdown"`
	LastUpdated       time.Time         `json:"last_updated"`
}

// Cache is the operation surface consumed by collaborators. It is a library
// boundary, not a network protocol.
type Cache interface {
	LifecycleManager
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl ...time.Duration) error
	Has(key string) bool
	Delete(key string) bool
	Clear()
	Cleanup() int
	Keys() []string
	Size() int
	MemoryUsage() int64
	GetStats() CacheStats
	GetMetrics() CacheMetrics
	HealthCheck() HealthStatus
	AddEventListener(eventType EventType, listener EventListener) string
	RemoveEventListener(eventType EventType, id string) bool
}

// HealthStatus summarizes the analyzer verdict for a cache instance.
type HealthStatus struct {
	Healthy         bool     `json:"healthy"`
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}
