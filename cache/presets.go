package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/saiset-co/sai-cache/types"
)

// PresetRegistry maps preset names to complete configurations. It is an
// explicit object rather than package state so embedders and tests can hold
// isolated instances.
type PresetRegistry struct {
	mu      sync.RWMutex
	presets map[string]types.CacheConfig
}

// NewPresetRegistry returns a registry preloaded with the named presets
// consumers select by string: small, medium, large, memory-optimized and
// performance-optimized.
func NewPresetRegistry() *PresetRegistry {
	r := &PresetRegistry{
		presets: make(map[string]types.CacheConfig),
	}

	r.Register("small", types.CacheConfig{
		MaxSize:          100,
		DefaultTTL:       5 * time.Minute,
		EvictionStrategy: types.StrategyLRU,
		FallbackStrategy: types.StrategyFIFO,
		MaxMemoryBytes:   10 * 1024 * 1024,
		EnableMetrics:    true,
		MetricsInterval:  time.Minute,
		AutoCleanup:      true,
		CleanupInterval:  time.Minute,
		ThreadSafe:       true,
	})

	r.Register("medium", *types.DefaultCacheConfig())

	r.Register("large", types.CacheConfig{
		MaxSize:          10000,
		DefaultTTL:       2 * time.Hour,
		EvictionStrategy: types.StrategyAdaptive,
		FallbackStrategy: types.StrategyLRU,
		MaxMemoryBytes:   500 * 1024 * 1024,
		EnableMetrics:    true,
		MetricsInterval:  time.Minute,
		AutoCleanup:      true,
		CleanupInterval:  5 * time.Minute,
		ThreadSafe:       true,
	})

	r.Register("memory-optimized", types.CacheConfig{
		MaxSize:          500,
		DefaultTTL:       30 * time.Minute,
		EvictionStrategy: types.StrategyTTL,
		FallbackStrategy: types.StrategyLRU,
		MaxMemoryBytes:   25 * 1024 * 1024,
		EnableMetrics:    true,
		MetricsInterval:  time.Minute,
		AutoCleanup:      true,
		CleanupInterval:  time.Minute,
		ThreadSafe:       true,
	})

	// Raw throughput: no gate, no metrics, no memory accounting.
	r.Register("performance-optimized", types.CacheConfig{
		MaxSize:          5000,
		DefaultTTL:       time.Hour,
		EvictionStrategy: types.StrategyLRU,
		FallbackStrategy: types.StrategyFIFO,
		MaxMemoryBytes:   0,
		EnableMetrics:    false,
		MetricsInterval:  0,
		AutoCleanup:      true,
		CleanupInterval:  5 * time.Minute,
		ThreadSafe:       false,
	})

	return r
}

// Register adds or replaces a named preset.
func (r *PresetRegistry) Register(name string, config types.CacheConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.presets[name] = config
}

// Get returns a copy of the named preset. Unknown names are a configuration
// error.
func (r *PresetRegistry) Get(name string) (*types.CacheConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	preset, exists := r.presets[name]
	if !exists {
		return nil, types.Errorf(types.ErrPresetUnknown, "preset: %s", name)
	}

	config := preset
	return &config, nil
}

// Names lists the registered preset names.
func (r *PresetRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
