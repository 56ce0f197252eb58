// Package cache implements the cache engine: a single-process, in-memory
// store with TTL expiration, pluggable eviction strategies, memory-bounded
// admission, synchronous event dispatch and background maintenance.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saiset-co/sai-cache/eviction"
	"github.com/saiset-co/sai-cache/metrics"
	"github.com/saiset-co/sai-cache/types"
	"github.com/saiset-co/sai-cache/utils"
)

type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
)

const (
	// healthyScore is the analyzer score at or above which HealthCheck
	// reports healthy.
	healthyScore = 70

	// evictionBatch bounds how many candidates a single memory-pressure
	// pass asks the policy for.
	evictionBatch = 8
)

// Engine orchestrates the entry store, eviction, metrics and events. All
// mutating operations route through the exclusion gate when ThreadSafe is
// enabled; otherwise the caller guarantees single-threaded access.
type Engine struct {
	ctx        context.Context
	cancel     context.CancelFunc
	config     *types.CacheConfig
	logger     types.Logger
	policy     types.EvictionPolicy
	fallback   types.EvictionPolicy
	collector  *metrics.Collector
	dispatcher *dispatcher
	gate       *Gate
	sched      *scheduler

	store            map[string]*types.CacheEntry
	insertionCounter uint64
	memoryUsage      int64

	state           atomic.Value
	shutdownTimeout time.Duration
}

var _ types.Cache = (*Engine)(nil)

type Option func(*engineOptions)

type engineOptions struct {
	registry *eviction.Registry
}

// WithEvictionRegistry injects a custom policy registry, for embedders that
// register their own strategies.
func WithEvictionRegistry(registry *eviction.Registry) Option {
	return func(o *engineOptions) {
		o.registry = registry
	}
}

// New builds an engine from the given configuration. A nil config takes the
// documented defaults. Unknown eviction strategies and invalid limits fail
// here, fast; nothing is retried.
func New(ctx context.Context, logger types.Logger, config *types.CacheConfig, opts ...Option) (*Engine, error) {
	if logger == nil {
		return nil, types.Errorf(types.ErrConfigIsNil, "logger is required")
	}

	if config == nil {
		config = types.DefaultCacheConfig()
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.registry == nil {
		options.registry = eviction.NewRegistry()
	}

	policy, err := options.registry.Get(config.EvictionStrategy)
	if err != nil {
		return nil, err
	}

	var fallback types.EvictionPolicy
	if config.FallbackStrategy != "" && config.FallbackStrategy != config.EvictionStrategy {
		fallback, err = options.registry.Get(config.FallbackStrategy)
		if err != nil {
			return nil, err
		}
	}

	engineCtx, cancel := context.WithCancel(ctx)

	engine := &Engine{
		ctx:             engineCtx,
		cancel:          cancel,
		config:          config,
		logger:          logger,
		policy:          policy,
		fallback:        fallback,
		collector:       metrics.NewCollector(),
		dispatcher:      newDispatcher(logger),
		gate:            NewGate(),
		sched:           newScheduler(logger),
		store:           make(map[string]*types.CacheEntry),
		shutdownTimeout: 10 * time.Second,
	}

	engine.state.Store(StateStopped)

	return engine, nil
}

func validateConfig(config *types.CacheConfig) error {
	if config.MaxSize <= 0 {
		return types.Errorf(types.ErrConfigValidateFailed, "max_size must be positive, got %d", config.MaxSize)
	}
	if config.DefaultTTL < 0 || config.MetricsInterval < 0 || config.CleanupInterval < 0 {
		return types.Errorf(types.ErrConfigValidateFailed, "intervals must be non-negative")
	}
	if config.MaxMemoryBytes < 0 {
		return types.Errorf(types.ErrConfigValidateFailed, "max_memory_bytes must be non-negative, got %d", config.MaxMemoryBytes)
	}
	return nil
}

// Start spins up the background maintenance jobs. It does not gate the data
// path: Get/Set work before Start, only cleanup and metrics snapshots need
// the scheduler.
func (e *Engine) Start() error {
	if !e.transitionState(StateStopped, StateStarting) {
		e.logger.Warn("Cache engine is already running")
		return types.ErrCacheAlreadyRunning
	}

	defer func() {
		if e.getState() == StateStarting {
			e.setState(StateRunning)
		}
	}()

	if e.config.AutoCleanup && e.config.CleanupInterval > 0 {
		err := e.sched.every(e.config.CleanupInterval, "ttl cleanup", func() {
			if removed := e.Cleanup(); removed > 0 {
				e.logger.Debug("Cleanup removed expired entries", zap.Int("removed", removed))
			}
		})
		if err != nil {
			e.setState(StateStopped)
			return err
		}
	}

	if e.config.EnableMetrics && e.config.MetricsInterval > 0 {
		err := e.sched.every(e.config.MetricsInterval, "metrics snapshot", e.takeSnapshot)
		if err != nil {
			e.setState(StateStopped)
			return err
		}
	}

	e.sched.start()
	go e.watchContext()

	e.logger.Info("Cache engine started",
		zap.String("strategy", e.policy.Strategy()),
		zap.Int("max_size", e.config.MaxSize),
		zap.Int64("max_memory_bytes", e.config.MaxMemoryBytes),
		zap.Bool("thread_safe", e.config.ThreadSafe))

	return nil
}

// Stop halts the background jobs. Entries are retained; Clear is a separate
// operation.
func (e *Engine) Stop() error {
	if !e.transitionState(StateRunning, StateStopping) {
		e.logger.Warn("Cache engine is not running")
		return types.ErrCacheNotRunning
	}

	defer func() {
		e.setState(StateStopped)
	}()

	e.cancel()

	g := new(errgroup.Group)
	g.Go(func() error {
		return e.sched.stop(e.shutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		e.logger.Warn("Cache engine stop timeout, scheduler may not have stopped gracefully", zap.Error(err))
	} else {
		e.logger.Info("Cache engine stopped, entries retained", zap.Int("entries", e.Size()))
	}

	return nil
}

// watchContext halts the background jobs when the parent context is
// cancelled. Stop wins the state transition when it ran first, so the
// scheduler is only halted once.
func (e *Engine) watchContext() {
	<-e.ctx.Done()

	if !e.transitionState(StateRunning, StateStopping) {
		return
	}

	if err := e.sched.stop(e.shutdownTimeout); err != nil {
		e.logger.Warn("Scheduler stop timeout after context cancellation", zap.Error(err))
	}

	e.setState(StateStopped)
	e.logger.Info("Cache engine stopped by context cancellation")
}

func (e *Engine) IsRunning() bool {
	return e.getState() == StateRunning
}

// Get returns the stored value. Expired entries are removed lazily and
// reported as a miss. Latency covers the full call, including gate wait.
func (e *Engine) Get(key string) (interface{}, bool) {
	start := time.Now()

	var value interface{}
	var hit bool
	e.run(func() {
		value, hit = e.getLocked(key, start)
	})

	return value, hit
}

// Set stores a value. The optional ttl overrides the configured default;
// zero means no expiry. Admission is best-effort: a memory shortfall never
// fails the call.
func (e *Engine) Set(key string, value interface{}, ttl ...time.Duration) error {
	start := time.Now()

	if key == "" {
		e.logger.Error("Attempted to set cache entry with empty key")
		return types.ErrCacheKeyEmpty
	}

	entryTTL := e.config.DefaultTTL
	if len(ttl) > 0 {
		entryTTL = ttl[0]
	}
	if entryTTL < 0 {
		entryTTL = types.NoExpiration
	}

	e.run(func() {
		e.setLocked(key, value, entryTTL, start)
	})

	return nil
}

// Has reports key presence, lazily dropping a stale entry. Unlike Cleanup it
// emits no expiration event for the dropped entry.
func (e *Engine) Has(key string) bool {
	var present bool
	e.run(func() {
		entry, exists := e.store[key]
		if !exists {
			return
		}
		if entry.Expired(time.Now()) {
			e.removeEntryLocked(key)
			return
		}
		present = true
	})

	return present
}

func (e *Engine) Delete(key string) bool {
	var removed *types.CacheEntry
	e.run(func() {
		removed = e.removeEntryLocked(key)
		if removed != nil {
			e.emit(types.CacheEvent{
				Type:      types.EventDelete,
				Key:       key,
				Value:     removed.Value,
				Timestamp: time.Now(),
			})
		}
	})

	return removed != nil
}

// Clear removes all entries and resets the insertion counter.
func (e *Engine) Clear() {
	e.run(func() {
		e.store = make(map[string]*types.CacheEntry)
		e.insertionCounter = 0
		e.memoryUsage = 0
		e.emit(types.CacheEvent{
			Type:      types.EventClear,
			Timestamp: time.Now(),
		})
	})
}

// Cleanup sweeps the store for expired entries, emitting one expiration
// event per removed key, and returns the removed count.
func (e *Engine) Cleanup() int {
	var removed int
	e.run(func() {
		now := time.Now()

		var expired []string
		for key, entry := range e.store {
			if entry.Expired(now) {
				expired = append(expired, key)
			}
		}

		for _, key := range expired {
			entry := e.removeEntryLocked(key)
			if entry == nil {
				continue
			}
			removed++
			e.emit(types.CacheEvent{
				Type:      types.EventExpiration,
				Key:       key,
				Value:     entry.Value,
				Timestamp: now,
				Metadata: types.EventMetadata{
					Reason:  "ttl",
					Expired: true,
				},
			})
		}
	})

	return removed
}

func (e *Engine) Keys() []string {
	var keys []string
	e.run(func() {
		keys = make([]string, 0, len(e.store))
		for key := range e.store {
			keys = append(keys, key)
		}
	})

	return keys
}

func (e *Engine) Size() int {
	var size int
	e.run(func() {
		size = len(e.store)
	})

	return size
}

// MemoryUsage returns the sum of the estimated entry sizes in bytes.
func (e *Engine) MemoryUsage() int64 {
	var usage int64
	e.run(func() {
		usage = e.memoryUsage
	})

	return usage
}

// GetStats refreshes the live gauges into the collector and returns the
// point-in-time statistics.
func (e *Engine) GetStats() types.CacheStats {
	var stats types.CacheStats
	e.run(func() {
		e.collector.UpdateCacheInfo(len(e.store), e.memoryUsage, e.config.MaxMemoryBytes)
		stats = e.collector.Stats()
	})

	return stats
}

// GetMetrics returns current stats plus history, trends and peaks.
func (e *Engine) GetMetrics() types.CacheMetrics {
	var m types.CacheMetrics
	e.run(func() {
		e.collector.UpdateCacheInfo(len(e.store), e.memoryUsage, e.config.MaxMemoryBytes)
		m = e.collector.GetMetrics()
	})

	return m
}

// HealthCheck runs the performance analyzer over the current metrics.
func (e *Engine) HealthCheck() types.HealthStatus {
	analysis := metrics.Analyze(e.GetMetrics())

	return types.HealthStatus{
		Healthy:         analysis.Score >= healthyScore,
		Score:           analysis.Score,
		Issues:          analysis.Issues,
		Recommendations: analysis.Recommendations,
	}
}

// Report renders the current metrics and analysis as human-readable text.
func (e *Engine) Report() string {
	m := e.GetMetrics()
	return metrics.Report(m, metrics.Analyze(m))
}

// LatencyPercentile returns the p-th access-latency percentile in
// milliseconds.
func (e *Engine) LatencyPercentile(p float64) float64 {
	return e.collector.Percentile(p)
}

// AddEventListener registers a listener for one event type and returns a
// removal handle.
func (e *Engine) AddEventListener(eventType types.EventType, listener types.EventListener) string {
	return e.dispatcher.add(eventType, listener)
}

func (e *Engine) RemoveEventListener(eventType types.EventType, id string) bool {
	return e.dispatcher.remove(eventType, id)
}

// run executes fn under the exclusion gate when thread safety is enabled,
// directly otherwise.
func (e *Engine) run(fn func()) {
	if !e.config.ThreadSafe {
		fn()
		return
	}

	_ = e.gate.RunExclusive(func() error {
		fn()
		return nil
	})
}

func (e *Engine) getLocked(key string, start time.Time) (interface{}, bool) {
	entry, exists := e.store[key]
	if !exists {
		e.emit(types.CacheEvent{
			Type:      types.EventMiss,
			Key:       key,
			Timestamp: time.Now(),
			Metadata:  types.EventMetadata{Latency: time.Since(start)},
		})
		return nil, false
	}

	if entry.Expired(time.Now()) {
		e.removeEntryLocked(key)
		e.emit(types.CacheEvent{
			Type:      types.EventMiss,
			Key:       key,
			Timestamp: time.Now(),
			Metadata: types.EventMetadata{
				Latency: time.Since(start),
				Reason:  "expired",
				Expired: true,
			},
		})
		return nil, false
	}

	e.policy.OnAccess(entry)
	e.emit(types.CacheEvent{
		Type:      types.EventHit,
		Key:       key,
		Value:     entry.Value,
		Timestamp: time.Now(),
		Metadata:  types.EventMetadata{Latency: time.Since(start)},
	})

	return entry.Value, true
}

func (e *Engine) setLocked(key string, value interface{}, ttl time.Duration, start time.Time) {
	size := utils.EstimateSize(value)

	e.ensureMemoryHeadroom(key, size)

	if _, replacing := e.store[key]; !replacing && len(e.store) >= e.config.MaxSize {
		e.evictOne()
	}

	now := time.Now()
	entry := &types.CacheEntry{
		Key:            key,
		Value:          value,
		CreatedAt:      now,
		TTL:            ttl,
		SizeBytes:      size,
		InsertionOrder: e.insertionCounter,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	e.insertionCounter++

	e.policy.OnInsert(entry)

	if old, exists := e.store[key]; exists {
		e.memoryUsage -= old.SizeBytes
	}
	e.store[key] = entry
	e.memoryUsage += size

	e.emit(types.CacheEvent{
		Type:      types.EventSet,
		Key:       key,
		Value:     value,
		Timestamp: now,
		Metadata:  types.EventMetadata{Latency: time.Since(start)},
	})
}

// ensureMemoryHeadroom evicts per the active policy until the incoming bytes
// for key fit the budget or eviction is exhausted. The projection reads the
// live store so a replaced entry's bytes count as reclaimed exactly once;
// the replaced key itself is never an eviction candidate, since evicting it
// frees nothing the replacement does not already reclaim. Exhaustion degrades
// to a memory-pressure event and the insert proceeds anyway; an oversized
// single entry may transiently exceed the budget.
func (e *Engine) ensureMemoryHeadroom(key string, incoming int64) {
	limit := e.config.MaxMemoryBytes
	if limit <= 0 {
		return
	}

	projected := func() int64 {
		usage := e.memoryUsage + incoming
		if old, replacing := e.store[key]; replacing {
			usage -= old.SizeBytes
		}
		return usage
	}

	for projected() > limit {
		candidates := e.policy.SelectEvictionCandidates(e.store, evictionBatch)
		strategy := e.policy.Strategy()

		if len(candidates) == 0 && e.fallback != nil {
			candidates = e.fallback.SelectEvictionCandidates(e.store, evictionBatch)
			strategy = e.fallback.Strategy()
		}

		evicted := 0
		for _, candidate := range candidates {
			if candidate == key {
				continue
			}
			if projected() <= limit {
				break
			}
			e.evictKey(candidate, strategy, "memory pressure")
			evicted++
		}
		if evicted == 0 {
			break
		}
	}

	if projected() > limit {
		e.logger.Warn("Memory budget exceeded after eviction, admitting entry anyway",
			zap.Int64("incoming_bytes", incoming),
			zap.Int64("memory_usage", e.memoryUsage),
			zap.Int64("max_memory_bytes", limit))
		e.emit(types.CacheEvent{
			Type:      types.EventMemoryPressure,
			Timestamp: time.Now(),
			Metadata:  types.EventMetadata{Reason: "eviction exhausted"},
		})
	}
}

func (e *Engine) evictOne() {
	candidates := e.policy.SelectEvictionCandidates(e.store, 1)
	strategy := e.policy.Strategy()

	if len(candidates) == 0 && e.fallback != nil {
		candidates = e.fallback.SelectEvictionCandidates(e.store, 1)
		strategy = e.fallback.Strategy()
	}
	if len(candidates) == 0 {
		return
	}

	e.evictKey(candidates[0], strategy, "capacity")
}

func (e *Engine) evictKey(key, strategy, reason string) {
	entry := e.removeEntryLocked(key)
	if entry == nil {
		return
	}

	e.emit(types.CacheEvent{
		Type:      types.EventEviction,
		Key:       key,
		Value:     entry.Value,
		Timestamp: time.Now(),
		Metadata: types.EventMetadata{
			Strategy: strategy,
			Reason:   reason,
		},
	})
}

func (e *Engine) removeEntryLocked(key string) *types.CacheEntry {
	entry, exists := e.store[key]
	if !exists {
		return nil
	}

	delete(e.store, key)
	e.memoryUsage -= entry.SizeBytes

	return entry
}

// emit routes an event to the collector and the registered listeners.
// Neither may fail the triggering operation.
func (e *Engine) emit(event types.CacheEvent) {
	if e.config.EnableMetrics {
		e.collector.RecordEvent(event)
	}
	e.dispatcher.dispatch(event)
}

func (e *Engine) takeSnapshot() {
	e.run(func() {
		e.collector.UpdateCacheInfo(len(e.store), e.memoryUsage, e.config.MaxMemoryBytes)
		e.collector.TakeSnapshot()
		e.emit(types.CacheEvent{
			Type:      types.EventStatsUpdate,
			Timestamp: time.Now(),
		})
	})
}

func (e *Engine) getState() State {
	return e.state.Load().(State)
}

func (e *Engine) setState(newState State) bool {
	currentState := e.getState()
	return e.state.CompareAndSwap(currentState, newState)
}

func (e *Engine) transitionState(from, to State) bool {
	return e.state.CompareAndSwap(from, to)
}
