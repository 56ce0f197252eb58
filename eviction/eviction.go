// Package eviction implements the candidate-selection strategies used by the
// cache engine under capacity and memory pressure. Policies are looked up
// through an explicit Registry instead of package-level globals so tests and
// embedders can hold isolated instances.
package eviction

import (
	"sort"
	"sync"
	"time"

	"github.com/saiset-co/sai-cache/types"
)

type Registry struct {
	mu       sync.RWMutex
	policies map[string]types.EvictionPolicy
}

// NewRegistry returns a registry preloaded with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]types.EvictionPolicy),
	}

	r.Register(NewLRU())
	r.Register(NewLFU())
	r.Register(NewFIFO())
	r.Register(NewTTL())
	r.Register(NewRandom())
	r.Register(NewAdaptive())

	return r
}

// Register adds or replaces a policy under its Strategy name.
func (r *Registry) Register(policy types.EvictionPolicy) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.policies[policy.Strategy()] = policy
}

// Get resolves a strategy name. Unknown names are a configuration error.
func (r *Registry) Get(name string) (types.EvictionPolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	policy, exists := r.policies[name]
	if !exists {
		return nil, types.Errorf(types.ErrEvictionStrategyUnknown, "strategy: %s", name)
	}

	return policy, nil
}

// Strategies lists the registered strategy names.
func (r *Registry) Strategies() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.policies))
	for name := range r.policies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// hooks carries the access bookkeeping shared by every built-in policy.
type hooks struct{}

func (hooks) OnAccess(entry *types.CacheEntry) {
	entry.LastAccessed = time.Now()
	entry.AccessCount++
}

func (hooks) OnInsert(entry *types.CacheEntry) {
	entry.LastAccessed = time.Now()
	entry.AccessCount = 1
}

type keyedEntry struct {
	key   string
	entry *types.CacheEntry
}

func snapshot(entries map[string]*types.CacheEntry) []keyedEntry {
	ordered := make([]keyedEntry, 0, len(entries))
	for key, entry := range entries {
		ordered = append(ordered, keyedEntry{key: key, entry: entry})
	}
	return ordered
}

func takeKeys(ordered []keyedEntry, targetCount int) []string {
	if targetCount > len(ordered) {
		targetCount = len(ordered)
	}
	if targetCount <= 0 {
		return nil
	}

	keys := make([]string, 0, targetCount)
	for _, item := range ordered[:targetCount] {
		keys = append(keys, item.key)
	}
	return keys
}

func byLastAccessed(ordered []keyedEntry) {
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].entry.LastAccessed.Before(ordered[j].entry.LastAccessed)
	})
}
