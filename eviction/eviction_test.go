package eviction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiset-co/sai-cache/types"
)

func makeEntry(lastAccessed time.Time, accessCount uint64, insertionOrder uint64) *types.CacheEntry {
	return &types.CacheEntry{
		CreatedAt:      lastAccessed,
		LastAccessed:   lastAccessed,
		AccessCount:    accessCount,
		InsertionOrder: insertionOrder,
	}
}

func TestLRUSelectsOldestAccess(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"a": makeEntry(now.Add(-3*time.Hour), 1, 0),
		"b": makeEntry(now.Add(-1*time.Hour), 1, 1),
		"c": makeEntry(now.Add(-2*time.Hour), 1, 2),
	}

	candidates := NewLRU().SelectEvictionCandidates(entries, 2)

	assert.Equal(t, []string{"a", "c"}, candidates)
}

func TestLFUSelectsLeastFrequent(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"hot":  makeEntry(now, 50, 0),
		"cold": makeEntry(now, 1, 1),
		"warm": makeEntry(now, 10, 2),
	}

	candidates := NewLFU().SelectEvictionCandidates(entries, 2)

	assert.Equal(t, []string{"cold", "warm"}, candidates)
}

func TestLFUTieBreaksByLastAccessed(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"newer": makeEntry(now, 5, 0),
		"older": makeEntry(now.Add(-time.Hour), 5, 1),
	}

	candidates := NewLFU().SelectEvictionCandidates(entries, 1)

	assert.Equal(t, []string{"older"}, candidates)
}

func TestFIFOSelectsByInsertionOrder(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"second": makeEntry(now, 1, 2),
		"first":  makeEntry(now, 1, 1),
		"third":  makeEntry(now, 1, 3),
	}

	candidates := NewFIFO().SelectEvictionCandidates(entries, 2)

	assert.Equal(t, []string{"first", "second"}, candidates)
}

func TestTTLSelectsExpiredFirst(t *testing.T) {
	now := time.Now()

	expired := makeEntry(now, 1, 0)
	expired.TTL = time.Minute
	expired.ExpiresAt = now.Add(-time.Minute)

	live := makeEntry(now.Add(-5*time.Hour), 1, 1)

	fresh := makeEntry(now, 1, 2)
	fresh.TTL = time.Hour
	fresh.ExpiresAt = now.Add(time.Hour)

	entries := map[string]*types.CacheEntry{
		"expired": expired,
		"live":    live,
		"fresh":   fresh,
	}

	candidates := NewTTL().SelectEvictionCandidates(entries, 2)

	require.Len(t, candidates, 2)
	assert.Equal(t, "expired", candidates[0])
	// Remainder is filled in LRU order among the non-expired entries.
	assert.Equal(t, "live", candidates[1])
}

func TestRandomSelectsDistinctKeys(t *testing.T) {
	now := time.Now()
	entries := make(map[string]*types.CacheEntry)
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		entries[key] = makeEntry(now, 1, 0)
	}

	candidates := NewRandom().SelectEvictionCandidates(entries, 3)

	require.Len(t, candidates, 3)
	seen := make(map[string]struct{})
	for _, key := range candidates {
		_, exists := entries[key]
		assert.True(t, exists)
		_, duplicate := seen[key]
		assert.False(t, duplicate)
		seen[key] = struct{}{}
	}
}

func TestSelectionNeverExceedsEntrySet(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"only": makeEntry(now, 1, 0),
	}

	policies := []types.EvictionPolicy{NewLRU(), NewLFU(), NewFIFO(), NewTTL(), NewRandom()}
	for _, policy := range policies {
		candidates := policy.SelectEvictionCandidates(entries, 10)
		assert.Len(t, candidates, 1, "policy %s", policy.Strategy())
	}
}

func TestHooksMaintainAccessBookkeeping(t *testing.T) {
	entry := &types.CacheEntry{}
	policy := NewLRU()

	policy.OnInsert(entry)
	assert.Equal(t, uint64(1), entry.AccessCount)
	assert.False(t, entry.LastAccessed.IsZero())

	before := entry.LastAccessed
	time.Sleep(time.Millisecond)

	policy.OnAccess(entry)
	assert.Equal(t, uint64(2), entry.AccessCount)
	assert.True(t, entry.LastAccessed.After(before))
}

func TestRegistryResolvesBuiltins(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []string{"lru", "lfu", "fifo", "ttl", "random", "adaptive"} {
		policy, err := registry.Get(name)
		require.NoError(t, err)
		assert.Equal(t, name, policy.Strategy())
	}
}

func TestRegistryUnknownStrategyFails(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Get("bogus")

	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEvictionStrategyUnknown)
	assert.Contains(t, err.Error(), "bogus")
}

type constantPolicy struct{ hooks }

func (constantPolicy) Strategy() string { return "constant" }

func (constantPolicy) SelectEvictionCandidates(map[string]*types.CacheEntry, int) []string {
	return nil
}

func TestRegistryRegistersCustomPolicy(t *testing.T) {
	registry := NewRegistry()
	registry.Register(constantPolicy{})

	policy, err := registry.Get("constant")

	require.NoError(t, err)
	assert.Equal(t, "constant", policy.Strategy())
	assert.Contains(t, registry.Strategies(), "constant")
}

func TestAdaptivePicksLFUOnHighVariance(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"a": makeEntry(now, 1, 0),
		"b": makeEntry(now, 1, 1),
		"c": makeEntry(now, 100, 2),
	}

	adaptive := NewAdaptive()
	for i := 0; i < evaluationWindow; i++ {
		adaptive.SelectEvictionCandidates(entries, 1)
	}

	assert.Equal(t, types.StrategyLFU, adaptive.Delegate())
}

func TestAdaptivePicksLRUOnHotWorkingSet(t *testing.T) {
	now := time.Now()
	entries := map[string]*types.CacheEntry{
		"a": makeEntry(now, 1, 0),
		"b": makeEntry(now, 1, 1),
	}

	adaptive := NewAdaptive()
	for i := 0; i < evaluationWindow; i++ {
		adaptive.SelectEvictionCandidates(entries, 1)
	}

	assert.Equal(t, types.StrategyLRU, adaptive.Delegate())
}

func TestAdaptivePicksFIFOOnColdSparseSet(t *testing.T) {
	old := time.Now().Add(-2 * recentAccessWindow)
	entries := map[string]*types.CacheEntry{
		"a": makeEntry(old, 1, 0),
		"b": makeEntry(old, 1, 1),
	}

	adaptive := NewAdaptive()
	for i := 0; i < evaluationWindow; i++ {
		adaptive.SelectEvictionCandidates(entries, 1)
	}

	assert.Equal(t, types.StrategyFIFO, adaptive.Delegate())
}

func TestAdaptivePicksTTLOtherwise(t *testing.T) {
	old := time.Now().Add(-2 * recentAccessWindow)
	entries := map[string]*types.CacheEntry{
		"a": makeEntry(old, 3, 0),
		"b": makeEntry(old, 3, 1),
	}

	adaptive := NewAdaptive()
	for i := 0; i < evaluationWindow; i++ {
		adaptive.SelectEvictionCandidates(entries, 1)
	}

	assert.Equal(t, types.StrategyTTL, adaptive.Delegate())
}
