package eviction

import (
	"sort"
	"time"

	"github.com/saiset-co/sai-cache/types"
)

// TTL evicts already-expired entries first, earliest deadline first, and
// falls back to LRU order among live entries for the remainder.
type TTL struct {
	hooks
}

func NewTTL() *TTL {
	return &TTL{}
}

func (*TTL) Strategy() string {
	return types.StrategyTTL
}

func (*TTL) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	now := time.Now()

	var expired, live []keyedEntry
	for key, entry := range entries {
		if entry.Expired(now) {
			expired = append(expired, keyedEntry{key: key, entry: entry})
		} else {
			live = append(live, keyedEntry{key: key, entry: entry})
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].entry.ExpiresAt.Before(expired[j].entry.ExpiresAt)
	})
	byLastAccessed(live)

	return takeKeys(append(expired, live...), targetCount)
}
