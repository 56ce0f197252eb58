package eviction

import (
	"github.com/saiset-co/sai-cache/types"
)

// LRU evicts the entries that have gone unread for the longest time.
type LRU struct {
	hooks
}

func NewLRU() *LRU {
	return &LRU{}
}

func (*LRU) Strategy() string {
	return types.StrategyLRU
}

func (*LRU) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	ordered := snapshot(entries)
	byLastAccessed(ordered)

	return takeKeys(ordered, targetCount)
}
