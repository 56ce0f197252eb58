package eviction

import (
	"sort"

	"github.com/saiset-co/sai-cache/types"
)

// LFU evicts the entries with the smallest access count, breaking ties in
// favor of the least recently read entry.
type LFU struct {
	hooks
}

func NewLFU() *LFU {
	return &LFU{}
}

func (*LFU) Strategy() string {
	return types.StrategyLFU
}

func (*LFU) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	ordered := snapshot(entries)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].entry.AccessCount != ordered[j].entry.AccessCount {
			return ordered[i].entry.AccessCount < ordered[j].entry.AccessCount
		}
		return ordered[i].entry.LastAccessed.Before(ordered[j].entry.LastAccessed)
	})

	return takeKeys(ordered, targetCount)
}
