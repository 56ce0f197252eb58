package eviction

import (
	"sort"

	"github.com/saiset-co/sai-cache/types"
)

// FIFO evicts entries in insertion order, regardless of access pattern.
type FIFO struct {
	hooks
}

func NewFIFO() *FIFO {
	return &FIFO{}
}

func (*FIFO) Strategy() string {
	return types.StrategyFIFO
}

func (*FIFO) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	ordered := snapshot(entries)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].entry.InsertionOrder < ordered[j].entry.InsertionOrder
	})

	return takeKeys(ordered, targetCount)
}
