package types

// Eviction strategy names understood by the default registry.
const (
	StrategyLRU      = "lru"
	StrategyLFU      = "lfu"
	StrategyFIFO     = "fifo"
	StrategyTTL      = "ttl"
	StrategyRandom   = "random"
	StrategyAdaptive = "adaptive"
)

// EvictionPolicy selects eviction candidates and maintains per-entry access
// bookkeeping. SelectEvictionCandidates must be pure over the entry snapshot:
// no mutation, no retained references. It returns fewer than targetCount keys
// only when the entry set is smaller.
type EvictionPolicy interface {
	Strategy() string
	SelectEvictionCandidates(entries map[string]*CacheEntry, targetCount int) []string
	OnAccess(entry *CacheEntry)
	OnInsert(entry *CacheEntry)
}
