package eviction

import (
	"math/rand"

	"github.com/saiset-co/sai-cache/types"
)

// Random evicts a uniform random sample of keys. A partial Fisher-Yates
// shuffle selects targetCount distinct keys without sorting the full set.
type Random struct {
	hooks
}

func NewRandom() *Random {
	return &Random{}
}

func (*Random) Strategy() string {
	return types.StrategyRandom
}

func (*Random) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}

	if targetCount > len(keys) {
		targetCount = len(keys)
	}
	if targetCount <= 0 {
		return nil
	}

	for i := 0; i < targetCount; i++ {
		j := i + rand.Intn(len(keys)-i)
		keys[i], keys[j] = keys[j], keys[i]
	}

	return keys[:targetCount]
}
