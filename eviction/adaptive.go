package eviction

import (
	"sync"
	"time"

	"github.com/saiset-co/sai-cache/types"
)

// evaluationWindow is the number of policy operations between access-pattern
// re-evaluations.
const evaluationWindow = 100

// recentAccessWindow bounds what counts as a "recently touched" entry during
// pattern evaluation.
const recentAccessWindow = time.Hour

// Adaptive delegates to one of the concrete policies and periodically
// re-evaluates the access pattern of the entry set to switch delegates:
// high access-count variance favors LFU, a mostly-hot working set favors
// LRU, a cold set favors FIFO, anything else falls back to TTL-first.
type Adaptive struct {
	mu       sync.Mutex
	delegate types.EvictionPolicy
	ops      int
}

func NewAdaptive() *Adaptive {
	return &Adaptive{delegate: NewLRU()}
}

func (*Adaptive) Strategy() string {
	return types.StrategyAdaptive
}

func (a *Adaptive) SelectEvictionCandidates(entries map[string]*types.CacheEntry, targetCount int) []string {
	a.mu.Lock()
	a.ops++
	if a.ops >= evaluationWindow {
		a.ops = 0
		a.delegate = pickDelegate(entries)
	}
	delegate := a.delegate
	a.mu.Unlock()

	return delegate.SelectEvictionCandidates(entries, targetCount)
}

func (a *Adaptive) OnAccess(entry *types.CacheEntry) {
	a.countOp()
	a.current().OnAccess(entry)
}

func (a *Adaptive) OnInsert(entry *types.CacheEntry) {
	a.countOp()
	a.current().OnInsert(entry)
}

// Delegate reports the strategy name currently in effect.
func (a *Adaptive) Delegate() string {
	return a.current().Strategy()
}

func (a *Adaptive) current() types.EvictionPolicy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.delegate
}

func (a *Adaptive) countOp() {
	a.mu.Lock()
	a.ops++
	a.mu.Unlock()
}

func pickDelegate(entries map[string]*types.CacheEntry) types.EvictionPolicy {
	if len(entries) == 0 {
		return NewLRU()
	}

	now := time.Now()
	var sum, recent float64
	for _, entry := range entries {
		sum += float64(entry.AccessCount)
		if now.Sub(entry.LastAccessed) < recentAccessWindow {
			recent++
		}
	}

	n := float64(len(entries))
	mean := sum / n

	var variance float64
	for _, entry := range entries {
		d := float64(entry.AccessCount) - mean
		variance += d * d
	}
	variance /= n

	recentFraction := recent / n

	switch {
	case variance > mean:
		return NewLFU()
	case recentFraction > 0.7:
		return NewLRU()
	case mean < 2:
		return NewFIFO()
	default:
		return NewTTL()
	}
}
