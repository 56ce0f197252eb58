package types

import (
	"time"
)

type EventType string

const (
	EventHit            EventType = "hit"
	EventMiss           EventType = "miss"
	EventSet            EventType = "set"
	EventDelete         EventType = "delete"
	EventClear          EventType = "clear"
	EventEviction       EventType = "eviction"
	EventExpiration     EventType = "expiration"
	EventMemoryPressure EventType = "memory-pressure"
	EventStatsUpdate    EventType = "stats-update"
)

// EventMetadata carries per-event context consumed by the metrics collector
// and listeners.
type EventMetadata struct {
	Strategy string        `json:"strategy,omitempty"`
	Latency  time.Duration `json:"latency,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Expired  bool          `json:"expired,omitempty"`
}

// CacheEvent is produced and consumed synchronously within the triggering
// operation; it is never persisted.
type CacheEvent struct {
	Type      EventType     `json:"type"`
	Key       string        `json:"key,omitempty"`
	Value     interface{}   `json:"value,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  EventMetadata `json:"metadata"`
}

// EventListener observes cache events. Panics inside a listener are recovered
// at the dispatch site and logged; they never abort the cache operation.
type EventListener func(event CacheEvent)
