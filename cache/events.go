package cache

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saiset-co/sai-cache/types"
)

// dispatcher keeps one listener set per event type. Listeners run
// synchronously inside the triggering operation; a panicking listener is
// recovered and logged without affecting the operation or other listeners.
type dispatcher struct {
	logger    types.Logger
	mu        sync.RWMutex
	listeners map[types.EventType]map[string]types.EventListener
}

func newDispatcher(logger types.Logger) *dispatcher {
	return &dispatcher{
		logger:    logger,
		listeners: make(map[types.EventType]map[string]types.EventListener),
	}
}

func (d *dispatcher) add(eventType types.EventType, listener types.EventListener) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.listeners[eventType] == nil {
		d.listeners[eventType] = make(map[string]types.EventListener)
	}

	id := uuid.NewString()
	d.listeners[eventType][id] = listener

	return id
}

func (d *dispatcher) remove(eventType types.EventType, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	set, exists := d.listeners[eventType]
	if !exists {
		return false
	}

	if _, exists := set[id]; !exists {
		return false
	}

	delete(set, id)
	return true
}

func (d *dispatcher) dispatch(event types.CacheEvent) {
	d.mu.RLock()
	set := d.listeners[event.Type]
	snapshot := make([]types.EventListener, 0, len(set))
	for _, listener := range set {
		snapshot = append(snapshot, listener)
	}
	d.mu.RUnlock()

	for _, listener := range snapshot {
		d.invoke(listener, event)
	}
}

func (d *dispatcher) invoke(listener types.EventListener, event types.CacheEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Cache event listener panicked",
				zap.String("event_type", string(event.Type)),
				zap.String("key", event.Key),
				zap.Any("panic", r))
		}
	}()

	listener(event)
}
