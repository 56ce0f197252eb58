package cache

// Gate is a single-slot exclusive-execution primitive. At most one operation
// runs at a time; goroutines blocked on the slot are woken in FIFO order by
// the runtime's channel wait queue, so submissions execute in arrival order.
type Gate struct {
	slot chan struct{}
}

func NewGate() *Gate {
	return &Gate{slot: make(chan struct{}, 1)}
}

// RunExclusive executes fn while holding the slot, propagating its result.
// The slot is released on return or panic so queued operations always run.
func (g *Gate) RunExclusive(fn func() error) error {
	g.slot <- struct{}{}
	defer func() { <-g.slot }()

	return fn()
}
