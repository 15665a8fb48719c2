package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Registry holds the process-wide order counters, exposed on the debug
// endpoint.
type Registry struct {
	OrdersCreated       Counter
	OrderCreateFailures Counter
	Transitions         Counter
	TransitionConflicts Counter
	TransitionsRejected Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"orders_created":        r.OrdersCreated.Load(),
		"order_create_failures": r.OrderCreateFailures.Load(),
		"transitions":           r.Transitions.Load(),
		"transition_conflicts":  r.TransitionConflicts.Load(),
		"transitions_rejected":  r.TransitionsRejected.Load(),
	}
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
