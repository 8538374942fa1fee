package dispatch

import (
	"sync"
	"transit/application/dispatch"
)

// InlineQueue runs tasks on the dispatching goroutine. A task dispatched while
// another is running (from inside it or from another goroutine) is appended and
// run by the goroutine already draining, so tasks never nest and keep FIFO order.
// Tests use it to make completions deterministic.
type InlineQueue struct {
	mu       sync.Mutex
	tasks    []func()
	draining bool
}

func NewInlineQueue() dispatch.Queue {
	return &InlineQueue{}
}

func (q *InlineQueue) Dispatch(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if q.draining {
		q.mu.Unlock()
		return
	}
	q.draining = true
	for len(q.tasks) > 0 {
		next := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		next()
		q.mu.Lock()
	}
	q.draining = false
	q.mu.Unlock()
}
