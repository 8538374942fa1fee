package dispatch

import (
	"sync"
	"transit/application/dispatch"
)

// SerialQueue runs tasks one at a time on a background goroutine, in Dispatch order.
// The goroutine exists only while there is work, so an idle queue holds no resources
// and needs no Close.
type SerialQueue struct {
	mu      sync.Mutex
	tasks   []func()
	running bool
	idle    *sync.Cond
}

func NewSerialQueue() dispatch.Queue {
	return newSerialQueue()
}

func newSerialQueue() *SerialQueue {
	q := &SerialQueue{}
	q.idle = sync.NewCond(&q.mu)
	return q
}

func (q *SerialQueue) Dispatch(task func()) {
	if task == nil {
		return
	}
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	if !q.running {
		q.running = true
		go q.drain()
	}
	q.mu.Unlock()
}

func (q *SerialQueue) drain() {
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.running = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// Wait blocks until every task dispatched so far has run.
func (q *SerialQueue) Wait() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.running {
		q.idle.Wait()
	}
}
