package headless

import (
	"sync"

	"github.com/WilliamVenner/wry/internal/engine"
)

// taskQueue is the UI thread's unbounded FIFO. Producers never block.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
	wake   chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{wake: make(chan struct{}, 1)}
}

func (q *taskQueue) push(f func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return engine.ErrClosed
	}
	q.tasks = append(q.tasks, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// pop removes the oldest task. Tasks pushed while a task runs are seen by the
// next pop, so FIFO order holds across producers.
func (q *taskQueue) pop() (func(), bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil, false
	}
	f := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return f, true
}

func (q *taskQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.tasks = nil
}
