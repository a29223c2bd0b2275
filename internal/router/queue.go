package router

import "sync"

// deliveryQueue serializes deliveries to one recipient. Each live
// connection owns a queue, so two recipients of the same send proceed
// concurrently while one recipient's messages keep the order their
// sends were accepted in.
type deliveryQueue struct {
	mu     sync.Mutex
	closed bool
	tasks  chan func()
	done   chan struct{}
}

func newDeliveryQueue(size int) *deliveryQueue {
	q := &deliveryQueue{
		tasks: make(chan func(), size),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *deliveryQueue) run() {
	defer close(q.done)
	for task := range q.tasks {
		task()
	}
}

// enqueue returns false when the queue is closed or full. A full queue
// drops the delivery rather than stalling the sender's read pump.
func (q *deliveryQueue) enqueue(task func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

func (q *deliveryQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.tasks)
}

// wait blocks until all queued tasks have run.
func (q *deliveryQueue) wait() {
	<-q.done
}
