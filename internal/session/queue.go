package session

import "sync"

// request is one unit of work for the loop. Exactly one of cmd or inspect
// is used. reply is nil for fire-and-forget commands.
type request struct {
	cmd     Command
	inspect func(*Session)
	reply   chan reply
}

type reply struct {
	result Result
	err    error
}

// requestQueue is an unbounded FIFO shared by many producers and the
// loop's single consumer.
//
// The signal channel (buffered, size 1) coalesces wakeups so the consumer
// can wait in a select alongside ctx.Done(). It is closed by Close.
type requestQueue struct {
	mu     sync.Mutex
	items  []request
	closed bool
	signal chan struct{}
}

func newRequestQueue() *requestQueue {
	return &requestQueue{
		items:  make([]request, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends r. Returns false once the queue is closed.
func (q *requestQueue) Enqueue(r request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items = append(q.items, r)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front request without blocking.
func (q *requestQueue) TryDequeue() (request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return request{}, false
	}
	r := q.items[0]
	q.items[0] = request{}
	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}
	return r, true
}

// Wait returns a channel that fires when requests may be available or the
// queue has been closed.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued requests.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether Close has been called.
func (q *requestQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops further enqueues and wakes the consumer.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
