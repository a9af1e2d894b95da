package event

import "sync"

// Queue holds events for deferred dispatch.
//
// Post clones every event so that a borrowed payload never outlives the
// dispatch it came from. Post is safe from any goroutine; Flush runs the
// queued events on the caller's goroutine.
type Queue struct {
	mu      sync.Mutex
	pending []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post queues an owned copy of evt.
func (q *Queue) Post(evt Event) {
	owned := evt.Clone()

	q.mu.Lock()
	q.pending = append(q.pending, owned)
	q.mu.Unlock()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush dispatches the events queued so far in FIFO order. Events posted
// while flushing wait for the next Flush. Every event is attempted; the
// first failure is returned.
func (q *Queue) Flush(d *Dispatcher) error {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	var first error
	for _, evt := range batch {
		if err := d.Dispatch(evt); err != nil && first == nil {
			first = err
		}
	}
	return first
}
