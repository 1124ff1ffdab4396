package proxied

import "sync"

// Queue is the worklist shared by every Store bound to it. It collects
// pending deliveries during a notification burst and is drained, oldest
// first, by the round that found it empty (the flush owner). Rounds started
// while a drain is in progress append to the same worklist and return.
//
// Slice access is serialized, but the delivery protocol assumes one
// goroutine drives all stores bound to a queue. Stores used from different
// goroutines should be given separate queues with WithQueue.
type Queue struct {
	mu      sync.Mutex
	entries []queueEntry
}

type queueEntry struct {
	subscriber *subscription
	handle     *Handle
}

var defaultQueue = NewQueue()

// NewQueue returns an isolated queue.
func NewQueue() *Queue {
	return &Queue{}
}

// DefaultQueue returns the process-wide queue used by stores that were not
// configured with WithQueue.
func DefaultQueue() *Queue {
	return defaultQueue
}

// Len reports the number of pending deliveries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) idle() bool {
	return q.Len() == 0
}

func (q *Queue) enqueue(subscriber *subscription, handle *Handle) {
	q.mu.Lock()
	q.entries = append(q.entries, queueEntry{subscriber: subscriber, handle: handle})
	q.mu.Unlock()
}

// flush drains the queue in FIFO order, picking up entries appended by
// nested rounds, and leaves it empty even when a deliver callback panics.
// It returns the number of deliveries made.
func (q *Queue) flush() int {
	defer q.reset()

	delivered := 0
	for {
		entry, ok := q.at(delivered)
		if !ok {
			return delivered
		}
		entry.subscriber.deliver(entry.handle)
		delivered++
	}
}

func (q *Queue) at(index int) (queueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if index >= len(q.entries) {
		return queueEntry{}, false
	}
	return q.entries[index], true
}

func (q *Queue) reset() {
	q.mu.Lock()
	clear(q.entries)
	q.entries = q.entries[:0]
	q.mu.Unlock()
}
