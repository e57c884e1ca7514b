package kernel

import "container/heap"

// eventPQ is a container/heap.Interface over Event, ordered by (Time,
// Seq). This is the same shape as a fast-forward bus simulator's event
// priority queue, generalized from a single concrete event struct to the
// Event interface so it can hold any of the five variants.
type eventPQ []Event

func (p eventPQ) Len() int { return len(p) }

func (p eventPQ) Less(i, j int) bool {
	if p[i].When() != p[j].When() {
		return p[i].When() < p[j].When()
	}
	return p[i].Sequence() < p[j].Sequence()
}

func (p eventPQ) Swap(i, j int) { p[i], p[j] = p[j], p[i] }

func (p *eventPQ) Push(x any) { *p = append(*p, x.(Event)) }

func (p *eventPQ) Pop() any {
	old := *p
	n := len(old)
	v := old[n-1]
	old[n-1] = nil
	*p = old[:n-1]
	return v
}

// EventQueue is a min-heap of events keyed by (time, insertion order).
// Pop is the sole source of simulated time advancement.
type EventQueue struct {
	pq       eventPQ
	nextSeq  int64
	lastTime float64
}

// NewEventQueue returns an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{pq: eventPQ{}}
	heap.Init(&q.pq)
	return q
}

// NextSeq returns the sequence number the next Push will assign if the
// caller stamps it in; callers construct their own Base{Time, Seq} so
// this is exposed rather than done implicitly, keeping event
// construction and enqueueing separate.
func (q *EventQueue) NextSeq() int64 {
	s := q.nextSeq
	q.nextSeq++
	return s
}

// Push inserts an event. The caller is responsible for having stamped it
// with a Seq obtained from NextSeq, preserving FIFO order among equal
// Time values.
func (q *EventQueue) Push(e Event) {
	heap.Push(&q.pq, e)
}

// Len reports the number of pending events.
func (q *EventQueue) Len() int { return q.pq.Len() }

// Peek returns the minimum event without removing it.
func (q *EventQueue) Peek() (Event, bool) {
	if q.pq.Len() == 0 {
		return nil, false
	}
	return q.pq[0], true
}

// Pop removes and returns the minimum event, advancing the queue's
// notion of current simulated time to max(current, popped.Time). Calling
// it on an empty queue panics with a runtime index-out-of-range error;
// callers must check Len first.
func (q *EventQueue) Pop() Event {
	e := heap.Pop(&q.pq).(Event)
	if e.When() > q.lastTime {
		q.lastTime = e.When()
	}
	return e
}

// CurrentTime returns the simulated time as of the last Pop (0 before
// the first pop).
func (q *EventQueue) CurrentTime() float64 { return q.lastTime }
