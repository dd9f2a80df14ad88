package popup

// Request is a queued deletion. It carries the item's position as it
// was when the request entered the queue; the queue renumbers it after
// every completed removal so it always indexes the current list. The
// request never holds a reference into the list itself.
type Request struct {
	// Position is the 0-based index into the visible list.
	Position int
	// Notify, when set, is invoked with the pre-mutation position at
	// processing time so the authoritative store can drop the item.
	Notify func(position int)
	// ExternalID identifies the item for diagnostics.
	ExternalID string
}

// queue is the FIFO of pending deletions plus the set of positions
// already queued, used to reject duplicate submissions.
type queue struct {
	requests []Request
	pending  map[int]struct{}
}

func newQueue() *queue {
	return &queue{pending: make(map[int]struct{})}
}

// push appends a request unless its position is already pending.
func (q *queue) push(req Request) bool {
	if _, dup := q.pending[req.Position]; dup {
		return false
	}
	q.requests = append(q.requests, req)
	q.pending[req.Position] = struct{}{}
	return true
}

// pop removes and returns the head request, unmarking its position.
func (q *queue) pop() (Request, bool) {
	if len(q.requests) == 0 {
		return Request{}, false
	}
	head := q.requests[0]
	q.requests = q.requests[1:]
	delete(q.pending, head.Position)
	return head, true
}

// renumber shifts every queued position above the removed index down
// by one, keeping queued requests valid against the mutated list. The
// pending set is rebuilt to match.
func (q *queue) renumber(removed int) {
	for i := range q.requests {
		if q.requests[i].Position > removed {
			q.requests[i].Position--
		}
	}
	rebuilt := make(map[int]struct{}, len(q.requests))
	for _, req := range q.requests {
		rebuilt[req.Position] = struct{}{}
	}
	q.pending = rebuilt
}

func (q *queue) clear() {
	q.requests = nil
	q.pending = make(map[int]struct{})
}

func (q *queue) len() int {
	return len(q.requests)
}

// positions returns the queued positions in FIFO order, for tracing
// and tests.
func (q *queue) positions() []int {
	out := make([]int, len(q.requests))
	for i, req := range q.requests {
		out[i] = req.Position
	}
	return out
}
