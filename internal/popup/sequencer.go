package popup

import (
	"fmt"
	"time"

	"github.com/clipdeck/clipdeck/internal/logging"
	"github.com/clipdeck/clipdeck/internal/logging/events"
)

// Animation timing shared by the sequencer and the renderer.
const (
	// SelectionEase is how long the highlight overlay glides between
	// rows on a selection change.
	SelectionEase = 150 * time.Millisecond
	// RemovalDuration covers the row-removal choreography.
	RemovalDuration = 200 * time.Millisecond
	// RemovalGrace pads the decoupled completion timer past the visual
	// animation so cleanup never races a final frame.
	RemovalGrace = 50 * time.Millisecond
	// ShowDuration and HideDuration bound the popup entry and exit
	// slides. Hide matches the original's 8 steps of 15ms.
	ShowDuration = 150 * time.Millisecond
	HideDuration = 120 * time.Millisecond
	// EntryOffset is how far the popup slides in from, on the side
	// placement chose.
	EntryOffset = 10.0
)

// Sequencer serializes deletion requests: at most one removal animates
// at a time, requests are processed FIFO, and queued positions are
// renumbered after every completed removal. It owns only queue and
// in-flight state; the list itself belongs to the Controller.
type Sequencer struct {
	q        *queue
	inFlight bool
	token    int
}

// NewSequencer returns an idle sequencer with an empty queue.
func NewSequencer() *Sequencer {
	return &Sequencer{q: newQueue()}
}

// Enqueue submits a deletion for the given position. Duplicate
// positions are ignored and logged. It reports whether the request was
// accepted.
func (s *Sequencer) Enqueue(req Request) bool {
	if !s.q.push(req) {
		events.Queue.Duplicate(req.Position, req.ExternalID)
		return false
	}
	events.Queue.Enqueue(req.Position, req.ExternalID, s.q.len())
	return true
}

// Idle reports whether no removal animation is in flight.
func (s *Sequencer) Idle() bool {
	return !s.inFlight
}

// QueueLen returns the number of queued, unprocessed requests.
func (s *Sequencer) QueueLen() int {
	return s.q.len()
}

// QueuedPositions exposes the queued positions in FIFO order.
func (s *Sequencer) QueuedPositions() []int {
	return s.q.positions()
}

// Pending reports whether a deletion for the position is queued.
func (s *Sequencer) Pending(pos int) bool {
	_, ok := s.q.pending[pos]
	return ok
}

// Begin pops the next processable request and marks the sequencer in
// flight, returning the request and a completion token. Requests whose
// position no longer fits the list (the list was replaced underneath
// them) are dropped and logged; the scan is bounded by the queue
// length. ok is false when the sequencer is already busy or the queue
// is exhausted.
func (s *Sequencer) Begin(listLen int) (req Request, token int, ok bool) {
	if s.inFlight {
		return Request{}, 0, false
	}
	for range s.q.positions() {
		head, popped := s.q.pop()
		if !popped {
			break
		}
		if head.Position < 0 || head.Position >= listLen {
			events.Queue.Drop(head.Position, head.ExternalID, "out of range")
			continue
		}
		s.inFlight = true
		s.token++
		events.Queue.Process(head.Position, head.ExternalID, s.q.len())
		return head, s.token, true
	}
	return Request{}, 0, false
}

// Renumber adjusts queued positions after the element at removed was
// taken out of the list.
func (s *Sequencer) Renumber(removed int) {
	s.q.renumber(removed)
	events.Queue.Renumber(removed, s.q.positions())
}

// Finish clears the in-flight flag for the given token. A stale token
// (from a timer that outlived a Cancel) is ignored.
func (s *Sequencer) Finish(token int) bool {
	if token != s.token {
		events.Queue.StaleToken(token, s.token)
		return false
	}
	s.inFlight = false
	events.Queue.Complete(token)
	return true
}

// Cancel drops all queued requests and any in-flight cycle. Used when
// the list is replaced wholesale or the popup is dismissed; queued
// positions would be meaningless afterwards. Outstanding completion
// timers are invalidated by bumping the token.
func (s *Sequencer) Cancel() {
	n := s.q.len()
	s.q.clear()
	s.inFlight = false
	s.token++
	events.Queue.Clear(n)
}

// guard runs fn, converting a panic into a logged error. Animation
// steps run under it so a rendering failure cannot take down the event
// loop or wedge the queue.
func guard(step string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error(fmt.Errorf("popup: %s panicked: %v", step, r))
		}
	}()
	fn()
}
