package popup

import "testing"

func TestEnqueueRejectsDuplicatePositions(t *testing.T) {
	s := NewSequencer()
	if !s.Enqueue(Request{Position: 2}) {
		t.Fatalf("expected first enqueue to be accepted")
	}
	if s.Enqueue(Request{Position: 2}) {
		t.Fatalf("expected duplicate enqueue to be rejected")
	}
	if got := s.QueueLen(); got != 1 {
		t.Fatalf("expected queue length 1, got %d", got)
	}
}

func TestBeginProcessesFIFOWithRenumbering(t *testing.T) {
	s := NewSequencer()
	for _, pos := range []int{5, 2, 8} {
		if !s.Enqueue(Request{Position: pos}) {
			t.Fatalf("expected enqueue of %d to be accepted", pos)
		}
	}

	req, token, ok := s.Begin(10)
	if !ok || req.Position != 5 {
		t.Fatalf("expected to process position 5 first, got %+v ok=%v", req, ok)
	}
	s.Renumber(req.Position)
	if got := s.QueuedPositions(); len(got) != 2 || got[0] != 2 || got[1] != 7 {
		t.Fatalf("expected renumbered queue [2 7], got %v", got)
	}

	if _, _, busy := s.Begin(9); busy {
		t.Fatalf("expected Begin to refuse while in flight")
	}
	if !s.Finish(token) {
		t.Fatalf("expected finish to accept the live token")
	}

	req, token, ok = s.Begin(9)
	if !ok || req.Position != 2 {
		t.Fatalf("expected to process position 2 next, got %+v ok=%v", req, ok)
	}
	s.Renumber(req.Position)
	s.Finish(token)

	req, token, ok = s.Begin(8)
	if !ok || req.Position != 6 {
		t.Fatalf("expected to process renumbered position 6, got %+v ok=%v", req, ok)
	}
	s.Finish(token)
	if s.QueueLen() != 0 {
		t.Fatalf("expected drained queue, got %d", s.QueueLen())
	}
}

func TestBeginDropsOutOfRangePositions(t *testing.T) {
	s := NewSequencer()
	s.Enqueue(Request{Position: 5})
	s.Enqueue(Request{Position: 1})

	req, _, ok := s.Begin(3)
	if !ok || req.Position != 1 {
		t.Fatalf("expected out-of-range head to be dropped, got %+v ok=%v", req, ok)
	}
}

func TestBeginExhaustedQueueStaysIdle(t *testing.T) {
	s := NewSequencer()
	s.Enqueue(Request{Position: 9})
	if _, _, ok := s.Begin(3); ok {
		t.Fatalf("expected no processable request")
	}
	if !s.Idle() {
		t.Fatalf("expected sequencer to stay idle after dropping everything")
	}
}

func TestFinishIgnoresStaleToken(t *testing.T) {
	s := NewSequencer()
	s.Enqueue(Request{Position: 0})
	_, token, ok := s.Begin(1)
	if !ok {
		t.Fatalf("expected Begin to succeed")
	}
	s.Cancel()
	if s.Finish(token) {
		t.Fatalf("expected cancelled token to be stale")
	}
	if !s.Idle() {
		t.Fatalf("expected idle after cancel")
	}
}

func TestCancelDropsQueuedRequests(t *testing.T) {
	s := NewSequencer()
	s.Enqueue(Request{Position: 0})
	s.Enqueue(Request{Position: 1})
	s.Cancel()
	if s.QueueLen() != 0 {
		t.Fatalf("expected empty queue after cancel, got %d", s.QueueLen())
	}
	if s.Pending(0) || s.Pending(1) {
		t.Fatalf("expected pending set cleared after cancel")
	}
}
