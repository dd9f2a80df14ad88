package popup

import "fmt"

// Selection tracks the highlighted row. Index 0 is the control row,
// 1..count are item rows. The index is clamped on every mutation; an
// index outside [0,count] can only be produced by a bug, so it panics
// rather than being papered over.
type Selection struct {
	index int
	count int
}

// NewSelection returns a selection over n items, resting on the first
// item when one exists and on the control row otherwise.
func NewSelection(n int) Selection {
	s := Selection{count: n}
	if n > 0 {
		s.index = 1
	}
	return s
}

// Index returns the current selection index.
func (s *Selection) Index() int {
	s.check()
	return s.index
}

// Count returns the number of item rows the selection ranges over.
func (s *Selection) Count() int {
	return s.count
}

// Move shifts the selection by delta, clamped to [0,count], and
// reports whether the index changed.
func (s *Selection) Move(delta int) bool {
	old := s.index
	s.index = clampIndex(s.index+delta, s.count)
	s.check()
	return s.index != old
}

// Hover sets the selection to pos unconditionally, reporting whether
// it changed. Out-of-range positions are clamped.
func (s *Selection) Hover(pos int) bool {
	old := s.index
	s.index = clampIndex(pos, s.count)
	s.check()
	return s.index != old
}

// Click sets the selection to pos; confirmation is triggered by the
// caller afterwards.
func (s *Selection) Click(pos int) bool {
	return s.Hover(pos)
}

// Resize applies the structural-change rule after the item count
// changes to newN: an emptied list lands on the control row, a
// selection past the new end sticks to the new last item, and anything
// else stays at the same index.
func (s *Selection) Resize(newN int) {
	switch {
	case newN <= 0:
		s.index = 0
	case s.index-1 >= newN:
		s.index = newN
	}
	s.count = newN
	s.check()
}

func clampIndex(idx, count int) int {
	if idx < 0 {
		return 0
	}
	if idx > count {
		return count
	}
	return idx
}

// check enforces the selection invariant. Reaching this panic means a
// mutation path skipped clamping.
func (s *Selection) check() {
	if s.index < 0 || s.index > s.count {
		panic(fmt.Sprintf("popup: selection index %d outside [0,%d]", s.index, s.count))
	}
}
