package popup

// Rect is a rectangle in popup-local coordinates: the origin is the
// top-left corner of the popup frame and y grows downward.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Metrics holds the fixed geometry constants the layout is computed
// from. All values are in abstract units; the terminal build supplies
// cell-based metrics via configuration.
type Metrics struct {
	Width            float64
	RowHeight        float64
	ControlRowHeight float64
	Padding          float64
	MaxHeight        float64
}

// DefaultMetrics returns the cell-based metrics used by the terminal
// renderer: two-line item rows under a one-line control row.
func DefaultMetrics() Metrics {
	return Metrics{
		Width:            40,
		RowHeight:        2,
		ControlRowHeight: 1,
		Padding:          1,
		MaxHeight:        20,
	}
}

// ContentHeight returns the full height of the popup content for n
// items: the control row, n item rows, and three padding bands (above
// the control row, between control row and items, below the items).
// With no items only the control-row space remains.
func (m Metrics) ContentHeight(n int) float64 {
	if n <= 0 {
		return m.ControlRowHeight + 2*m.Padding
	}
	return m.RowHeight*float64(n) + m.ControlRowHeight + 3*m.Padding
}

// VisibleHeight caps the content height at the configured maximum.
func (m Metrics) VisibleHeight(n int) float64 {
	h := m.ContentHeight(n)
	if h > m.MaxHeight {
		return m.MaxHeight
	}
	return h
}

// HeightDelta reports how much the visible frame shrinks when the item
// count drops from oldN to newN. Zero when the popup was already at
// its height cap for both counts.
func (m Metrics) HeightDelta(oldN, newN int) float64 {
	return m.VisibleHeight(oldN) - m.VisibleHeight(newN)
}

// ControlRowRect returns the bounds of the control row, which always
// sits at the top of the content.
func (m Metrics) ControlRowRect() Rect {
	return Rect{
		X:      m.Padding,
		Y:      m.Padding,
		Width:  m.Width - 2*m.Padding,
		Height: m.ControlRowHeight,
	}
}

// RowRect returns the bounds of item row i (0-based) in content
// coordinates, before any viewport scrolling is applied. Rows stack
// top-down below the control row.
func (m Metrics) RowRect(i int) Rect {
	return Rect{
		X:      m.Padding,
		Y:      2*m.Padding + m.ControlRowHeight + float64(i)*m.RowHeight,
		Width:  m.Width - 2*m.Padding,
		Height: m.RowHeight,
	}
}

// HighlightRect returns the geometry the shared highlight overlay must
// occupy for a given selection index: the control row at 0, the
// corresponding item row at 1..n.
func (m Metrics) HighlightRect(sel int) Rect {
	if sel <= 0 {
		return m.ControlRowRect()
	}
	return m.RowRect(sel - 1)
}

// MaxVisibleRows returns how many item rows fit inside the visible
// window once the control row and padding are accounted for. Zero when
// the metrics leave no room for items.
func (m Metrics) MaxVisibleRows() int {
	if m.RowHeight <= 0 {
		return 0
	}
	space := m.MaxHeight - m.ControlRowHeight - 3*m.Padding
	if space <= 0 {
		return 0
	}
	return int(space / m.RowHeight)
}

// Viewport tracks which slice of item rows is scrolled into view when
// the content exceeds the visible window.
type Viewport struct {
	Offset int
}

// Reset scrolls back to the top.
func (v *Viewport) Reset() {
	v.Offset = 0
}

// EnsureVisible adjusts the offset so the selected row stays inside a
// window of maxVisible item rows. Selection index 0 (the control row)
// scrolls to the top, matching the original's scroll-to-top on the
// leading rows.
func (v *Viewport) EnsureVisible(sel, n, maxVisible int) {
	if n <= 0 || maxVisible <= 0 {
		v.Offset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.Offset > maxOffset {
		v.Offset = maxOffset
	}
	if v.Offset < 0 {
		v.Offset = 0
	}
	if sel <= 1 {
		v.Offset = 0
		return
	}
	row := sel - 1
	if row < v.Offset {
		v.Offset = row
	}
	upper := v.Offset + maxVisible - 1
	if row > upper {
		v.Offset = row - maxVisible + 1
		if v.Offset > maxOffset {
			v.Offset = maxOffset
		}
		if v.Offset < 0 {
			v.Offset = 0
		}
	}
}
