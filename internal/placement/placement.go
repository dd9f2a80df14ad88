// Package placement decides where the popup appears relative to the
// anchor element, across one or more screens.
//
// Anchor rectangles arrive in top-left-origin coordinates (y grows
// downward from the top of the primary screen). Screen rectangles and
// the returned position use bottom-left-origin coordinates (y grows
// upward from the bottom of the primary screen). Conversion between
// the two uses the primary screen's total height.
package placement

// Gap separates the popup from the anchor element, in the same units
// as the supplied rectangles.
const Gap = 6

// Rect is an axis-aligned rectangle.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenterX returns the horizontal midpoint of the rectangle.
func (r Rect) CenterX() float64 {
	return r.X + r.Width/2
}

// Screen describes one display in the topology. Frame is the full
// bounds, Visible the region available to windows (excluding docks,
// menu bars and the like). Both are bottom-left-origin.
type Screen struct {
	Frame   Rect
	Visible Rect
}

// Position is the computed show position for the popup.
type Position struct {
	// AnchorX is the horizontal center the popup should align to.
	AnchorX float64
	// Y is the bottom edge of the popup in bottom-left-origin units.
	Y float64
	// Above reports whether the popup opens above the anchor; it
	// drives the entry animation direction.
	Above bool
}

// SingleScreen builds a one-display topology of the given size, with
// the full frame visible. The terminal build uses this with the
// viewport dimensions.
func SingleScreen(width, height float64) []Screen {
	r := Rect{Width: width, Height: height}
	return []Screen{{Frame: r, Visible: r}}
}

// Place computes where to show a popup of the given height so that it
// sits just below the anchor element, or above it when there is no
// room below, clamped to the target screen when neither side fits.
//
// elem is the anchor rectangle in top-left-origin coordinates. The
// first screen is the primary and defines the coordinate conversion.
// Place never fails: with an empty topology it falls back to a fixed
// origin, and an off-screen result is clamped rather than rejected.
func Place(elem Rect, popupHeight float64, screens []Screen) Position {
	if len(screens) == 0 {
		return Position{AnchorX: 100, Y: 100, Above: false}
	}

	primaryHeight := screens[0].Frame.Height
	elemTop := primaryHeight - elem.Y
	elemBottom := primaryHeight - (elem.Y + elem.Height)
	centerX := elem.CenterX()

	target := targetScreen(screens, centerX, elemBottom)
	visible := target.Visible
	minY := visible.Y
	maxY := visible.Y + visible.Height

	below := elemBottom - Gap - popupHeight
	above := elemTop + Gap

	fitsBelow := below >= minY
	fitsAbove := above+popupHeight <= maxY

	switch {
	case fitsBelow:
		return Position{AnchorX: centerX, Y: below, Above: false}
	case fitsAbove:
		return Position{AnchorX: centerX, Y: above, Above: true}
	}

	// Neither side fits fully; take whichever has more room and clamp
	// to the screen edge.
	spaceBelow := elemBottom - minY
	spaceAbove := maxY - elemTop
	if spaceAbove > spaceBelow {
		y := above
		if y+popupHeight > maxY {
			y = maxY - popupHeight
		}
		return Position{AnchorX: centerX, Y: y, Above: true}
	}
	y := below
	if y < minY {
		y = minY
	}
	return Position{AnchorX: centerX, Y: y, Above: false}
}

// targetScreen picks the first screen whose visible rect contains the
// anchor; the primary screen is the fallback.
func targetScreen(screens []Screen, centerX, bottom float64) Screen {
	for _, s := range screens {
		v := s.Visible
		if centerX >= v.X && centerX <= v.X+v.Width &&
			bottom >= v.Y && bottom <= v.Y+v.Height {
			return s
		}
	}
	return screens[0]
}
