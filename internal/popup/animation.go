package popup

import "time"

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// EaseOutQuad decelerates toward the target; selection glides and row
// shifts use it.
func EaseOutQuad(t float64) float64 {
	t = clamp01(t)
	return 1 - (1-t)*(1-t)
}

// EaseInQuad accelerates away; the hide fade uses it.
func EaseInQuad(t float64) float64 {
	t = clamp01(t)
	return t * t
}

// Linear passes progress through unchanged.
func Linear(t float64) float64 {
	return clamp01(t)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Tween interpolates a scalar over a fixed duration.
type Tween struct {
	From     float64
	To       float64
	Duration time.Duration
}

// At returns the eased value after elapsed time. Past the duration it
// returns To exactly, so a finished tween agrees with the final
// layout.
func (tw Tween) At(elapsed time.Duration, ease Easing) float64 {
	p := tw.progress(elapsed)
	if ease != nil {
		p = ease(p)
	}
	return tw.From + (tw.To-tw.From)*p
}

// Done reports whether the tween has run its full duration.
func (tw Tween) Done(elapsed time.Duration) bool {
	return elapsed >= tw.Duration
}

func (tw Tween) progress(elapsed time.Duration) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	return clamp01(float64(elapsed) / float64(tw.Duration))
}

// RectTween interpolates a rectangle; the highlight overlay glide is a
// rect tween between the source and destination row geometry.
type RectTween struct {
	From     Rect
	To       Rect
	Duration time.Duration
}

// At returns the eased rectangle after elapsed time.
func (rt RectTween) At(elapsed time.Duration, ease Easing) Rect {
	x := Tween{From: rt.From.X, To: rt.To.X, Duration: rt.Duration}
	y := Tween{From: rt.From.Y, To: rt.To.Y, Duration: rt.Duration}
	w := Tween{From: rt.From.Width, To: rt.To.Width, Duration: rt.Duration}
	h := Tween{From: rt.From.Height, To: rt.To.Height, Duration: rt.Duration}
	return Rect{
		X:      x.At(elapsed, ease),
		Y:      y.At(elapsed, ease),
		Width:  w.At(elapsed, ease),
		Height: h.At(elapsed, ease),
	}
}

// Done reports whether the glide has finished.
func (rt RectTween) Done(elapsed time.Duration) bool {
	return elapsed >= rt.Duration
}
