package popup

import (
	"testing"
	"time"
)

func TestTweenReturnsTargetExactlyPastDuration(t *testing.T) {
	tw := Tween{From: 10, To: 4, Duration: 200 * time.Millisecond}
	if got := tw.At(time.Second, EaseOutQuad); got != 4 {
		t.Fatalf("expected exact target past duration, got %v", got)
	}
	if got := tw.At(0, EaseOutQuad); got != 10 {
		t.Fatalf("expected start value at zero, got %v", got)
	}
	if !tw.Done(200 * time.Millisecond) {
		t.Fatalf("expected tween done at its duration")
	}
}

func TestZeroDurationTweenIsInstant(t *testing.T) {
	tw := Tween{From: 1, To: 2}
	if got := tw.At(0, nil); got != 2 {
		t.Fatalf("expected instant tween to land on target, got %v", got)
	}
}

func TestEasingEndpoints(t *testing.T) {
	for _, ease := range []Easing{EaseOutQuad, EaseInQuad, Linear} {
		if got := ease(0); got != 0 {
			t.Fatalf("expected easing to start at 0, got %v", got)
		}
		if got := ease(1); got != 1 {
			t.Fatalf("expected easing to end at 1, got %v", got)
		}
		if got := ease(2); got != 1 {
			t.Fatalf("expected easing clamp past 1, got %v", got)
		}
	}
}

func TestRectTweenInterpolatesAllComponents(t *testing.T) {
	rt := RectTween{
		From:     Rect{X: 0, Y: 0, Width: 10, Height: 2},
		To:       Rect{X: 4, Y: 8, Width: 10, Height: 2},
		Duration: 100 * time.Millisecond,
	}
	mid := rt.At(50*time.Millisecond, Linear)
	if mid.X != 2 || mid.Y != 4 {
		t.Fatalf("expected midpoint (2,4), got (%v,%v)", mid.X, mid.Y)
	}
	end := rt.At(time.Second, EaseOutQuad)
	if end != rt.To {
		t.Fatalf("expected final rect to equal target, got %#v", end)
	}
}
