package backend

import (
	"sync"
	"time"
)

// throttle enforces a minimum spacing between successive operations,
// shared by the pollers so a slow store cannot pile up reads.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next slot opens, then claims it.
func (t *throttle) wait() {
	if t == nil || t.interval <= 0 {
		return
	}
	for {
		t.mu.Lock()
		remaining := time.Until(t.next)
		if remaining <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		if remaining > t.interval {
			remaining = t.interval
		}
		time.Sleep(remaining)
	}
}
