package backend

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/internal/history"
)

func openTestStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fakeClipboard swaps the package-level clipboard reader for the test
// and restores it afterwards.
func fakeClipboard(t *testing.T, read func() (string, error)) {
	t.Helper()
	orig := readClipboard
	readClipboard = read
	t.Cleanup(func() { readClipboard = orig })
}

func collectUntil(t *testing.T, w *Watcher, timeout time.Duration, done func(Event) bool) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case evt, ok := <-w.Events():
			if !ok {
				t.Fatalf("event channel closed before expected event")
			}
			if done(evt) {
				return evt
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event")
		}
	}
}

func TestWatcherCapturesNewClipboardContent(t *testing.T) {
	store := openTestStore(t)
	fakeClipboard(t, func() (string, error) { return "captured text", nil })

	w := NewWatcher(store, 10*time.Millisecond, "")
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindCapture && e.Err == nil
	})
	if len(evt.Items) != 1 || evt.Items[0].Content != "captured text" {
		t.Fatalf("expected captured item in refresh, got %v", evt.Items)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 stored item, got %d", n)
	}
}

func TestWatcherIgnoresUnchangedClipboard(t *testing.T) {
	store := openTestStore(t)
	fakeClipboard(t, func() (string, error) { return "steady", nil })

	w := NewWatcher(store, 10*time.Millisecond, "")
	collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindCapture && e.Err == nil
	})
	// Let several poll intervals pass with the same content.
	time.Sleep(100 * time.Millisecond)
	w.Stop()
	w.Wait()

	captures := 0
	for evt := range w.Events() {
		if evt.Kind == KindCapture && evt.Err == nil {
			captures++
		}
	}
	if captures != 0 {
		t.Fatalf("expected no further capture events for unchanged content, got %d", captures)
	}

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected a single stored item, got %d", n)
	}
}

func TestWatcherTracksContentChanges(t *testing.T) {
	store := openTestStore(t)
	var mu sync.Mutex
	content := "one"
	fakeClipboard(t, func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return content, nil
	})

	w := NewWatcher(store, 10*time.Millisecond, "")
	defer func() {
		w.Stop()
		w.Wait()
	}()

	collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindCapture && e.Err == nil
	})
	mu.Lock()
	content = "two"
	mu.Unlock()
	evt := collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindCapture && e.Err == nil && len(e.Items) > 0 && e.Items[0].Content == "two"
	})
	if evt.Items[0].Content != "two" {
		t.Fatalf("expected newest capture first, got %q", evt.Items[0].Content)
	}
}

func TestWatcherEmitsHistoryRefreshes(t *testing.T) {
	store := openTestStore(t)
	fakeClipboard(t, func() (string, error) { return "", nil })

	item := history.NewText("preexisting")
	if err := store.Insert(context.Background(), item); err != nil {
		t.Fatalf("insert: %v", err)
	}

	w := NewWatcher(store, 10*time.Millisecond, "")
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindHistory && e.Err == nil
	})
	if len(evt.Items) != 1 || evt.Items[0].Content != "preexisting" {
		t.Fatalf("expected history refresh with stored item, got %v", evt.Items)
	}
}

func TestWatcherQueryNarrowsRefreshes(t *testing.T) {
	store := openTestStore(t)
	fakeClipboard(t, func() (string, error) { return "", nil })

	for _, content := range []string{"deploy notes", "grocery list", "deploy checklist"} {
		if err := store.Insert(context.Background(), history.NewText(content)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	w := NewWatcher(store, 10*time.Millisecond, "deploy")
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := collectUntil(t, w, 2*time.Second, func(e Event) bool {
		return e.Kind == KindHistory && e.Err == nil
	})
	if len(evt.Items) != 2 {
		t.Fatalf("expected 2 matching items, got %v", evt.Items)
	}
	for _, item := range evt.Items {
		if !strings.Contains(item.Content, "deploy") {
			t.Fatalf("expected only matches for the query, got %q", item.Content)
		}
	}
}

func TestStopClosesEventChannel(t *testing.T) {
	store := openTestStore(t)
	fakeClipboard(t, func() (string, error) { return "", nil })

	w := NewWatcher(store, 10*time.Millisecond, "")
	w.Stop()
	w.Wait()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-w.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("expected event channel to close after Stop")
		}
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(20 * time.Millisecond)
	start := time.Now()
	th.wait()
	th.wait()
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("expected second wait to be delayed, elapsed %v", elapsed)
	}
}

func TestZeroThrottleNeverBlocks(t *testing.T) {
	th := newThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		th.wait()
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("expected zero throttle to be free, elapsed %v", elapsed)
	}
}
