// Package backend feeds the popup from outside the UI loop: it
// captures new clipboard content into the history store and publishes
// refreshed recent lists as events.
package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/logging/events"
	"github.com/clipdeck/clipdeck/internal/popup"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	// KindHistory events carry a refreshed recent-items list.
	KindHistory Kind = iota
	// KindCapture events report that new clipboard content was stored;
	// they also carry the refreshed list.
	KindCapture
)

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind  Kind
	Items []history.Item
	Err   error
}

// readClipboard is swapped out by tests; the default reads the system
// clipboard.
var readClipboard = clipboard.ReadAll

// Watcher polls the system clipboard and the history store at a fixed
// interval and publishes events.
type Watcher struct {
	store    *history.Store
	interval time.Duration
	query    string

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	lastSeen string

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that polls every interval. A non-empty
// query narrows every published list to fuzzy matches against it. The
// first history event fires immediately so the popup has content on
// show.
func NewWatcher(store *history.Store, interval time.Duration, query string) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		store:    store,
		interval: interval,
		query:    query,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startCapturePoller()
	w.startHistoryPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events
// channel is closed. Call after Stop when a clean shutdown is
// required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startCapturePoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) (Event, bool) {
		throttle.wait()
		return w.captureOnce(ctx)
	})
}

func (w *Watcher) startHistoryPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) (Event, bool) {
		throttle.wait()
		items, err := w.store.Search(ctx, w.query, popup.MaxItems)
		if err == nil {
			events.Backend.Refreshed(len(items))
		}
		return Event{Kind: KindHistory, Items: items, Err: err}, true
	})
}

// captureOnce reads the clipboard and stores new content. The emit
// flag is false when nothing changed, keeping the event channel quiet
// between copies.
func (w *Watcher) captureOnce(ctx context.Context) (Event, bool) {
	content, err := readClipboard()
	if err != nil {
		events.Backend.Error(err)
		return Event{Kind: KindCapture, Err: err}, true
	}
	w.mu.Lock()
	unchanged := content == w.lastSeen
	w.lastSeen = content
	w.mu.Unlock()
	if unchanged || content == "" {
		return Event{}, false
	}

	item := history.NewText(content)
	if err := w.store.Insert(ctx, item); err != nil {
		return Event{Kind: KindCapture, Err: err}, true
	}
	events.Backend.Captured(item.ID, len(content))
	if err := w.store.Prune(ctx, history.DefaultRetention); err != nil {
		return Event{Kind: KindCapture, Err: err}, true
	}

	items, err := w.store.Search(ctx, w.query, popup.MaxItems)
	return Event{Kind: KindCapture, Items: items, Err: err}, true
}

func (w *Watcher) poll(fetch func(context.Context) (Event, bool)) {
	defer w.wg.Done()

	emit := func() bool {
		evt, ok := fetch(w.ctx)
		if !ok {
			return true
		}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
