package popup

import (
	"time"

	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/logging/events"
	"github.com/clipdeck/clipdeck/internal/placement"
)

// MaxItems caps the visible list; the provider may hold more history
// but the popup never shows beyond this.
const MaxItems = 50

// Action describes what confirming the current selection did.
type Action int

const (
	ActionNone Action = iota
	// ActionEditToggled flipped edit mode via the control row.
	ActionEditToggled
	// ActionDeleteQueued submitted the selected row for deletion
	// (confirm while in edit mode).
	ActionDeleteQueued
	// ActionPaste selected an item for pasting; the shell places it on
	// the clipboard and hides the popup.
	ActionPaste
)

// RemovalPlan describes one row-removal animation cycle. The list and
// queue are already mutated when a plan is issued; the plan is purely
// visual, and its completion must be reported back via FinishRemoval
// with the embedded token.
type RemovalPlan struct {
	Token      int
	Index      int
	ExternalID string
	// Removed is a copy of the item taken out of the list, kept so the
	// renderer can fade its row out.
	Removed  history.Item
	OldCount int
	NewCount int
	// HeightDelta is how much the popup frame shrinks. Rows above the
	// removed index shift down by it; rows below shift up by
	// ShiftBelow = RowHeight - HeightDelta.
	HeightDelta float64
	ShiftBelow  float64
	// Overlay glides the shared highlight to the post-resize target
	// concurrently with the row choreography.
	Overlay RectTween
	// Frame animates the visible popup height.
	Frame    Tween
	Duration time.Duration
	// Dismiss is set when the removal emptied the list: the whole
	// popup fades out instead of animating rows.
	Dismiss bool
}

// CompletionDelay is when the decoupled completion timer should fire,
// deliberately independent of any render-side animation callback.
func (p *RemovalPlan) CompletionDelay() time.Duration {
	return p.Duration + RemovalGrace
}

// Snapshot is a read-only view of the popup state for the embedding
// shell.
type Snapshot struct {
	SelectionIndex int
	Items          []history.Item
}

// Controller owns the visible list, the selection, and the deletion
// sequencer, and exposes the popup's public operations. It is mutated
// only from the UI event loop; animations are modeled as plans whose
// completion the loop reports back after a scheduled delay.
type Controller struct {
	metrics  Metrics
	items    []history.Item
	sel      Selection
	seq      *Sequencer
	view     Viewport
	notify   func(position int)
	editMode bool
	visible  bool
	pos      placement.Position
}

// NewController builds an empty, hidden popup controller.
func NewController(m Metrics) *Controller {
	return &Controller{
		metrics: m,
		sel:     NewSelection(0),
		seq:     NewSequencer(),
	}
}

// SetNotifier installs the callback invoked with the pre-mutation
// index whenever a deletion is processed, letting the authoritative
// store remove the matching entry before the animation starts.
func (c *Controller) SetNotifier(fn func(position int)) {
	c.notify = fn
}

// Metrics returns the layout constants in use.
func (c *Controller) Metrics() Metrics { return c.metrics }

// Items returns the visible list. Callers must not mutate it.
func (c *Controller) Items() []history.Item { return c.items }

// SelectionIndex returns the current selection (0 = control row).
func (c *Controller) SelectionIndex() int { return c.sel.Index() }

// EditMode reports whether the popup is in edit (delete) mode.
func (c *Controller) EditMode() bool { return c.editMode }

// Visible reports whether the popup is shown.
func (c *Controller) Visible() bool { return c.visible }

// Position returns the placement computed by the last ShowAt.
func (c *Controller) Position() placement.Position { return c.pos }

// ViewportOffset returns the first visible item row.
func (c *Controller) ViewportOffset() int { return c.view.Offset }

// InFlight reports whether a removal animation is running.
func (c *Controller) InFlight() bool { return !c.seq.Idle() }

// QueueLen returns the number of queued, unprocessed deletions.
func (c *Controller) QueueLen() int { return c.seq.QueueLen() }

// Pending reports whether a deletion for the 0-based item position is
// queued but not yet processed.
func (c *Controller) Pending(pos int) bool { return c.seq.Pending(pos) }

// HighlightRect returns the authoritative overlay geometry for the
// current selection.
func (c *Controller) HighlightRect() Rect {
	return c.metrics.HighlightRect(c.sel.Index())
}

// VisibleHeight returns the current popup frame height.
func (c *Controller) VisibleHeight() float64 {
	return c.metrics.VisibleHeight(len(c.items))
}

// Snapshot returns a read-only copy of the selection and list.
func (c *Controller) Snapshot() Snapshot {
	items := make([]history.Item, len(c.items))
	copy(items, c.items)
	return Snapshot{SelectionIndex: c.sel.Index(), Items: items}
}

// UpdateList replaces the visible list wholesale: the selection resets
// to the first item, edit mode ends, and the deletion queue is cleared
// since its positions no longer mean anything.
func (c *Controller) UpdateList(items []history.Item) {
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	c.items = make([]history.Item, len(items))
	copy(c.items, items)
	c.seq.Cancel()
	c.sel = NewSelection(len(c.items))
	c.editMode = false
	c.view.Reset()
	c.view.EnsureVisible(c.sel.Index(), len(c.items), c.metrics.MaxVisibleRows())
	events.Popup.ListUpdated(len(c.items))
}

// ShowAt resolves placement against the anchor and screen topology and
// marks the popup visible. The returned position carries the entry
// animation direction.
func (c *Controller) ShowAt(anchor placement.Rect, screens []placement.Screen) placement.Position {
	pos := placement.Place(anchor, c.VisibleHeight(), screens)
	c.pos = pos
	c.visible = true
	events.Placement.Resolve(pos.AnchorX, pos.Y, pos.Above)
	events.Popup.Show(len(c.items))
	return pos
}

// Hide dismisses the popup. Any queued deletions are dropped and the
// in-flight cycle's completion timer is invalidated; the provider
// refreshes the list on the next show anyway.
func (c *Controller) Hide() {
	if !c.visible {
		return
	}
	c.visible = false
	c.editMode = false
	c.seq.Cancel()
	events.Popup.Hide()
}

// MoveSelection shifts the selection by delta. It returns the overlay
// glide to render, or nil when nothing changed or a deletion cycle
// owns the overlay.
func (c *Controller) MoveSelection(delta int) *RectTween {
	from := c.HighlightRect()
	if !c.sel.Move(delta) {
		return nil
	}
	c.view.EnsureVisible(c.sel.Index(), len(c.items), c.metrics.MaxVisibleRows())
	events.Popup.SelectionMove(c.sel.Index())
	return c.overlayGlide(from)
}

// Hover moves the selection to the hovered row.
func (c *Controller) Hover(pos int) *RectTween {
	from := c.HighlightRect()
	if !c.sel.Hover(pos) {
		return nil
	}
	c.view.EnsureVisible(c.sel.Index(), len(c.items), c.metrics.MaxVisibleRows())
	events.Popup.Hover(c.sel.Index())
	return c.overlayGlide(from)
}

// Click moves the selection to the clicked row; the caller follows up
// with ConfirmSelection.
func (c *Controller) Click(pos int) *RectTween {
	from := c.HighlightRect()
	if !c.sel.Click(pos) {
		return nil
	}
	c.view.EnsureVisible(c.sel.Index(), len(c.items), c.metrics.MaxVisibleRows())
	return c.overlayGlide(from)
}

// ToggleEdit flips edit mode without moving the selection and reports
// the new state.
func (c *Controller) ToggleEdit() bool {
	c.editMode = !c.editMode
	events.Popup.EditMode(c.editMode)
	return c.editMode
}

func (c *Controller) overlayGlide(from Rect) *RectTween {
	// During an active deletion cycle only the deletion cleanup step
	// may reposition the shared overlay.
	if c.InFlight() {
		return nil
	}
	return &RectTween{From: from, To: c.HighlightRect(), Duration: SelectionEase}
}

// ConfirmSelection acts on the current selection: the control row
// toggles edit mode, an item row deletes in edit mode and pastes
// otherwise.
func (c *Controller) ConfirmSelection() (Action, history.Item, *RemovalPlan) {
	idx := c.sel.Index()
	if idx == 0 {
		c.ToggleEdit()
		return ActionEditToggled, history.Item{}, nil
	}
	if c.editMode {
		return ActionDeleteQueued, history.Item{}, c.RequestDelete(idx - 1)
	}
	item := c.items[idx-1]
	events.Popup.Confirm(item.ID)
	return ActionPaste, item, nil
}

// RequestDelete enqueues a deletion for the 0-based item position and,
// when the sequencer is idle, starts processing immediately. The
// returned plan is nil when the request was a duplicate or is waiting
// behind an in-flight removal.
func (c *Controller) RequestDelete(pos int) *RemovalPlan {
	req := Request{Position: pos, Notify: c.notify}
	if pos >= 0 && pos < len(c.items) {
		req.ExternalID = c.items[pos].ID
	}
	if !c.seq.Enqueue(req) {
		return nil
	}
	if !c.seq.Idle() {
		return nil
	}
	return c.beginNext()
}

// FinishRemoval is called by the decoupled completion timer. It clears
// the in-flight flag and starts the next queued removal, returning its
// plan. A stale token is a no-op. When the list emptied, the popup
// state is reset instead.
func (c *Controller) FinishRemoval(token int) *RemovalPlan {
	if !c.seq.Finish(token) {
		return nil
	}
	if len(c.items) == 0 {
		c.visible = false
		c.editMode = false
		c.view.Reset()
		c.seq.Cancel()
		return nil
	}
	return c.beginNext()
}

// beginNext processes the queue head: data mutation and the notifier
// call happen here, synchronously and before any animation, so
// external observers see authoritative state immediately. The plan it
// returns drives the purely visual part.
func (c *Controller) beginNext() *RemovalPlan {
	req, token, ok := c.seq.Begin(len(c.items))
	if !ok {
		return nil
	}
	oldN := len(c.items)
	oldSel := c.sel.Index()
	oldVisible := c.metrics.VisibleHeight(oldN)

	removed := c.items[req.Position]
	if req.Notify != nil {
		guard("deletion notifier", func() { req.Notify(req.Position) })
	}
	c.items = append(c.items[:req.Position], c.items[req.Position+1:]...)
	c.seq.Renumber(req.Position)

	newN := len(c.items)
	c.sel.Resize(newN)
	c.view.EnsureVisible(c.sel.Index(), newN, c.metrics.MaxVisibleRows())
	newVisible := c.metrics.VisibleHeight(newN)
	delta := oldVisible - newVisible

	return &RemovalPlan{
		Token:       token,
		Index:       req.Position,
		ExternalID:  req.ExternalID,
		Removed:     removed,
		OldCount:    oldN,
		NewCount:    newN,
		HeightDelta: delta,
		ShiftBelow:  c.metrics.RowHeight - delta,
		Overlay: RectTween{
			From:     c.metrics.HighlightRect(oldSel),
			To:       c.metrics.HighlightRect(c.sel.Index()),
			Duration: RemovalDuration,
		},
		Frame:    Tween{From: oldVisible, To: newVisible, Duration: RemovalDuration},
		Duration: RemovalDuration,
		Dismiss:  newN == 0,
	}
}
