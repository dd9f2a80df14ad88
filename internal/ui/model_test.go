package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/placement"
	"github.com/clipdeck/clipdeck/internal/popup"
	tea "github.com/charmbracelet/bubbletea"
)

func makeItems(n int) []history.Item {
	items := make([]history.Item, n)
	for i := range items {
		items[i] = history.Item{
			ID:        fmt.Sprintf("item-%d", i),
			Content:   fmt.Sprintf("content %d", i),
			Preview:   fmt.Sprintf("content %d", i),
			Kind:      history.KindText,
			CreatedAt: time.Now(),
		}
	}
	return items
}

func newTestModel(t *testing.T, n int) *Model {
	t.Helper()
	m := NewModel(nil, nil, popup.DefaultMetrics(), placement.Rect{}, false, false, false)
	fixed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.fx = nil
	items := makeItems(n)
	m.baseItems = items
	m.ctrl.UpdateList(items)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestWindowSizeShowsPopup(t *testing.T) {
	m := newTestModel(t, 3)
	if !m.ctrl.Visible() {
		t.Fatalf("expected popup visible after window size")
	}
	if m.ctrl.Position().AnchorX != 40 {
		t.Fatalf("expected anchor centred at 40, got %v", m.ctrl.Position().AnchorX)
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	m := newTestModel(t, 3)
	m.Update(keyMsg("down"))
	if m.ctrl.SelectionIndex() != 2 {
		t.Fatalf("expected selection 2, got %d", m.ctrl.SelectionIndex())
	}
	m.Update(keyMsg("k"))
	if m.ctrl.SelectionIndex() != 1 {
		t.Fatalf("expected selection 1, got %d", m.ctrl.SelectionIndex())
	}
	if m.overlay == nil {
		t.Fatalf("expected an overlay glide after a selection move")
	}
}

func TestEditKeyTogglesEditMode(t *testing.T) {
	m := newTestModel(t, 2)
	m.Update(keyMsg("e"))
	if !m.ctrl.EditMode() {
		t.Fatalf("expected edit mode on")
	}
	m.Update(keyMsg("esc"))
	if m.ctrl.EditMode() {
		t.Fatalf("expected esc to leave edit mode")
	}
	if m.fx != nil {
		t.Fatalf("expected esc in edit mode not to start the hide slide")
	}
}

func TestDeleteKeyStartsRemoval(t *testing.T) {
	m := newTestModel(t, 3)
	cmd := update(m, keyMsg("d"))
	if cmd == nil {
		t.Fatalf("expected removal command")
	}
	if m.removal == nil {
		t.Fatalf("expected removal animation state")
	}
	if !m.ctrl.InFlight() {
		t.Fatalf("expected sequencer in flight")
	}
	if len(m.ctrl.Items()) != 2 {
		t.Fatalf("expected list mutated immediately, got %d items", len(m.ctrl.Items()))
	}
}

func TestRemovalCompletionProcessesQueue(t *testing.T) {
	m := newTestModel(t, 3)
	m.Update(keyMsg("d"))
	first := m.removal.plan
	m.Update(keyMsg("d"))
	if m.ctrl.QueueLen() != 1 {
		t.Fatalf("expected one queued deletion, got %d", m.ctrl.QueueLen())
	}

	m.Update(removalDoneMsg{token: first.Token})
	if m.removal == nil {
		t.Fatalf("expected next removal to start")
	}
	if m.removal.plan.Token == first.Token {
		t.Fatalf("expected a fresh token for the next cycle")
	}
	if len(m.ctrl.Items()) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(m.ctrl.Items()))
	}
}

func TestStaleRemovalCompletionIsIgnored(t *testing.T) {
	m := newTestModel(t, 3)
	m.Update(keyMsg("d"))
	plan := m.removal.plan
	m.ctrl.UpdateList(makeItems(3))
	m.removal = nil

	m.Update(removalDoneMsg{token: plan.Token})
	if m.removal != nil {
		t.Fatalf("expected stale completion to start nothing")
	}
	if len(m.ctrl.Items()) != 3 {
		t.Fatalf("expected list untouched, got %d items", len(m.ctrl.Items()))
	}
}

func TestStaleCompletionKeepsNewerRemovalAnimating(t *testing.T) {
	m := newTestModel(t, 4)
	m.Update(keyMsg("d"))
	stale := m.removal.plan.Token

	// A backend refresh cancels the cycle, then a new deletion starts
	// animating before the old completion timer fires.
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindHistory, Items: makeItems(4)}})
	m.Update(keyMsg("d"))
	live := m.removal.plan
	if live.Token == stale {
		t.Fatalf("expected a fresh token for the new cycle")
	}

	m.Update(removalDoneMsg{token: stale})
	if m.removal == nil {
		t.Fatalf("expected stale completion to leave the live cycle's render state alone")
	}
	if m.removal.plan.Token != live.Token {
		t.Fatalf("expected live plan kept, got token %d", m.removal.plan.Token)
	}
	if !m.ctrl.InFlight() {
		t.Fatalf("expected live removal still in flight")
	}

	m.Update(removalDoneMsg{token: live.Token})
	if m.removal != nil {
		t.Fatalf("expected live completion to finish the cycle")
	}
}

func TestRemovingLastItemQuitsAfterCompletion(t *testing.T) {
	m := newTestModel(t, 1)
	m.Update(keyMsg("d"))
	if m.removal == nil || !m.removal.plan.Dismiss {
		t.Fatalf("expected dismissal plan for last item")
	}
	cmd := update(m, removalDoneMsg{token: m.removal.plan.Token})
	if cmd == nil {
		t.Fatalf("expected quit command after dismissal")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.Quit, got %T", cmd())
	}
}

func TestEscStartsHideAndQuits(t *testing.T) {
	m := newTestModel(t, 2)
	m.Update(keyMsg("esc"))
	if m.fx == nil || !m.fx.hide {
		t.Fatalf("expected hide slide to start")
	}
	cmd := update(m, hideDoneMsg{})
	if m.ctrl.Visible() {
		t.Fatalf("expected popup hidden")
	}
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.Quit, got %T", cmd())
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, 2)
	cmd := update(m, keyMsg("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.Quit, got %T", cmd())
	}
}

func TestEnterOnItemPastes(t *testing.T) {
	m := newTestModel(t, 2)
	cmd := update(m, keyMsg("enter"))
	if cmd == nil {
		t.Fatalf("expected paste command batch")
	}
	if m.fx == nil || !m.fx.hide {
		t.Fatalf("expected hide slide after paste")
	}
}

func TestEnterInEditModeDeletes(t *testing.T) {
	m := newTestModel(t, 2)
	m.Update(keyMsg("e"))
	m.Update(keyMsg("enter"))
	if m.removal == nil {
		t.Fatalf("expected removal from edit-mode confirm")
	}
	if len(m.ctrl.Items()) != 1 {
		t.Fatalf("expected item removed, got %d", len(m.ctrl.Items()))
	}
}

func TestBackendRefreshReplacesList(t *testing.T) {
	m := newTestModel(t, 2)
	m.Update(keyMsg("down"))
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindHistory, Items: makeItems(4)}})
	if len(m.ctrl.Items()) != 4 {
		t.Fatalf("expected refreshed list of 4, got %d", len(m.ctrl.Items()))
	}
	if m.ctrl.SelectionIndex() != 1 {
		t.Fatalf("expected selection reset on refresh, got %d", m.ctrl.SelectionIndex())
	}
}

func TestBackendRefreshWithSameItemsKeepsState(t *testing.T) {
	m := newTestModel(t, 3)
	m.Update(keyMsg("down"))
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindHistory, Items: m.ctrl.Snapshot().Items}})
	if m.ctrl.SelectionIndex() != 2 {
		t.Fatalf("expected selection preserved across echo refresh, got %d", m.ctrl.SelectionIndex())
	}
}

func TestBackendErrorSurfacesWithoutTouchingList(t *testing.T) {
	m := newTestModel(t, 2)
	m.Update(backendEventMsg{event: backend.Event{Kind: backend.KindCapture, Err: fmt.Errorf("clipboard unavailable")}})
	if len(m.ctrl.Items()) != 2 {
		t.Fatalf("expected list untouched on error, got %d", len(m.ctrl.Items()))
	}
	warn, msg := m.hasBackendIssue()
	if !warn || msg == "" {
		t.Fatalf("expected surfaced backend issue")
	}
}

func TestHitTestMapsRows(t *testing.T) {
	m := newTestModel(t, 3)
	left, top := m.origin()
	mt := m.ctrl.Metrics()

	x := left + 1 + int(mt.Padding)
	controlY := top + 1 + int(mt.ControlRowRect().Y)
	if sel, ok := m.hitTest(x, controlY); !ok || sel != 0 {
		t.Fatalf("expected control row hit, got sel=%d ok=%v", sel, ok)
	}

	rowY := top + 1 + int(mt.RowRect(1).Y)
	if sel, ok := m.hitTest(x, rowY); !ok || sel != 2 {
		t.Fatalf("expected second item hit, got sel=%d ok=%v", sel, ok)
	}

	if _, ok := m.hitTest(left-2, controlY); ok {
		t.Fatalf("expected miss left of the frame")
	}
}

func TestMouseWheelMovesSelection(t *testing.T) {
	m := newTestModel(t, 3)
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.ctrl.SelectionIndex() != 2 {
		t.Fatalf("expected wheel to move selection, got %d", m.ctrl.SelectionIndex())
	}
	m.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if m.ctrl.SelectionIndex() != 1 {
		t.Fatalf("expected wheel up to move selection back, got %d", m.ctrl.SelectionIndex())
	}
}

// update unwraps the tea.Model return for terser assertions.
func update(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}
