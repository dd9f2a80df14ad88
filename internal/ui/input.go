package ui

import (
	"math"

	"github.com/atotto/clipboard"
	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/logging"
	"github.com/clipdeck/clipdeck/internal/popup"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.filtering {
		if cmd, handled := m.handleFilterKey(key); handled {
			return cmd
		}
	}
	switch key.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		if m.filterActive() {
			m.filtering = false
			m.filter = ""
			return m.refreshList()
		}
		if m.ctrl.EditMode() {
			m.ctrl.ToggleEdit()
			return nil
		}
		return m.startHide()
	case "up", "k":
		return m.startGlide(m.ctrl.MoveSelection(-1))
	case "down", "j":
		return m.startGlide(m.ctrl.MoveSelection(1))
	case "e":
		m.ctrl.ToggleEdit()
		return nil
	case "/":
		return m.startFilter()
	case "d", "x", "backspace", "delete":
		sel := m.ctrl.SelectionIndex()
		if sel < 1 {
			return nil
		}
		return m.startRemoval(m.ctrl.RequestDelete(sel - 1))
	case "enter", " ":
		return m.confirm()
	}
	return nil
}

func (m *Model) confirm() tea.Cmd {
	action, item, plan := m.ctrl.ConfirmSelection()
	switch action {
	case popup.ActionPaste:
		return tea.Batch(pasteCmd(item), m.startHide())
	case popup.ActionDeleteQueued:
		return m.startRemoval(plan)
	}
	return nil
}

func pasteCmd(item history.Item) tea.Cmd {
	return func() tea.Msg {
		return pasteDoneMsg{err: clipboard.WriteAll(item.Content)}
	}
}

func (m *Model) handlePasteDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(pasteDoneMsg)
	if !ok {
		return nil
	}
	if done.err != nil {
		logging.Error(done.err)
		m.errMsg = done.err.Error()
		return nil
	}
	if m.verbose {
		m.infoMsg = "copied to clipboard"
	}
	return nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch {
	case mouse.Button == tea.MouseButtonWheelUp:
		return m.startGlide(m.ctrl.MoveSelection(-1))
	case mouse.Button == tea.MouseButtonWheelDown:
		return m.startGlide(m.ctrl.MoveSelection(1))
	case mouse.Action == tea.MouseActionMotion:
		sel, ok := m.hitTest(mouse.X, mouse.Y)
		if !ok {
			return nil
		}
		return m.startGlide(m.ctrl.Hover(sel))
	case mouse.Action == tea.MouseActionPress && mouse.Button == tea.MouseButtonLeft:
		sel, ok := m.hitTest(mouse.X, mouse.Y)
		if !ok {
			return nil
		}
		glide := m.startGlide(m.ctrl.Click(sel))
		confirm := m.confirm()
		if glide != nil {
			return tea.Batch(glide, confirm)
		}
		return confirm
	}
	return nil
}

// hitTest maps terminal coordinates to a selection index: 0 for the
// control row, 1..n for item rows. The math mirrors the layout rects,
// shifted by the viewport offset and the frame border.
func (m *Model) hitTest(x, y int) (int, bool) {
	if !m.ctrl.Visible() {
		return 0, false
	}
	left, top := m.origin()
	mt := m.ctrl.Metrics()
	cx := float64(x - left - 1)
	cy := float64(y - top - 1)
	if cx < 0 || cx >= mt.Width {
		return 0, false
	}
	cr := mt.ControlRowRect()
	if cy >= cr.Y && cy < cr.Y+cr.Height {
		return 0, true
	}
	firstRow := mt.RowRect(0).Y
	if cy < firstRow {
		return 0, false
	}
	row := int((cy-firstRow)/mt.RowHeight) + m.ctrl.ViewportOffset()
	n := len(m.ctrl.Items())
	if row < 0 || row >= n {
		return 0, false
	}
	if row-m.ctrl.ViewportOffset() >= m.visibleRows() {
		return 0, false
	}
	return row + 1, true
}

// origin returns the terminal cell of the popup frame's top-left
// corner, derived from the placement position (bottom-left origin)
// and the current frame height.
func (m *Model) origin() (int, int) {
	mt := m.ctrl.Metrics()
	pos := m.ctrl.Position()
	w := int(mt.Width) + 2
	h := int(m.frameHeight()) + 2
	left := int(math.Round(pos.AnchorX)) - w/2
	left = clampInt(left, 0, maxInt(0, m.width-w))
	top := m.height - int(math.Round(pos.Y)) - h
	top = clampInt(top, 0, maxInt(0, m.height-h))
	return left, top
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
