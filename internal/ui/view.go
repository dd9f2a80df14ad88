package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/popup"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const (
	editLabel     = "edit history"
	doneLabel     = "done editing"
	deleteMarker  = "✕ "
	footerBrowse    = "↑/↓ move · enter paste · e edit · / filter · esc close"
	footerEditing   = "↑/↓ move · enter delete · esc done"
	footerFiltering = "type to narrow · enter keep · esc clear"
)

// View renders the popup onto the terminal canvas at its placement
// position.
func (m *Model) View() string {
	if !m.shown || m.width <= 0 || m.height <= 0 {
		return ""
	}
	if !m.ctrl.Visible() && m.fx == nil {
		return ""
	}

	content := strings.Join(m.contentLines(), "\n")
	var frame string
	switch m.fadePhase() {
	case 2:
		frame = styles.FrameFaded.Render(content)
	case 1:
		frame = styles.Frame.Faint(true).Render(content)
	default:
		frame = styles.Frame.Render(content)
	}

	left, top := m.origin()
	top += m.slideOffset()
	if top < 0 {
		top = 0
	}

	canvas := offsetRender(frame, left, top)
	return m.appendChrome(canvas, left)
}

// contentLines builds the inner popup lines: padding, control row,
// padding, item rows, padding, with the highlight overlay applied.
func (m *Model) contentLines() []string {
	mt := m.ctrl.Metrics()
	width := int(mt.Width)
	pad := int(mt.Padding)
	blank := strings.Repeat(" ", width)

	highlight := m.overlayRect()
	lines := make([]string, 0, int(m.frameHeight())+2)

	appendBlanks := func(n int) {
		for i := 0; i < n; i++ {
			lines = append(lines, blank)
		}
	}

	appendBlanks(pad)
	lines = append(lines, m.renderControlRow(width, m.lineHighlighted(highlight, len(lines))))
	if len(m.ctrl.Items()) == 0 && m.removal == nil {
		appendBlanks(pad)
		return lines
	}
	appendBlanks(pad)

	offset := m.ctrl.ViewportOffset()
	items := m.ctrl.Items()
	ghostAt, ghostLines := m.ghost()
	for row := offset; row < offset+m.visibleRows(); row++ {
		if row == ghostAt {
			lines = append(lines, m.renderGhost(width, ghostLines)...)
		}
		if row >= len(items) {
			break
		}
		selected := m.lineHighlighted(highlight, len(lines))
		lines = append(lines, m.renderItemRow(items[row], row, width, selected)...)
	}
	if ghostAt >= offset+m.visibleRows() && ghostAt <= len(items) {
		lines = append(lines, m.renderGhost(width, ghostLines)...)
	}
	appendBlanks(pad)
	return lines
}

func (m *Model) renderControlRow(width int, hot bool) string {
	label := editLabel
	if m.ctrl.EditMode() {
		label = doneLabel
	}
	text := padRight(" "+label, width)
	if hot {
		return styles.ControlRowHot.Render(text)
	}
	return styles.ControlRow.Render(text)
}

// renderItemRow produces the lines of one item: the preview on top,
// the age and kind tag underneath.
func (m *Model) renderItemRow(item history.Item, row, width int, selected bool) []string {
	mt := m.ctrl.Metrics()
	prefix := " "
	if m.ctrl.EditMode() {
		prefix = deleteMarker
	}
	preview := item.Preview
	if preview == "" {
		preview = "(empty)"
	}
	top := padRight(prefix+truncate.StringWithTail(preview, uint(width-len([]rune(prefix))-1), "…"), width)
	meta := padRight(fmt.Sprintf("   %s · %s", humanize.Time(item.CreatedAt), item.Kind), width)

	style := styles.Item
	metaStyle := styles.Timestamp
	switch {
	case m.ctrl.Pending(row):
		style = styles.RemovingItem
		metaStyle = styles.RemovingItem
	case selected:
		style = styles.SelectedItem
		metaStyle = styles.SelectedItem
	}

	out := []string{style.Render(top)}
	for i := 1; i < int(mt.RowHeight); i++ {
		if i == 1 {
			out = append(out, metaStyle.Render(meta))
			continue
		}
		out = append(out, style.Render(strings.Repeat(" ", width)))
	}
	return out
}

// ghost reports where the collapsing removed row renders and how many
// lines it still occupies. Index -1 means no ghost.
func (m *Model) ghost() (int, int) {
	if m.removal == nil || m.removal.plan.Dismiss {
		return -1, 0
	}
	plan := m.removal.plan
	elapsed := m.now().Sub(m.removal.start)
	p := popup.EaseOutQuad(float64(elapsed) / float64(plan.Duration))
	if elapsed >= plan.Duration {
		p = 1
	}
	mt := m.ctrl.Metrics()
	remaining := int(math.Round(mt.RowHeight * (1 - p)))
	if remaining <= 0 {
		return -1, 0
	}
	return plan.Index, remaining
}

func (m *Model) renderGhost(width, ghostLines int) []string {
	preview := m.removal.plan.Removed.Preview
	top := padRight(" "+truncate.StringWithTail(preview, uint(width-2), "…"), width)
	out := []string{styles.RemovingItem.Render(top)}
	for i := 1; i < ghostLines; i++ {
		out = append(out, styles.RemovingItem.Render(strings.Repeat(" ", width)))
	}
	return out
}

// overlayRect returns the highlight geometry for this frame: the
// removal overlay while a cycle is in flight, an active glide
// otherwise, and the authoritative selection rect at rest.
func (m *Model) overlayRect() popup.Rect {
	now := m.now()
	if m.removal != nil {
		return m.removal.plan.Overlay.At(now.Sub(m.removal.start), popup.EaseOutQuad)
	}
	if m.overlay != nil {
		return m.overlay.tween.At(now.Sub(m.overlay.start), popup.EaseOutQuad)
	}
	return m.ctrl.HighlightRect()
}

// lineHighlighted reports whether a rendered line index falls inside
// the overlay rect, translating item-row geometry by the viewport
// offset.
func (m *Model) lineHighlighted(rect popup.Rect, line int) bool {
	mt := m.ctrl.Metrics()
	y := float64(line)
	if rect.Y >= mt.RowRect(0).Y {
		y += float64(m.ctrl.ViewportOffset()) * mt.RowHeight
	}
	top := math.Round(rect.Y)
	return y >= top && y < top+math.Round(rect.Height)
}

func (m *Model) frameHeight() float64 {
	if m.removal != nil {
		return m.removal.plan.Frame.At(m.now().Sub(m.removal.start), popup.EaseOutQuad)
	}
	return m.ctrl.VisibleHeight()
}

func (m *Model) visibleRows() int {
	mt := m.ctrl.Metrics()
	n := len(m.ctrl.Items())
	if mt.ContentHeight(n) <= mt.MaxHeight {
		return n
	}
	vis := mt.MaxVisibleRows()
	if rem := n - m.ctrl.ViewportOffset(); rem < vis {
		return rem
	}
	return vis
}

// slideOffset shifts the popup during entry and exit: it slides from
// the side placement chose, toward its resting position.
func (m *Model) slideOffset() int {
	if m.fx == nil {
		return 0
	}
	elapsed := m.now().Sub(m.fx.start)
	p := float64(elapsed) / float64(m.fx.duration)
	var travel float64
	if m.fx.hide {
		travel = popup.EaseInQuad(p)
	} else {
		travel = 1 - popup.EaseOutQuad(p)
	}
	cells := int(math.Round(travel * entrySlideCells))
	if m.ctrl.Position().Above {
		return cells
	}
	return -cells
}

// fadePhase reports how dimmed the whole popup renders: 0 at full
// strength, then two darker steps. A removal that emptied the list and
// the exit slide both walk the steps along an ease-in curve, so the
// popup lingers near full strength and drops away at the end.
func (m *Model) fadePhase() int {
	var elapsed, duration time.Duration
	switch {
	case m.removal != nil && m.removal.plan.Dismiss:
		elapsed = m.now().Sub(m.removal.start)
		duration = m.removal.plan.Duration
	case m.fx != nil && m.fx.hide:
		elapsed = m.now().Sub(m.fx.start)
		duration = m.fx.duration
	default:
		return 0
	}
	if duration <= 0 {
		return 2
	}
	p := float64(elapsed) / float64(duration)
	if p > 1 {
		p = 1
	}
	switch eased := popup.EaseInQuad(p); {
	case eased >= 0.66:
		return 2
	case eased >= 0.33:
		return 1
	}
	return 0
}

// appendChrome adds the footer hints and any status line under the
// popup frame.
func (m *Model) appendChrome(canvas string, left int) string {
	var extra []string
	if m.filterActive() {
		prompt := "/" + m.filter
		if m.filtering {
			prompt += "▌"
		}
		extra = append(extra, styles.ControlRow.Render(prompt))
	}
	if len(m.ctrl.Items()) == 0 && m.ctrl.Visible() && m.removal == nil {
		empty := "clipboard history is empty"
		if m.filterActive() {
			empty = "no matches"
		}
		extra = append(extra, styles.Empty.Render(empty))
	}
	if m.showFooter {
		hint := footerBrowse
		switch {
		case m.filtering:
			hint = footerFiltering
		case m.ctrl.EditMode():
			hint = footerEditing
		}
		extra = append(extra, styles.Footer.Render(hint))
	}
	if warn, msg := m.hasBackendIssue(); warn && msg != "" {
		extra = append(extra, styles.Error.Render(msg))
	} else if m.errMsg != "" {
		extra = append(extra, styles.Error.Render(m.errMsg))
	} else if m.infoMsg != "" {
		extra = append(extra, styles.Footer.Render(m.infoMsg))
	}
	if len(extra) == 0 {
		return canvas
	}
	pad := strings.Repeat(" ", maxInt(0, left+1))
	var b strings.Builder
	b.WriteString(canvas)
	for _, line := range extra {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}

// offsetRender shifts a rendered block right and down on the canvas.
func offsetRender(block string, left, top int) string {
	pad := strings.Repeat(" ", maxInt(0, left))
	lines := strings.Split(block, "\n")
	var b strings.Builder
	for i := 0; i < top; i++ {
		b.WriteString("\n")
	}
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}

func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}
