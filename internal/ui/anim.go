package ui

import (
	"time"

	"github.com/clipdeck/clipdeck/internal/popup"
	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval drives render ticks while any animation is active.
// Roughly 30fps; cell-granular motion does not benefit from more.
const frameInterval = 33 * time.Millisecond

// entrySlideCells is how far the popup slides in and out, in rows.
const entrySlideCells = 2

type frameMsg struct {
	at time.Time
}

type removalDoneMsg struct {
	token int
}

type hideDoneMsg struct{}

type pasteDoneMsg struct {
	err error
}

// overlayAnim glides the shared highlight between rows.
type overlayAnim struct {
	tween popup.RectTween
	start time.Time
}

// removalAnim renders one in-flight removal plan. The underlying list
// is already mutated; only the drawing lags behind.
type removalAnim struct {
	plan  *popup.RemovalPlan
	start time.Time
}

// popupFx slides and fades the whole popup on show and hide.
type popupFx struct {
	hide     bool
	start    time.Time
	duration time.Duration
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg{at: t}
	})
}

func removalDone(token int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return removalDoneMsg{token: token}
	})
}

func (m *Model) animating() bool {
	return m.overlay != nil || m.removal != nil || m.fx != nil
}

// startGlide installs the overlay glide returned by a selection
// change. A nil tween (no movement, or a removal owns the overlay)
// leaves the current animation state alone.
func (m *Model) startGlide(tween *popup.RectTween) tea.Cmd {
	if tween == nil {
		return nil
	}
	m.overlay = &overlayAnim{tween: *tween, start: m.now()}
	return frameTick()
}

// startRemoval takes over the overlay and schedules the decoupled
// completion timer. The timer fires whether or not any render frames
// do; a stale token is ignored downstream.
func (m *Model) startRemoval(plan *popup.RemovalPlan) tea.Cmd {
	if plan == nil {
		return nil
	}
	m.removal = &removalAnim{plan: plan, start: m.now()}
	m.overlay = nil
	return tea.Batch(frameTick(), removalDone(plan.Token, plan.CompletionDelay()))
}

// startHide begins the exit slide; the popup state is torn down when
// the hideDoneMsg timer fires.
func (m *Model) startHide() tea.Cmd {
	if m.fx != nil && m.fx.hide {
		return nil
	}
	m.fx = &popupFx{hide: true, start: m.now(), duration: popup.HideDuration}
	return tea.Batch(frameTick(), tea.Tick(popup.HideDuration, func(time.Time) tea.Msg {
		return hideDoneMsg{}
	}))
}

func (m *Model) handleFrameMsg(msg tea.Msg) tea.Cmd {
	frame, ok := msg.(frameMsg)
	if !ok {
		return nil
	}
	now := frame.at
	if m.overlay != nil && m.overlay.tween.Done(now.Sub(m.overlay.start)) {
		m.overlay = nil
	}
	if m.fx != nil && !m.fx.hide && now.Sub(m.fx.start) >= m.fx.duration {
		m.fx = nil
	}
	// A finished removal keeps rendering its final frame until the
	// completion timer reports back; the hide fx is cleared by
	// hideDoneMsg for the same reason.
	if m.animating() {
		return frameTick()
	}
	return nil
}

func (m *Model) handleRemovalDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(removalDoneMsg)
	if !ok {
		return nil
	}
	// Tick timers cannot be cancelled: a completion from a cycle that
	// was cancelled underneath it may fire while a newer cycle is
	// animating. The live cycle keeps its render state; the sequencer
	// rejects the stale token on its own.
	if m.removal != nil && m.removal.plan.Token != done.token {
		return nil
	}
	m.removal = nil
	if next := m.ctrl.FinishRemoval(done.token); next != nil {
		return m.startRemoval(next)
	}
	if !m.ctrl.Visible() {
		// The removal emptied the list and dismissed the popup.
		return tea.Quit
	}
	return nil
}

func (m *Model) handleHideDoneMsg(tea.Msg) tea.Cmd {
	m.fx = nil
	m.ctrl.Hide()
	return tea.Quit
}
