package ui

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/logging"
	"github.com/clipdeck/clipdeck/internal/placement"
	"github.com/clipdeck/clipdeck/internal/popup"
	"github.com/clipdeck/clipdeck/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the clipboard popup.
type Model struct {
	ctrl  *popup.Controller
	store *history.Store

	backend        *backend.Watcher
	backendState   map[backend.Kind]error
	backendLastErr string

	width  int
	height int
	shown  bool

	anchor     placement.Rect
	haveAnchor bool
	showFooter bool
	verbose    bool

	// baseItems is the last unfiltered list the backend delivered;
	// the controller holds the filtered view of it.
	baseItems []history.Item
	filtering bool
	filter    string

	errMsg  string
	infoMsg string

	overlay *overlayAnim
	removal *removalAnim
	fx      *popupFx

	// now is a test seam for animation clocks.
	now func() time.Time

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the popup state against the history store and
// backend watcher.
func NewModel(store *history.Store, watcher *backend.Watcher, metrics popup.Metrics, anchor placement.Rect, haveAnchor, showFooter, verbose bool) *Model {
	m := &Model{
		ctrl:         popup.NewController(metrics),
		store:        store,
		backend:      watcher,
		backendState: map[backend.Kind]error{},
		anchor:       anchor,
		haveAnchor:   haveAnchor,
		showFooter:   showFooter,
		verbose:      verbose,
		now:          time.Now,
	}
	m.ctrl.SetNotifier(m.deleteFromStore)
	m.registerHandlers()
	return m
}

// Controller exposes the popup controller for tests and the app shell.
func (m *Model) Controller() *popup.Controller { return m.ctrl }

// deleteFromStore removes the item at the given visible position from
// the history store. It runs synchronously before the removal
// animation starts, so the store never shows a deleted item as live.
func (m *Model) deleteFromStore(position int) {
	items := m.ctrl.Items()
	if position < 0 || position >= len(items) {
		return
	}
	if m.store == nil {
		return
	}
	if err := m.store.Delete(context.Background(), items[position].ID); err != nil && !errors.Is(err, history.ErrNotFound) {
		logging.Error(err)
		m.errMsg = err.Error()
	}
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	if m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(frameMsg{}):          m.handleFrameMsg,
		reflect.TypeOf(removalDoneMsg{}):    m.handleRemovalDoneMsg,
		reflect.TypeOf(hideDoneMsg{}):       m.handleHideDoneMsg,
		reflect.TypeOf(pasteDoneMsg{}):      m.handlePasteDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	m.width = size.Width
	m.height = size.Height
	return m.show()
}

// show resolves placement for the current terminal size and, on the
// first call, starts the entry slide.
func (m *Model) show() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	anchor := m.anchor
	if !m.haveAnchor {
		anchor = m.defaultAnchor()
	}
	screens := placement.SingleScreen(float64(m.width), float64(m.height))
	m.ctrl.ShowAt(anchor, screens)
	if m.shown {
		return nil
	}
	m.shown = true
	m.fx = &popupFx{start: m.now(), duration: popup.ShowDuration}
	return frameTick()
}

// defaultAnchor places the popup as if invoked from a bar a third of
// the way down the screen, horizontally centred.
func (m *Model) defaultAnchor() placement.Rect {
	mt := m.ctrl.Metrics()
	return placement.Rect{
		X:      float64(m.width)/2 - mt.Width/2,
		Y:      float64(m.height) / 3,
		Width:  mt.Width,
		Height: 1,
	}
}
