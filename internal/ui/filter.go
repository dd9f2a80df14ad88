package ui

import (
	"strings"
	"unicode"

	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/popup"
	tea "github.com/charmbracelet/bubbletea"
)

// startFilter opens the filter prompt. Typing narrows the visible list
// to fuzzy matches; the full list comes back when the query clears.
func (m *Model) startFilter() tea.Cmd {
	if m.filtering {
		return nil
	}
	m.filtering = true
	return nil
}

// handleFilterKey consumes keystrokes while the filter prompt is open.
// Navigation and quit keys fall through to the normal handler so the
// narrowed list stays fully operable while typing.
func (m *Model) handleFilterKey(key tea.KeyMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "esc":
		m.filtering = false
		m.filter = ""
		return m.refreshList(), true
	case "enter":
		// Keep the narrowed list; the next enter confirms a selection.
		m.filtering = false
		return nil, true
	case "backspace":
		runes := []rune(m.filter)
		if len(runes) == 0 {
			return nil, true
		}
		m.filter = string(runes[:len(runes)-1])
		return m.refreshList(), true
	case "ctrl+w":
		m.filter = trimWordBackward(m.filter)
		return m.refreshList(), true
	case "ctrl+u":
		if m.filter == "" {
			return nil, true
		}
		m.filter = ""
		return m.refreshList(), true
	case "up", "down", "ctrl+c":
		return nil, false
	}
	switch key.Type {
	case tea.KeySpace:
		m.filter += " "
		return m.refreshList(), true
	case tea.KeyRunes:
		m.filter += string(key.Runes)
		return m.refreshList(), true
	}
	return nil, true
}

// refreshList recomputes the visible list from the backend snapshot
// and the filter query. An unchanged list leaves the selection, the
// queue and any running animation alone.
func (m *Model) refreshList() tea.Cmd {
	view := m.baseItems
	if strings.TrimSpace(m.filter) != "" {
		view = history.RankItems(m.baseItems, m.filter, popup.MaxItems)
	}
	if sameItems(m.ctrl.Items(), view) {
		return nil
	}
	m.ctrl.UpdateList(view)
	m.overlay = nil
	m.removal = nil
	// The frame height may have changed; placement is re-resolved
	// against the same anchor.
	return m.show()
}

func (m *Model) filterActive() bool {
	return m.filtering || strings.TrimSpace(m.filter) != ""
}

func trimWordBackward(s string) string {
	runes := []rune(s)
	i := len(runes)
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return string(runes[:i])
}
