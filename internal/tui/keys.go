package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wesm/phishcoach/internal/coach"
)

// handleKeyPress routes keys to the chat input while it has focus and to
// navigation otherwise.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.inputFocused {
		return m.handleInputKeys(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case "home", "g":
		m.cursor = 0
		m.ensureCursorVisible()
	case "end", "G":
		if len(m.items) > 0 {
			m.cursor = len(m.items) - 1
			m.ensureCursorVisible()
		}

	case "enter":
		return m.showSelected()

	case "c":
		return m.toggleChat()

	case "i", "/":
		return m.focusInput()

	case "r":
		return m.submitFlag(coach.ActionReport)
	case "a":
		return m.submitFlag(coach.ActionAllow)
	}
	return m, nil
}

// handleInputKeys handles keys while the chat input has focus.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputFocused = false
		m.input.Blur()
		return m, nil
	case "enter":
		return m.submitQuery()
	}

	// Typing is ignored while an exchange is in flight.
	if !m.inputEnabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ensureCursorVisible scrolls the inbox so the cursor row is on screen.
func (m *Model) ensureCursorVisible() {
	rows := m.inboxRows()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor - rows + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}
