package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wesm/phishcoach/internal/coach"
)

var (
	bgBase   = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}
	bgCursor = lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"}
	dimColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}

	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	indicatorStyle = lipgloss.NewStyle().
			Italic(true).
			Padding(0, 1)

	cursorRowStyle = lipgloss.NewStyle().
			Background(bgCursor)

	shownRowStyle = lipgloss.NewStyle().
			Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Faint(true)

	subjectStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	senderStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	reportKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#b00020", Dark: "#ff5f5f"})

	allowKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1b5e20", Dark: "#5fd75f"})

	chatTitleStyle = lipgloss.NewStyle().
			Bold(true)

	disabledInputStyle = lipgloss.NewStyle().
				Faint(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Background(bgBase).
			Padding(0, 1)

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"}).
			Background(bgBase)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var top []string
	top = append(top, m.titleView())
	if line, ok := m.indicatorView(); ok {
		top = append(top, line)
	}
	top = append(top, m.inboxView()...)

	var chat []string
	if m.chatOpen {
		chat = m.chatView()
	}

	// Detail gets whatever rows the other sections leave.
	avail := m.height - len(top) - len(chat) - 1
	detail := m.detailView(avail)

	lines := make([]string, 0, m.height)
	lines = append(lines, top...)
	lines = append(lines, detail...)
	lines = append(lines, chat...)
	lines = append(lines, m.footerView())
	return strings.Join(lines, "\n")
}

func (m Model) titleView() string {
	title := "phishcoach"
	if m.version != "" {
		title += " " + m.version
	}
	right := fmt.Sprintf("%d emails", len(m.items))
	if m.backendURL != "" {
		right = m.backendURL + "  " + right
	}
	gap := max(m.width-lipgloss.Width(title)-lipgloss.Width(right)-2, 1)
	return titleBarStyle.Render(padRight(title+strings.Repeat(" ", gap)+right, max(m.width-2, 0)))
}

// indicatorView returns the generating/start hint. It disappears once an
// email is shown.
func (m Model) indicatorView() (string, bool) {
	switch {
	case m.generating:
		text := spinnerFrames[m.spinnerFrame] + " " + GeneratingText
		if m.feedErr != nil {
			text = GeneratingText + " (stalled)"
		}
		return indicatorStyle.Render(text), true
	case m.shownID == "":
		return indicatorStyle.Render(StartText), true
	}
	return "", false
}

// inboxRows is how many inbox entries fit on screen.
func (m Model) inboxRows() int {
	return max(m.height/3, 3)
}

func (m Model) inboxView() []string {
	rows := m.inboxRows()
	if len(m.items) == 0 {
		return []string{padRight("  No emails yet", m.width)}
	}

	end := min(m.scrollOffset+rows, len(m.items))
	lines := make([]string, 0, end-m.scrollOffset)
	for i := m.scrollOffset; i < end; i++ {
		item := m.items[i]
		marker := "  "
		if i == m.cursor {
			marker = "▸ "
		}
		row := padRight(marker+inboxEntry(item.Sender, item.Subject), m.width)
		switch {
		case i == m.cursor:
			row = cursorRowStyle.Render(row)
		case item.ID == m.shownID:
			row = shownRowStyle.Render(row)
		}
		lines = append(lines, row)
	}
	return lines
}

func (m Model) separator() string {
	return separatorStyle.Render(strings.Repeat("─", max(m.width, 1)))
}

// detailView renders the shown email into at most maxLines rows.
func (m Model) detailView(maxLines int) []string {
	item, ok := m.shownItem()
	if !ok || maxLines <= 0 {
		return nil
	}

	width := max(m.width-2, 10)
	lines := []string{
		m.separator(),
		subjectStyle.Render(item.Subject),
		senderStyle.Render("Sender: " + item.Sender),
		"",
	}
	hints := reportKeyStyle.Render("[r] "+coach.ActionReport.Label()) + "   " +
		allowKeyStyle.Render("[a] "+coach.ActionAllow.Label())

	body := wrapLines(item.Body, width)
	room := maxLines - len(lines) - 2
	if room < len(body) {
		if room < 1 {
			room = 1
		}
		body = append(body[:room-1:room-1], "…")
	}
	lines = append(lines, body...)
	lines = append(lines, "", hints)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// chatRows is how many transcript lines the chat pane shows.
func (m Model) chatRows() int {
	return max(m.height/4, 3)
}

func (m Model) chatView() []string {
	lines := []string{m.separator(), chatTitleStyle.Render("Coach")}

	rows := m.chatRows()
	transcript := coach.FormatTranscript(m.turns, max(m.width-2, 10))
	if transcript != "" {
		tl := strings.Split(transcript, "\n")
		if len(tl) > rows {
			tl = tl[len(tl)-rows:]
		}
		lines = append(lines, tl...)
	}

	if m.inputEnabled {
		lines = append(lines, m.input.View())
	} else {
		lines = append(lines, disabledInputStyle.Render("> waiting for the coach..."))
	}
	return lines
}

func (m Model) footerView() string {
	if m.flashMessage != "" {
		return flashStyle.Render(padRight(" "+m.flashMessage, m.width))
	}
	var hints string
	switch {
	case m.inputFocused:
		hints = "enter send │ esc done"
	case m.shownID != "":
		hints = "↑/k ↓/j move │ enter open │ r report │ a allow │ c chat │ i ask │ q quit"
	default:
		hints = "↑/k ↓/j move │ enter open │ c chat │ i ask │ q quit"
	}
	return footerStyle.Render(padRight(hints, max(m.width-2, 0)))
}
