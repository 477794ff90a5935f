package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/wesm/phishcoach/internal/textutil"
)

// senderWidth is the inbox column width for sender names.
const senderWidth = 24

// padRight pads a string with spaces to fill width terminal cells.
// Uses lipgloss.Width to correctly handle ANSI codes and full-width characters.
func padRight(s string, width int) string {
	sw := lipgloss.Width(s)
	if sw >= width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-sw)
}

// fitWidth shortens plain text to maxWidth cells with a trailing "...".
func fitWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// inboxEntry renders the sender and subject columns of one inbox row.
func inboxEntry(sender, subject string) string {
	name := fitWidth(textutil.SingleLine(textutil.SenderName(sender)), senderWidth)
	subj := textutil.Shorten(textutil.SingleLine(subject), textutil.SubjectWidth)
	return padRight(name, senderWidth) + "  " + subj
}

// wrapLines word-wraps text to width cells and returns the lines.
func wrapLines(text string, width int) []string {
	if width <= 0 {
		width = 80
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	wrapped := ansi.Wrap(text, width, "")
	return strings.Split(wrapped, "\n")
}
