package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// SubjectWidth is how many cells of a subject the inbox list shows.
const SubjectWidth = 54

// Ellipsis is appended to shortened subjects.
const Ellipsis = " ..."

// Shorten keeps the first maxWidth cells of s and appends Ellipsis when
// anything was cut. The suffix is not counted against maxWidth.
func Shorten(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "") + Ellipsis
}

// SenderName returns the part of a sender before the first "(", trimmed.
// "Jane Doe (jane@corp.example)" becomes "Jane Doe".
func SenderName(sender string) string {
	if i := strings.Index(sender, "("); i >= 0 {
		return strings.TrimSpace(sender[:i])
	}
	return sender
}

// SingleLine flattens control whitespace so s renders on one row.
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\t', '\v', '\f':
			return ' '
		case '\r':
			return -1
		}
		return r
	}, s)
}
