package coach

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Speaker identifies who produced a turn.
type Speaker int

const (
	SpeakerUser Speaker = iota
	SpeakerCoach
)

// String returns the display label for the speaker.
func (s Speaker) String() string {
	switch s {
	case SpeakerUser:
		return "User"
	case SpeakerCoach:
		return "Coach"
	default:
		return "Unknown"
	}
}

// Turn is one transcript entry. Turns are never modified after being appended.
type Turn struct {
	Speaker Speaker
	Text    string
}

// Transcript is the ordered list of turns. The only mutations are Append
// and ReplaceLast (pop the last turn, then append).
type Transcript struct {
	turns []Turn
}

// Append adds a turn at the end.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// ReplaceLast pops the last turn and appends turn in its place.
// On an empty transcript it only appends.
func (t *Transcript) ReplaceLast(turn Turn) {
	if n := len(t.turns); n > 0 {
		t.turns = t.turns[:n-1]
	}
	t.turns = append(t.turns, turn)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Turns returns a copy of the turns in append order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// FormatTranscript renders turns as plain text, one "Speaker: text" block per
// turn separated by blank lines, wrapping at width display cells (no
// wrapping when width <= 0). It depends only on turns, so calling it twice
// yields identical output.
func FormatTranscript(turns []Turn, width int) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		prefix := turn.Speaker.String() + ": "
		b.WriteString(prefix)
		b.WriteString(wrap(turn.Text, width, runewidth.StringWidth(prefix)))
	}
	return b.String()
}

// wrap breaks text into lines no wider than width cells. The first line has
// indent cells already used by the speaker prefix.
func wrap(text string, width, indent int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	for li, line := range strings.Split(text, "\n") {
		if li > 0 {
			b.WriteString("\n")
			indent = 0
		}
		col := indent
		for wi, word := range strings.Fields(line) {
			w := runewidth.StringWidth(word)
			if wi > 0 {
				if col+1+w > width {
					b.WriteString("\n")
					col = 0
				} else {
					b.WriteString(" ")
					col++
				}
			}
			b.WriteString(word)
			col += w
		}
	}
	return b.String()
}
