// Package textutil provides text cleanup helpers for email content and
// terminal display.
package textutil

import (
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// ToUTF8 converts s to valid UTF-8. Valid input is returned unchanged.
// Otherwise the declared charset label is tried first, then charset
// detection, then Windows-1252, which decodes any byte sequence.
func ToUTF8(s, declared string) string {
	if utf8.ValidString(s) {
		return s
	}
	data := []byte(s)

	if declared != "" {
		if out, ok := decodeLabel(data, declared); ok {
			return out
		}
	}

	// Detection is unreliable on short samples, so demand more confidence
	// from longer ones only.
	minConfidence := 30
	if len(data) > 50 {
		minConfidence = 50
	}
	if r, err := chardet.NewTextDetector().DetectBest(data); err == nil && r.Confidence >= minConfidence {
		if out, ok := decodeLabel(data, r.Charset); ok {
			return out
		}
	}

	if out, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil && utf8.Valid(out) {
		return string(out)
	}
	return SanitizeUTF8(s)
}

func decodeLabel(data []byte, label string) (string, bool) {
	enc, err := htmlindex.Get(strings.TrimSpace(label))
	if err != nil {
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}

// SanitizeUTF8 replaces invalid UTF-8 bytes with the replacement character.
func SanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}
