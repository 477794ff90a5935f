// Package email builds raw .eml training samples for tests.
package email

import (
	"strconv"
	"strings"
)

// SampleBuilder constructs single-part messages with a fluent API. Output
// always uses \r\n line endings.
type SampleBuilder struct {
	from       string
	to         string
	subject    string
	date       string
	body       string
	html       bool
	charset    string
	encoding   string
	headerKeys []string
	headerVals []string
}

// NewSample creates a SampleBuilder with sensible defaults.
func NewSample() *SampleBuilder {
	return &SampleBuilder{
		from:    "sender@example.com",
		to:      "user@corp.example",
		subject: "Training sample",
		date:    "Mon, 01 Jan 2024 12:00:00 +0000",
		body:    "This is a training email.",
		charset: "utf-8",
	}
}

// From sets the From header.
func (b *SampleBuilder) From(v string) *SampleBuilder { b.from = v; return b }

// To sets the To header. An empty value omits it.
func (b *SampleBuilder) To(v string) *SampleBuilder { b.to = v; return b }

// Subject sets the Subject header.
func (b *SampleBuilder) Subject(v string) *SampleBuilder { b.subject = v; return b }

// Body sets the body exactly as it appears on the wire.
func (b *SampleBuilder) Body(v string) *SampleBuilder { b.body = v; return b }

// HTML marks the body as text/html.
func (b *SampleBuilder) HTML() *SampleBuilder { b.html = true; return b }

// Charset sets the charset parameter of Content-Type.
func (b *SampleBuilder) Charset(v string) *SampleBuilder { b.charset = v; return b }

// QuotedPrintable declares the body as quoted-printable.
func (b *SampleBuilder) QuotedPrintable() *SampleBuilder { b.encoding = "quoted-printable"; return b }

// Phishing sets the X-Phishing ground-truth header.
func (b *SampleBuilder) Phishing(v bool) *SampleBuilder {
	return b.Header("X-Phishing", strconv.FormatBool(v))
}

// Analysis sets the X-Analysis header.
func (b *SampleBuilder) Analysis(v string) *SampleBuilder { return b.Header("X-Analysis", v) }

// Header adds an arbitrary header.
func (b *SampleBuilder) Header(key, value string) *SampleBuilder {
	b.headerKeys = append(b.headerKeys, key)
	b.headerVals = append(b.headerVals, value)
	return b
}

// Bytes builds the complete message.
func (b *SampleBuilder) Bytes() []byte {
	const nl = "\r\n"
	var s strings.Builder

	s.WriteString("From: " + b.from + nl)
	if b.to != "" {
		s.WriteString("To: " + b.to + nl)
	}
	s.WriteString("Subject: " + b.subject + nl)
	s.WriteString("Date: " + b.date + nl)
	for i, k := range b.headerKeys {
		s.WriteString(k + ": " + b.headerVals[i] + nl)
	}

	ct := "text/plain"
	if b.html {
		ct = "text/html"
	}
	s.WriteString("MIME-Version: 1.0" + nl)
	s.WriteString("Content-Type: " + ct + "; charset=" + b.charset + nl)
	if b.encoding != "" {
		s.WriteString("Content-Transfer-Encoding: " + b.encoding + nl)
	}
	s.WriteString(nl)
	s.WriteString(b.body + nl)

	return []byte(s.String())
}
