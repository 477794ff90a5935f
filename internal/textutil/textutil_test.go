package textutil

import (
	"testing"

	"github.com/wesm/phishcoach/internal/testutil"
)

func TestShorten(t *testing.T) {
	long := "Urgent: your mailbox quota has been exceeded, verify your account now"
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{"short", "Invoice", SubjectWidth, "Invoice"},
		{"exact", "Hello", 5, "Hello"},
		{"cut", "Hello World", 5, "Hello ..."},
		{"subject width", long, SubjectWidth, long[:SubjectWidth] + " ..."},
		{"wide runes", "你好世界", 4, "你好 ..."},
		{"zero width", "Hello", 0, ""},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Shorten(tt.input, tt.maxWidth)
			if result != tt.expected {
				t.Errorf("Shorten(%q, %d) = %q, want %q", tt.input, tt.maxWidth, result, tt.expected)
			}
		})
	}
}

func TestSenderName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Jane Doe (jane@corp.example)", "Jane Doe"},
		{"IT Support", "IT Support"},
		{"(no name)", ""},
		{"  Payroll  (hr@corp.example) (ext)", "Payroll"},
	}
	for _, tt := range tests {
		if got := SenderName(tt.input); got != tt.expected {
			t.Errorf("SenderName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSingleLine(t *testing.T) {
	if got := SingleLine("a\r\nb\nc\td\r"); got != "a b c d" {
		t.Errorf("SingleLine() = %q", got)
	}
}

func TestToUTF8(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		declared string
		expected string
	}{
		{"valid passthrough", "Hello 世界", "", "Hello 世界"},
		{"valid ignores label", "café", "iso-8859-1", "café"},
		{"latin1 label", "caf\xe9", "iso-8859-1", "café"},
		{"windows-1252 smart quote", "Rand\x92s", "windows-1252", "Rand’s"},
		{"label with spaces", "\x80100", " cp1252 ", "€100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToUTF8(tt.input, tt.declared)
			if got != tt.expected {
				t.Errorf("ToUTF8(%q, %q) = %q, want %q", tt.input, tt.declared, got, tt.expected)
			}
		})
	}
}

func TestToUTF8_DeclaredCharsets(t *testing.T) {
	for _, tc := range testutil.CharsetSamples() {
		t.Run(tc.Name, func(t *testing.T) {
			if got := ToUTF8(string(tc.Raw), tc.Charset); got != tc.UTF8 {
				t.Errorf("ToUTF8(%q, %q) = %q, want %q", tc.Raw, tc.Charset, got, tc.UTF8)
			}
		})
	}
}

func TestToUTF8_UndeclaredAlwaysValid(t *testing.T) {
	inputs := []string{"\xff\xfe", "Price: \x80 5", "\x93quoted\x94 text with some more words to detect"}
	for _, tc := range testutil.CharsetSamples() {
		inputs = append(inputs, string(tc.Raw))
	}
	for _, in := range inputs {
		testutil.AssertValidUTF8(t, ToUTF8(in, ""))
	}
}

func TestToUTF8_UnknownLabelFallsBack(t *testing.T) {
	got := ToUTF8("Caf\xe9", "x-made-up")
	testutil.AssertValidUTF8(t, got)
	if got == "" {
		t.Error("ToUTF8 dropped the text")
	}
}

func TestSanitizeUTF8(t *testing.T) {
	if got := SanitizeUTF8("ok\xffok"); got != "ok�ok" {
		t.Errorf("SanitizeUTF8() = %q", got)
	}
}
