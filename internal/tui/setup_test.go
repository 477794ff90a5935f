package tui

import (
	"context"
	"regexp"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/wesm/phishcoach/internal/coach"
	"github.com/wesm/phishcoach/internal/feed"
	"github.com/wesm/phishcoach/internal/selection"
)

// ansiStart is the escape sequence prefix found in styled terminal output.
const ansiStart = "\x1b["

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output and restores the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

type flagCall struct {
	action coach.Action
	id     string
}

type queryCall struct {
	text, contextID string
}

// fakeCoach records submissions.
type fakeCoach struct {
	mu      sync.Mutex
	queries []queryCall
	flags   []flagCall
	err     error
	panics  bool
}

func (f *fakeCoach) SubmitQuery(_ context.Context, text, contextID string) error {
	if f.panics {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, queryCall{text, contextID})
	return f.err
}

func (f *fakeCoach) SubmitFlag(_ context.Context, action coach.Action, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags = append(f.flags, flagCall{action, id})
	return f.err
}

// fakeSelector gates on a flag instead of a feed.
type fakeSelector struct {
	generating bool
	current    string
	shown      []string
}

func (s *fakeSelector) Show(id string) error {
	if s.generating {
		return selection.ErrGenerating
	}
	s.current = id
	s.shown = append(s.shown, id)
	return nil
}

func (s *fakeSelector) CurrentID() string { return s.current }

func (s *fakeSelector) ChatAllowed() bool { return !s.generating }

// harness bundles a model with its fakes.
type harness struct {
	m     Model
	coach *fakeCoach
	sel   *fakeSelector
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{coach: &fakeCoach{}, sel: &fakeSelector{generating: true}}
	h.m = New(context.Background(), h.coach, h.sel, Options{Version: "test"})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// send runs msg through Update and returns the resulting command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.m.Update(msg)
	h.m = model.(Model)
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	switch s {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "down":
		return h.send(tea.KeyMsg{Type: tea.KeyDown})
	case "up":
		return h.send(tea.KeyMsg{Type: tea.KeyUp})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) addItems(items ...feed.Item) {
	for _, it := range items {
		h.send(itemAddedMsg{item: it})
	}
}

// complete finishes generation in both the model and the selector gate.
func (h *harness) complete() {
	h.sel.generating = false
	h.send(feedCompletedMsg{})
}

func (h *harness) view() string {
	return stripANSI(h.m.View())
}

var sampleItems = []feed.Item{
	{ID: "0", Sender: "IT Helpdesk (it@helpdesk.example)", Subject: "Your password expires today", Body: "Click the link below to keep your password."},
	{ID: "1", Sender: "Facilities (fac@corp.example)", Subject: "Office closed on Friday", Body: "The office will be closed for maintenance."},
	{ID: "2", Sender: "CEO", Subject: "Quick favour: please buy gift cards for the client meeting this afternoon", Body: "Reply with the codes."},
}
