package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/wesm/phishcoach/internal/coach"
	"github.com/wesm/phishcoach/internal/testutil"
)

func TestItemsAppendInOrderWithoutDuplicates(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems[0], sampleItems[1], sampleItems[0])

	if len(h.m.items) != 2 {
		t.Fatalf("items = %d, want 2", len(h.m.items))
	}
	if h.m.items[1].ID != "1" {
		t.Errorf("second item = %q, want 1", h.m.items[1].ID)
	}
}

func TestIndicatorLifecycle(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems...)

	if v := h.view(); !strings.Contains(v, GeneratingText) {
		t.Errorf("view missing %q while generating:\n%s", GeneratingText, v)
	}

	h.complete()
	v := h.view()
	if strings.Contains(v, GeneratingText) || !strings.Contains(v, StartText) {
		t.Errorf("after completion want %q only:\n%s", StartText, v)
	}

	h.key("enter")
	v = h.view()
	if strings.Contains(v, StartText) || strings.Contains(v, GeneratingText) {
		t.Errorf("indicator should be hidden once an email is shown:\n%s", v)
	}
}

func TestShowBlockedWhileGenerating(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems...)

	h.key("enter")

	if h.m.shownID != "" {
		t.Errorf("shownID = %q, want none while generating", h.m.shownID)
	}
	if len(h.sel.shown) != 0 {
		t.Errorf("selector.Show called: %v", h.sel.shown)
	}
	if !strings.Contains(h.view(), "Emails are still being generated") {
		t.Error("expected a flash explaining why nothing opened")
	}
}

func TestShowDisplaysDetail(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems...)
	h.complete()

	h.key("j")
	h.key("enter")

	if h.m.shownID != "1" {
		t.Fatalf("shownID = %q, want 1", h.m.shownID)
	}
	testutil.AssertStrings(t, h.sel.shown, "1")
	testutil.AssertContainsAll(t, h.view(),
		"Office closed on Friday",
		"Sender: Facilities (fac@corp.example)",
		"The office will be closed for maintenance.",
		"[r] Flag as Phishing",
		"[a] Flag as Legitimate",
	)

	// A later selection replaces the earlier one.
	h.key("k")
	h.key("enter")
	if h.m.shownID != "0" || h.sel.current != "0" {
		t.Errorf("shownID = %q current = %q, want 0", h.m.shownID, h.sel.current)
	}
}

func TestCursorBounds(t *testing.T) {
	h := newHarness(t)
	h.key("k")
	h.key("j")
	if h.m.cursor != 0 {
		t.Errorf("cursor moved on empty inbox: %d", h.m.cursor)
	}

	h.addItems(sampleItems...)
	for i := 0; i < 5; i++ {
		h.key("down")
	}
	if h.m.cursor != 2 {
		t.Errorf("cursor = %d, want clamped to 2", h.m.cursor)
	}
	h.key("g")
	if h.m.cursor != 0 {
		t.Errorf("cursor = %d after g, want 0", h.m.cursor)
	}
	h.key("G")
	if h.m.cursor != 2 {
		t.Errorf("cursor = %d after G, want 2", h.m.cursor)
	}
}

func TestChatToggleGated(t *testing.T) {
	h := newHarness(t)
	h.key("c")
	if h.m.chatOpen {
		t.Error("chat opened while generating")
	}

	h.complete()
	h.key("c")
	if !h.m.chatOpen {
		t.Fatal("chat did not open after generation finished")
	}
	h.key("c")
	if h.m.chatOpen {
		t.Error("chat did not close on second toggle")
	}
}

func TestSubmitQueryUsesShownEmail(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems...)
	h.complete()
	h.key("enter")

	h.key("i")
	if !h.m.inputFocused || !h.m.chatOpen {
		t.Fatal("i should open chat and focus the input")
	}
	h.key("Is this real?")

	cmd := h.key("enter")
	if cmd == nil {
		t.Fatal("enter should start an exchange")
	}
	msg := cmd()
	done, ok := msg.(exchangeDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("cmd() = %#v, want exchangeDoneMsg without error", msg)
	}
	want := []queryCall{{text: "Is this real?", contextID: "0"}}
	if diff := cmp.Diff(want, h.coach.queries, cmp.AllowUnexported(queryCall{})); diff != "" {
		t.Errorf("queries mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyQueryIsNotSent(t *testing.T) {
	h := newHarness(t)
	h.complete()
	h.key("i")
	if cmd := h.key("enter"); cmd != nil {
		t.Error("empty query should not start an exchange")
	}
	if len(h.coach.queries) != 0 {
		t.Errorf("queries = %v", h.coach.queries)
	}
}

func TestDisabledInputIgnoresTyping(t *testing.T) {
	h := newHarness(t)
	h.complete()
	h.key("i")
	h.key("ab")
	h.send(inputsEnabledMsg{enabled: false})

	h.key("cd")
	if got := h.m.input.Value(); got != "ab" {
		t.Errorf("input = %q, want typing ignored while disabled", got)
	}
	if cmd := h.key("enter"); cmd != nil {
		t.Error("enter should not submit while disabled")
	}
	if !strings.Contains(h.view(), "waiting for the coach") {
		t.Error("disabled input should say it is waiting")
	}

	h.send(inputsEnabledMsg{enabled: true})
	h.send(clearInputMsg{})
	if h.m.input.Value() != "" {
		t.Errorf("input = %q after clear", h.m.input.Value())
	}
	h.key("x")
	if h.m.input.Value() != "x" {
		t.Errorf("input = %q, want typing accepted again", h.m.input.Value())
	}
}

func TestFlagRequiresShownEmail(t *testing.T) {
	h := newHarness(t)
	h.addItems(sampleItems...)
	h.complete()

	h.key("r")
	if len(h.coach.flags) != 0 || h.m.chatOpen {
		t.Fatalf("flag sent without a shown email: %v", h.coach.flags)
	}
	if !strings.Contains(h.view(), "Select an email first") {
		t.Error("expected a flash asking to select an email")
	}
}

func TestFlagOpensChatAndSends(t *testing.T) {
	tests := []struct {
		key    string
		action coach.Action
	}{
		{"r", coach.ActionReport},
		{"a", coach.ActionAllow},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			h := newHarness(t)
			h.addItems(sampleItems...)
			h.complete()
			h.key("G")
			h.key("enter")

			cmd := h.key(tt.key)
			if !h.m.chatOpen {
				t.Error("flag should open the chat pane")
			}
			if cmd == nil {
				t.Fatal("flag should start an exchange")
			}
			cmd()
			want := []flagCall{{action: tt.action, id: "2"}}
			if diff := cmp.Diff(want, h.coach.flags, cmp.AllowUnexported(flagCall{})); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranscriptRendersInChat(t *testing.T) {
	h := newHarness(t)
	h.complete()
	h.key("c")

	h.send(transcriptMsg{turns: []coach.Turn{
		{Speaker: coach.SpeakerUser, Text: "Flag as Phishing"},
		{Speaker: coach.SpeakerCoach, Text: coach.PlaceholderText},
	}})
	v := h.view()
	if !strings.Contains(v, "User: Flag as Phishing") || !strings.Contains(v, "Coach: Generating ...") {
		t.Errorf("chat missing transcript:\n%s", v)
	}

	h.send(transcriptMsg{turns: []coach.Turn{
		{Speaker: coach.SpeakerUser, Text: "Flag as Phishing"},
		{Speaker: coach.SpeakerCoach, Text: "Well spotted!"},
	}})
	v = h.view()
	if strings.Contains(v, "Generating ...") || !strings.Contains(v, "Coach: Well spotted!") {
		t.Errorf("placeholder not replaced:\n%s", v)
	}
	if h.view() != v {
		t.Error("re-rendering without changes produced different output")
	}
}

func TestExchangeDoneBusyFlashes(t *testing.T) {
	h := newHarness(t)
	h.send(exchangeDoneMsg{err: coach.ErrBusy})
	if !strings.Contains(h.view(), "Waiting for the coach to answer") {
		t.Error("ErrBusy should flash a waiting notice")
	}
}

func TestExchangePanicIsRecovered(t *testing.T) {
	h := newHarness(t)
	h.coach.panics = true
	h.complete()
	h.key("i")
	h.key("hi")

	cmd := h.key("enter")
	if cmd == nil {
		t.Fatal("expected exchange command")
	}
	done, ok := cmd().(exchangeDoneMsg)
	if !ok || done.err == nil || !strings.Contains(done.err.Error(), "panic") {
		t.Errorf("cmd() = %#v, want recovered panic error", done)
	}
}

func TestFeedFailureKeepsGenerating(t *testing.T) {
	h := newHarness(t)
	h.send(feedFailedMsg{err: errors.New("connection refused")})

	v := h.view()
	if !strings.Contains(v, GeneratingText+" (stalled)") {
		t.Errorf("view should show a stalled indicator:\n%s", v)
	}
	if !strings.Contains(v, "Loading emails failed: connection refused") {
		t.Errorf("view should flash the failure:\n%s", v)
	}
	if cmd := h.send(spinnerTickMsg{}); cmd != nil {
		t.Error("spinner should stop after a feed failure")
	}
}

func TestEscLeavesInput(t *testing.T) {
	h := newHarness(t)
	h.complete()
	h.key("i")
	h.key("esc")
	if h.m.inputFocused {
		t.Error("esc should release input focus")
	}
	if cmd := h.key("q"); cmd == nil {
		t.Error("q should quit once input focus is released")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if h.m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
