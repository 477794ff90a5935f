// Package tui provides the terminal user interface for phishcoach.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wesm/phishcoach/internal/coach"
	"github.com/wesm/phishcoach/internal/feed"
	"github.com/wesm/phishcoach/internal/selection"
)

// Coach runs exchanges with the coaching backend.
type Coach interface {
	SubmitQuery(ctx context.Context, text, contextID string) error
	SubmitFlag(ctx context.Context, action coach.Action, itemID string) error
}

// Selector tracks the viewed email.
type Selector interface {
	Show(id string) error
	CurrentID() string
	ChatAllowed() bool
}

// Options configuration for TUI.
type Options struct {
	BackendURL string
	Version    string
	Logger     *slog.Logger
}

// Indicator texts shown above the inbox.
const (
	GeneratingText = "Generating training emails..."
	StartText      = "Select an email to start"
)

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// spinnerFrames are the Braille dot animation frames for the loading spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// Model is the main TUI model following the Elm architecture.
type Model struct {
	ctx      context.Context
	coach    Coach
	selector Selector
	logger   *slog.Logger

	backendURL string
	version    string

	// Inbox
	items        []feed.Item
	index        map[string]int
	cursor       int
	scrollOffset int
	generating   bool
	feedErr      error

	// Detail: empty until an email is shown
	shownID string

	// Chat
	chatOpen     bool
	turns        []coach.Turn
	inputEnabled bool
	inputFocused bool
	input        textinput.Model

	// Terminal dimensions
	width  int
	height int

	spinnerFrame int

	// Flash message (temporary notification)
	flashMessage   string
	flashExpiresAt time.Time

	quitting bool
}

// New creates a new TUI model.
func New(ctx context.Context, c Coach, sel Selector, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the coach about this email"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Prompt = "> "

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		ctx:          ctx,
		coach:        c,
		selector:     sel,
		logger:       logger,
		backendURL:   opts.BackendURL,
		version:      opts.Version,
		index:        make(map[string]int),
		generating:   true,
		inputEnabled: true,
		input:        ti,
		width:        80,
		height:       24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return spinnerTick()
}

// itemAddedMsg is sent for each new email from the feed.
type itemAddedMsg struct {
	item feed.Item
}

// feedCompletedMsg is sent once the feed has every email.
type feedCompletedMsg struct{}

// feedFailedMsg is sent when polling stops on an error.
type feedFailedMsg struct {
	err error
}

// transcriptMsg carries the full transcript after each change.
type transcriptMsg struct {
	turns []coach.Turn
}

// inputsEnabledMsg toggles the chat input.
type inputsEnabledMsg struct {
	enabled bool
}

// clearInputMsg empties the chat input after a successful exchange.
type clearInputMsg struct{}

// exchangeDoneMsg is returned when a query or flag exchange finishes.
type exchangeDoneMsg struct {
	err error
}

// flashClearMsg clears the flash message after timeout.
type flashClearMsg struct{}

// spinnerTickMsg advances the generating spinner.
type spinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.input.Width = max(m.width-4, 10)
		m.ensureCursorVisible()
		return m, nil

	case itemAddedMsg:
		if _, dup := m.index[msg.item.ID]; dup {
			return m, nil
		}
		m.index[msg.item.ID] = len(m.items)
		m.items = append(m.items, msg.item)
		return m, nil

	case feedCompletedMsg:
		m.generating = false
		return m, nil

	case feedFailedMsg:
		m.feedErr = msg.err
		return m, m.flash("Loading emails failed: " + msg.err.Error())

	case transcriptMsg:
		m.turns = msg.turns
		return m, nil

	case inputsEnabledMsg:
		m.inputEnabled = msg.enabled
		if !msg.enabled {
			m.input.Blur()
		} else if m.inputFocused {
			return m, m.input.Focus()
		}
		return m, nil

	case clearInputMsg:
		m.input.SetValue("")
		return m, nil

	case exchangeDoneMsg:
		switch {
		case msg.err == nil:
		case errors.Is(msg.err, coach.ErrBusy):
			return m, m.flash("Waiting for the coach to answer")
		case errors.Is(msg.err, coach.ErrEmptyQuery):
		default:
			m.logger.Warn("exchange failed", "error", msg.err)
		}
		return m, nil

	case flashClearMsg:
		if !m.flashExpiresAt.IsZero() && !time.Now().Before(m.flashExpiresAt) {
			m.flashMessage = ""
			m.flashExpiresAt = time.Time{}
		}
		return m, nil

	case spinnerTickMsg:
		if !m.generating || m.feedErr != nil {
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()
	}

	return m, nil
}

// flash shows a temporary message in the footer.
func (m *Model) flash(text string) tea.Cmd {
	m.flashMessage = text
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashClearMsg{} })
}

// showSelected displays the email under the cursor.
func (m Model) showSelected() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	item := m.items[m.cursor]
	if err := m.selector.Show(item.ID); err != nil {
		if errors.Is(err, selection.ErrGenerating) {
			return m, m.flash("Emails are still being generated")
		}
		return m, m.flash(err.Error())
	}
	m.shownID = item.ID
	return m, nil
}

// toggleChat opens or closes the chat pane.
func (m Model) toggleChat() (tea.Model, tea.Cmd) {
	if !m.selector.ChatAllowed() {
		return m, m.flash("Emails are still being generated")
	}
	m.chatOpen = !m.chatOpen
	if !m.chatOpen {
		m.inputFocused = false
		m.input.Blur()
	}
	return m, nil
}

// focusInput opens the chat and moves key input into the text field.
func (m Model) focusInput() (tea.Model, tea.Cmd) {
	if !m.chatOpen {
		if !m.selector.ChatAllowed() {
			return m, m.flash("Emails are still being generated")
		}
		m.chatOpen = true
	}
	m.inputFocused = true
	if !m.inputEnabled {
		return m, nil
	}
	return m, m.input.Focus()
}

// submitQuery sends the input text with the currently shown email as context.
func (m Model) submitQuery() (tea.Model, tea.Cmd) {
	if !m.inputEnabled {
		return m, nil
	}
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	contextID := m.selector.CurrentID()
	return m, m.runExchange("query", func(ctx context.Context) error {
		return m.coach.SubmitQuery(ctx, text, contextID)
	})
}

// submitFlag reports a verdict on the shown email.
func (m Model) submitFlag(action coach.Action) (tea.Model, tea.Cmd) {
	if m.shownID == "" {
		return m, m.flash("Select an email first")
	}
	if !m.inputEnabled {
		return m, m.flash("Waiting for the coach to answer")
	}
	m.chatOpen = true
	id := m.shownID
	return m, m.runExchange("flag", func(ctx context.Context) error {
		return m.coach.SubmitFlag(ctx, action, id)
	})
}

// runExchange runs fn off the UI goroutine. Transcript and input updates
// arrive separately through the Bridge.
func (m Model) runExchange(kind string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = exchangeDoneMsg{err: fmt.Errorf("%s panic: %v", kind, r)}
			}
		}()
		return exchangeDoneMsg{err: fn(ctx)}
	}
}

// shownItem returns the email in the detail pane.
func (m Model) shownItem() (feed.Item, bool) {
	i, ok := m.index[m.shownID]
	if !ok {
		return feed.Item{}, false
	}
	return m.items[i], true
}
