// Package coach runs the conversation with the coaching backend: it keeps
// the transcript and serializes queries and flag actions so that at most
// one exchange is in flight at a time.
package coach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Fixed transcript texts.
const (
	PlaceholderText = "Generating ..."
	ErrorText       = "An error occurred. Please try again."
)

var (
	// ErrBusy is returned when an exchange is already in flight.
	ErrBusy = errors.New("an exchange is already in progress")
	// ErrEmptyQuery is returned for an empty query; nothing is sent.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownAction is returned by ParseAction for unrecognized input.
	ErrUnknownAction = errors.New("unknown flag action")
)

// Backend is the subset of the backend client the controller calls.
type Backend interface {
	Query(ctx context.Context, text, emailID string) (string, error)
	Flag(ctx context.Context, messageID string, isPhishing bool) (string, error)
}

// Renderer receives the full transcript every time it changes.
type Renderer interface {
	Render(turns []Turn)
}

// Inputs controls the user's input widgets.
type Inputs interface {
	SetEnabled(enabled bool)
	Clear()
}

// Controller owns the transcript and the request lock.
type Controller struct {
	backend  Backend
	renderer Renderer
	inputs   Inputs
	logger   *slog.Logger

	mu         sync.Mutex
	transcript Transcript
	busy       bool // an exchange is in flight
	pending    bool // the last turn is an unresolved placeholder
}

// NewController creates a controller. renderer and inputs may be nil.
func NewController(backend Backend, renderer Renderer, inputs Inputs) *Controller {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if inputs == nil {
		inputs = nopInputs{}
	}
	return &Controller{
		backend:  backend,
		renderer: renderer,
		inputs:   inputs,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the controller.
func (c *Controller) WithLogger(logger *slog.Logger) *Controller {
	c.logger = logger
	return c
}

// SubmitQuery sends a free-text question. contextID is the id of the email
// selected when the user submitted, or "" when none is. The call blocks
// until the exchange completes.
func (c *Controller) SubmitQuery(ctx context.Context, text, contextID string) error {
	if text == "" {
		return ErrEmptyQuery
	}
	err := c.exchange(ctx, text, func(ctx context.Context) (string, error) {
		return c.backend.Query(ctx, text, contextID)
	})
	if err != nil && !errors.Is(err, ErrBusy) {
		return fmt.Errorf("query: %w", err)
	}
	return err
}

// SubmitFlag reports the user's verdict on itemID. The call blocks until the
// exchange completes.
func (c *Controller) SubmitFlag(ctx context.Context, action Action, itemID string) error {
	err := c.exchange(ctx, action.Label(), func(ctx context.Context) (string, error) {
		return c.backend.Flag(ctx, itemID, action.IsPhishing())
	})
	if err != nil && !errors.Is(err, ErrBusy) {
		return fmt.Errorf("flag %s: %w", itemID, err)
	}
	return err
}

// Turns returns a copy of the transcript.
func (c *Controller) Turns() []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Turns()
}

// Busy reports whether an exchange is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// InputsEnabled reports whether input widgets should accept input.
func (c *Controller) InputsEnabled() bool {
	return !c.Busy()
}

// Rerender pushes the current transcript to the renderer again.
func (c *Controller) Rerender() {
	c.renderer.Render(c.Turns())
}

// exchange runs one request/response cycle. The lock is released and the
// inputs re-enabled on every exit path, including a panic in the renderer.
func (c *Controller) exchange(ctx context.Context, userText string, call func(context.Context) (string, error)) error {
	turns, err := c.begin(userText)
	if err != nil {
		return err
	}
	defer c.finish()

	c.renderer.Render(turns)
	c.inputs.SetEnabled(false)

	c.logger.Debug("exchange started", "user_text", userText)
	reply, callErr := call(ctx)
	if callErr != nil {
		c.logger.Warn("exchange failed", "error", callErr)
		reply = ErrorText
	}

	c.renderer.Render(c.complete(Turn{Speaker: SpeakerCoach, Text: reply}))
	if callErr == nil {
		c.inputs.Clear()
	}
	return callErr
}

// begin takes the request lock and appends the user turn and placeholder.
func (c *Controller) begin(userText string) ([]Turn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return nil, ErrBusy
	}
	c.busy = true
	c.transcript.Append(Turn{Speaker: SpeakerUser, Text: userText})
	c.transcript.Append(Turn{Speaker: SpeakerCoach, Text: PlaceholderText})
	c.pending = true
	return c.transcript.Turns(), nil
}

// complete replaces the placeholder with the coach's reply.
func (c *Controller) complete(reply Turn) []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcript.ReplaceLast(reply)
	c.pending = false
	return c.transcript.Turns()
}

func (c *Controller) finish() {
	c.mu.Lock()
	repaired := c.pending
	if repaired {
		// Completion never ran; do not leave "Generating ..." behind.
		c.transcript.ReplaceLast(Turn{Speaker: SpeakerCoach, Text: ErrorText})
		c.pending = false
	}
	c.busy = false
	turns := c.transcript.Turns()
	c.mu.Unlock()

	defer c.inputs.SetEnabled(true)
	if repaired {
		c.renderRecovered(turns)
	}
}

// renderRecovered renders turns, logging instead of propagating a panic so
// the caller's own cleanup still runs.
func (c *Controller) renderRecovered(turns []Turn) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("render failed after aborted exchange", "panic", r)
		}
	}()
	c.renderer.Render(turns)
}

type nopRenderer struct{}

func (nopRenderer) Render([]Turn) {}

type nopInputs struct{}

func (nopInputs) SetEnabled(bool) {}
func (nopInputs) Clear()          {}
