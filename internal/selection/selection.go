// Package selection tracks which generated email the user is looking at.
package selection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// ErrGenerating is returned by Show while the initial batch is still being
// generated.
var ErrGenerating = errors.New("emails are still being generated")

// Gate reports whether selection is currently blocked.
type Gate interface {
	Generating() bool
}

// Notifier tells the backend which email is being viewed.
type Notifier interface {
	ReportView(ctx context.Context, emailID string) error
}

// Selector holds at most one selected email id. The last Show wins.
type Selector struct {
	gate     Gate
	notifier Notifier
	logger   *slog.Logger
	ctx      context.Context

	mu       sync.RWMutex
	current  string
	selected bool

	wg sync.WaitGroup
}

// New creates a selector. View reports run under ctx; a nil notifier
// disables them.
func New(ctx context.Context, gate Gate, notifier Notifier) *Selector {
	return &Selector{
		gate:     gate,
		notifier: notifier,
		logger:   slog.Default(),
		ctx:      ctx,
	}
}

// WithLogger sets the logger for the selector.
func (s *Selector) WithLogger(logger *slog.Logger) *Selector {
	s.logger = logger
	return s
}

// Show selects id and reports the view to the backend in the background.
// It fails with ErrGenerating, leaving the selection untouched, while the
// gate reports generation in progress.
func (s *Selector) Show(id string) error {
	if s.gate != nil && s.gate.Generating() {
		return ErrGenerating
	}

	s.mu.Lock()
	s.current = id
	s.selected = true
	s.mu.Unlock()

	if s.notifier == nil {
		return nil
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.notifier.ReportView(s.ctx, id); err != nil {
			s.logger.Warn("view report failed", "email_id", id, "error", err)
		}
	}()
	return nil
}

// Current returns the selected id, if any.
func (s *Selector) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.selected
}

// CurrentID returns the selected id or "" when nothing is selected.
func (s *Selector) CurrentID() string {
	id, _ := s.Current()
	return id
}

// ChatAllowed reports whether the chat panel may be opened.
func (s *Selector) ChatAllowed() bool {
	return s.gate == nil || !s.gate.Generating()
}

// Wait blocks until all view reports started so far have finished.
func (s *Selector) Wait() {
	s.wg.Wait()
}
