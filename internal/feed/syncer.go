// Package feed retrieves the batch of generated emails from the backend. The
// backend produces emails lazily, so the syncer keeps polling until the
// backend reports completion or returns an empty batch.
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wesm/phishcoach/internal/backend"
)

// DefaultInterval is the pause between polls.
const DefaultInterval = 100 * time.Millisecond

// Poller fetches one batch.
type Poller interface {
	Poll(ctx context.Context) (backend.Batch, error)
}

// Sink is told about new items and completion.
type Sink interface {
	// ItemAdded is called once per newly inserted item, in insertion order.
	ItemAdded(item Item)
	// Completed is called once when polling ends because the backend is
	// exhausted. It is not called when polling fails.
	Completed()
}

// State is the syncer lifecycle state.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAlreadyStarted is returned when Run is called more than once.
var ErrAlreadyStarted = errors.New("feed syncer already started")

// Syncer drives the poll loop and owns the item set.
type Syncer struct {
	poller   Poller
	sink     Sink
	interval time.Duration
	logger   *slog.Logger
	items    *ItemSet

	mu    sync.RWMutex
	state State
	polls int
}

// NewSyncer creates a syncer. sink may be nil.
func NewSyncer(poller Poller, sink Sink) *Syncer {
	if sink == nil {
		sink = nopSink{}
	}
	return &Syncer{
		poller:   poller,
		sink:     sink,
		interval: DefaultInterval,
		logger:   slog.Default(),
		items:    NewItemSet(),
	}
}

// WithLogger sets the logger for the syncer.
func (s *Syncer) WithLogger(logger *slog.Logger) *Syncer {
	s.logger = logger
	return s
}

// WithInterval sets the pause between polls. Non-positive values are ignored.
func (s *Syncer) WithInterval(d time.Duration) *Syncer {
	if d > 0 {
		s.interval = d
	}
	return s
}

// Run polls until the backend is exhausted (returns nil), a poll fails, or
// ctx is cancelled (both return the error). There is no retry.
func (s *Syncer) Run(ctx context.Context) error {
	if !s.transition(StateIdle, StateFetching) {
		return ErrAlreadyStarted
	}

	for {
		batch, err := s.poller.Poll(ctx)
		if err == nil && batch.Messages == nil {
			err = fmt.Errorf("%w: batch has no messages list", backend.ErrInvalidResponse)
		}
		if err != nil {
			s.setState(StateFailed)
			if ctx.Err() != nil {
				s.logger.Debug("polling stopped", "error", err, "polls", s.Polls())
			} else {
				s.logger.Error("loading emails failed", "error", err, "polls", s.Polls())
			}
			return fmt.Errorf("poll messages: %w", err)
		}
		s.incPolls()

		added := s.ingest(batch)
		s.logger.Debug("polled messages",
			"received", len(batch.Messages),
			"added", added,
			"generation_completed", batch.GenerationCompleted,
		)

		// An empty batch ends polling even without generation_completed.
		if len(batch.Messages) == 0 || batch.GenerationCompleted {
			s.setState(StateDone)
			s.logger.Info("email generation finished", "items", s.items.Len())
			s.sink.Completed()
			return nil
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.setState(StateFailed)
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// ingest adds the valid, unseen entries of batch and returns how many were added.
func (s *Syncer) ingest(batch backend.Batch) int {
	added := 0
	for i, raw := range batch.Messages {
		item, err := decodeItem(raw)
		if err != nil {
			s.logger.Warn("skipping invalid email", "index", i, "error", err)
			continue
		}
		if !s.items.Add(item) {
			s.logger.Debug("email already added", "email_id", item.ID)
			continue
		}
		added++
		s.sink.ItemAdded(item)
	}
	return added
}

// State returns the current lifecycle state.
func (s *Syncer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Generating reports whether the initial batch is still being produced.
// It stays true after a failed poll: the loop stalls without completing.
func (s *Syncer) Generating() bool {
	return s.State() != StateDone
}

// Polls returns the number of successful polls so far.
func (s *Syncer) Polls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.polls
}

// Items returns the retrieved items in arrival order.
func (s *Syncer) Items() []Item {
	return s.items.Items()
}

// Len returns the number of retrieved items.
func (s *Syncer) Len() int {
	return s.items.Len()
}

func (s *Syncer) transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

func (s *Syncer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Syncer) incPolls() {
	s.mu.Lock()
	s.polls++
	s.mu.Unlock()
}

type nopSink struct{}

func (nopSink) ItemAdded(Item) {}
func (nopSink) Completed()     {}
