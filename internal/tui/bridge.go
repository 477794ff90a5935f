package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wesm/phishcoach/internal/coach"
	"github.com/wesm/phishcoach/internal/feed"
)

// Bridge forwards events from background components into the bubbletea
// program. It satisfies feed.Sink, coach.Renderer and coach.Inputs. Events
// sent before Attach are dropped.
type Bridge struct {
	mu   sync.RWMutex
	send func(tea.Msg)
}

var (
	_ feed.Sink      = (*Bridge)(nil)
	_ coach.Renderer = (*Bridge)(nil)
	_ coach.Inputs   = (*Bridge)(nil)
)

// NewBridge creates an unattached bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes events to p.
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *Bridge) post(msg tea.Msg) {
	b.mu.RLock()
	send := b.send
	b.mu.RUnlock()
	if send != nil {
		send(msg)
	}
}

// ItemAdded implements feed.Sink.
func (b *Bridge) ItemAdded(item feed.Item) { b.post(itemAddedMsg{item: item}) }

// Completed implements feed.Sink.
func (b *Bridge) Completed() { b.post(feedCompletedMsg{}) }

// FeedFailed reports that the poll loop stopped on an error.
func (b *Bridge) FeedFailed(err error) { b.post(feedFailedMsg{err: err}) }

// Render implements coach.Renderer.
func (b *Bridge) Render(turns []coach.Turn) { b.post(transcriptMsg{turns: turns}) }

// SetEnabled implements coach.Inputs.
func (b *Bridge) SetEnabled(enabled bool) { b.post(inputsEnabledMsg{enabled: enabled}) }

// Clear implements coach.Inputs.
func (b *Bridge) Clear() { b.post(clearInputMsg{}) }
