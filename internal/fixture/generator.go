package fixture

import (
	"context"
	"sync"
	"time"
)

// Phase is the fixture backend's interaction state.
type Phase int

const (
	PhaseGenerating Phase = iota
	PhaseEngaged
	PhaseCoaching
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseEngaged:
		return "engaged"
	case PhaseCoaching:
		return "coaching"
	default:
		return "unknown"
	}
}

// Generator releases samples in batches, simulating a slow email generator.
type Generator struct {
	samples   []Sample
	batchSize int
	delay     time.Duration

	mu       sync.Mutex
	released int
	phase    Phase
	resets   int
}

// NewGenerator creates a generator in the generating phase.
func NewGenerator(samples []Sample, batchSize int, delay time.Duration) *Generator {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Generator{samples: samples, batchSize: batchSize, delay: delay}
}

// Next returns the next batch. While generating it releases up to
// batchSize new samples; once none remain it returns an empty batch with
// completed set and moves to the engaged phase. After that it returns every
// sample with completed set. The lock is not held during the generation
// delay; if a Reset or another Next moves generation on meanwhile, the
// batch is recomputed.
func (g *Generator) Next(ctx context.Context) ([]Sample, bool, error) {
	for {
		g.mu.Lock()
		if g.phase != PhaseGenerating {
			g.phase = PhaseEngaged
			out := g.releasedLocked()
			g.mu.Unlock()
			return out, true, nil
		}
		start := g.released
		if start >= len(g.samples) {
			g.phase = PhaseEngaged
			g.mu.Unlock()
			return []Sample{}, true, nil
		}
		end := min(start+g.batchSize, len(g.samples))
		resets := g.resets
		g.mu.Unlock()

		if err := g.wait(ctx, end-start); err != nil {
			return nil, false, err
		}

		g.mu.Lock()
		if g.resets != resets || g.released != start {
			g.mu.Unlock()
			continue
		}
		g.released = end
		batch := make([]Sample, end-start)
		copy(batch, g.samples[start:end])
		g.mu.Unlock()
		return batch, false, nil
	}
}

// wait sleeps the generation delay for n samples.
func (g *Generator) wait(ctx context.Context, n int) error {
	if g.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(g.delay * time.Duration(n))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Generating reports whether samples are still being released.
func (g *Generator) Generating() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase == PhaseGenerating
}

// Phase returns the current phase.
func (g *Generator) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Lookup finds a released sample by id.
func (g *Generator) Lookup(id int) (Sample, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range g.samples[:g.released] {
		if s.ID == id {
			return s, true
		}
	}
	return Sample{}, false
}

// Engage moves out of coaching back to the engaged phase. It has no effect
// while generating.
func (g *Generator) Engage() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseGenerating {
		g.phase = PhaseEngaged
	}
}

// Coach enters the coaching phase unless still generating. It reports
// whether the transition happened.
func (g *Generator) Coach() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseGenerating {
		return false
	}
	g.phase = PhaseCoaching
	return true
}

// Reset starts generation over.
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.released = 0
	g.phase = PhaseGenerating
	g.resets++
}

func (g *Generator) releasedLocked() []Sample {
	out := make([]Sample, g.released)
	copy(out, g.samples[:g.released])
	return out
}
