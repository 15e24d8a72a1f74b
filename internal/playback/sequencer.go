// Package playback paces already-computed deltas for presentation. It makes
// no game decisions: each delta is applied in full, in order, with a delay
// after it sized by its cues.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
)

const (
	// BaseDelay is the minimum time a delta stays on screen.
	BaseDelay = 400 * time.Millisecond
	// PreWait is paused before each delta is applied.
	PreWait = 50 * time.Millisecond
)

// Applier commits a delta. *game.Engine implements it.
type Applier interface {
	Apply(d game.Deltas)
}

// Sequencer is a FIFO of deltas drained with cosmetic delays.
type Sequencer struct {
	mu     sync.Mutex
	queue  []game.Deltas
	target Applier
	scale  float64
	wake   chan struct{}
	logger *zap.Logger
}

// New returns a sequencer applying to target. scale multiplies every delay;
// 0 plays back without waiting.
func New(target Applier, scale float64, logger *zap.Logger) *Sequencer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		target: target,
		scale:  scale,
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Enqueue appends steps. Empty deltas are skipped.
func (s *Sequencer) Enqueue(steps ...game.Deltas) {
	s.mu.Lock()
	n := 0
	for _, d := range steps {
		if d.Empty() {
			continue
		}
		s.queue = append(s.queue, d)
		n++
	}
	s.mu.Unlock()

	if n > 0 {
		select {
		case s.wake <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of deltas still waiting.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Delay is the unscaled hold time after d: the longest of its own duration,
// its longest cue and BaseDelay.
func Delay(d game.Deltas) time.Duration {
	ms := max(d.DurationMs, log.MaxDuration(d.Events))
	return max(time.Duration(ms)*time.Millisecond, BaseDelay)
}

// Step dequeues the next delta, applies it and returns how long to hold it
// on screen. ok is false when the queue is empty. Callers driving their own
// clock (a UI tick) use Step; Drain and Run wait for them.
func (s *Sequencer) Step() (hold time.Duration, ok bool) {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return 0, false
	}
	d := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	s.target.Apply(d)
	hold = s.scaled(Delay(d))
	s.logger.Debug("playback step",
		zap.Int("events", len(d.Events)),
		zap.Duration("hold", hold),
	)
	return hold, true
}

// Drain plays every queued delta, returning when the queue is empty or ctx
// is cancelled. A cancelled drain leaves the rest of the queue in place.
func (s *Sequencer) Drain(ctx context.Context) error {
	for s.Len() > 0 {
		if err := s.wait(ctx, s.scaled(PreWait)); err != nil {
			return err
		}
		hold, ok := s.Step()
		if !ok {
			return nil
		}
		if err := s.wait(ctx, hold); err != nil {
			return err
		}
	}
	return nil
}

// Run drains the queue whenever something is enqueued, until ctx is done.
func (s *Sequencer) Run(ctx context.Context) error {
	for {
		if err := s.Drain(ctx); err != nil {
			return err
		}
		select {
		case <-s.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Sequencer) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * s.scale)
}

func (s *Sequencer) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
