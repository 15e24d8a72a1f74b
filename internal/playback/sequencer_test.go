package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
)

type recorder struct {
	mu      sync.Mutex
	applied []game.Deltas
}

func (r *recorder) Apply(d game.Deltas) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, d)
}

func (r *recorder) turns() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.applied))
	for i, d := range r.applied {
		out[i] = d.Turn.Value
	}
	return out
}

func TestDrainAppliesInOrderAndSkipsEmpty(t *testing.T) {
	rec := &recorder{}
	seq := New(rec, 0, nil)
	seq.Enqueue(
		game.Deltas{Turn: game.Some(1)},
		game.Deltas{},
		game.Deltas{Turn: game.Some(2)},
		game.Deltas{Turn: game.Some(3)},
	)
	if seq.Len() != 3 {
		t.Fatalf("len %d, want 3", seq.Len())
	}
	if err := seq.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := rec.turns()
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("applied %v", got)
	}
	if seq.Len() != 0 {
		t.Error("queue not empty")
	}
}

func TestDelay(t *testing.T) {
	tests := []struct {
		name string
		d    game.Deltas
		want time.Duration
	}{
		{"base", game.Deltas{Turn: game.Some(1)}, BaseDelay},
		{"delta duration", game.Deltas{DurationMs: 600}, 600 * time.Millisecond},
		{"longest cue", game.Deltas{DurationMs: 400, Events: []log.GameEvent{
			log.NewCutEvent(1, "EFFECT_RESOLUTION", 3, "(1,1)"),
			log.NewVictoryEvent(1),
		}}, log.DurationVictory * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Delay(tt.d); got != tt.want {
				t.Errorf("Delay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStep(t *testing.T) {
	rec := &recorder{}
	seq := New(rec, 1, nil)
	if _, ok := seq.Step(); ok {
		t.Fatal("step on empty queue")
	}
	seq.Enqueue(game.Deltas{Turn: game.Some(4), DurationMs: 600})
	hold, ok := seq.Step()
	if !ok || hold != 600*time.Millisecond {
		t.Errorf("hold %v ok %v", hold, ok)
	}
	if got := rec.turns(); len(got) != 1 || got[0] != 4 {
		t.Errorf("applied %v", got)
	}
}

func TestDrainHonoursCancellation(t *testing.T) {
	rec := &recorder{}
	seq := New(rec, 1, nil)
	seq.Enqueue(game.Deltas{Turn: game.Some(1)}, game.Deltas{Turn: game.Some(2)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := seq.Drain(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err %v", err)
	}
	if seq.Len() != 2 {
		t.Errorf("cancelled drain consumed items: %d left", seq.Len())
	}
}

func TestRunWakesOnEnqueue(t *testing.T) {
	rec := &recorder{}
	seq := New(rec, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- seq.Run(ctx) }()

	seq.Enqueue(game.Deltas{Turn: game.Some(7)})
	deadline := time.Now().Add(2 * time.Second)
	for len(rec.turns()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
	if got := rec.turns(); len(got) != 1 || got[0] != 7 {
		t.Errorf("applied %v", got)
	}
}

func TestSequencerDrivesEngine(t *testing.T) {
	events := log.NewMemoryLogger()
	e, err := game.NewEngine(game.Config{Seed: 5, NoShuffle: true, Events: events})
	if err != nil {
		t.Fatal(err)
	}
	e.Dispatch(game.InitializeGame())

	seq := New(e, 0, nil)
	seq.Enqueue(e.Plan(game.EndTurn())...)
	if got := e.Snapshot().Turn; got != 1 {
		t.Fatalf("plan committed state: turn %d", got)
	}
	if err := seq.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := e.Snapshot().Turn; got != 2 {
		t.Errorf("turn %d after playback, want 2", got)
	}
}
