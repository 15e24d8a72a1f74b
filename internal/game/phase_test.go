package game

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestPhaseMachineFollowsGameFlow(t *testing.T) {
	m := NewPhaseMachine(zap.NewNop())
	ctx := context.Background()

	steps := []Phase{PhasePlaying, PhaseEffectOrdering, PhaseEffectResolution, PhasePlaying, PhaseEffectResolution, PhaseVictory, PhasePlaying, PhaseGameOver}
	for _, to := range steps {
		if !m.Can(to) {
			t.Fatalf("cannot move %s -> %s", m.Current(), to)
		}
		if err := m.Transition(ctx, to); err != nil {
			t.Fatalf("Transition(%s): %v", to, err)
		}
		if m.Current() != to {
			t.Fatalf("current %s, want %s", m.Current(), to)
		}
	}
}

func TestPhaseMachineRefusesIllegalTransition(t *testing.T) {
	m := NewPhaseMachine(zap.NewNop())
	if m.Can(PhaseEffectOrdering) {
		t.Error("MENU -> EFFECT_ORDERING allowed")
	}
	if err := m.Transition(context.Background(), PhaseEffectOrdering); err == nil {
		t.Error("expected an error")
	}
	if m.Current() != PhaseEffectOrdering {
		t.Errorf("machine did not follow the committed phase: %s", m.Current())
	}
	if err := m.Transition(context.Background(), PhaseEffectOrdering); err != nil {
		t.Errorf("self transition: %v", err)
	}
}
