package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

// Phase machine events, named after the destination they lead to.
const (
	eventPlay    = "play"
	eventOrder   = "order"
	eventResolve = "resolve"
	eventLose    = "lose"
	eventWin     = "win"
)

// PhaseMachine tracks the committed phase and refuses transitions the game
// flow does not allow.
type PhaseMachine struct {
	fsm    *fsm.FSM
	logger *zap.Logger
}

// NewPhaseMachine returns a machine in MENU.
func NewPhaseMachine(logger *zap.Logger) *PhaseMachine {
	m := &PhaseMachine{logger: logger}
	m.fsm = fsm.NewFSM(
		PhaseMenu.String(),
		getPhaseTransitions(),
		getPhaseCallbacks(m),
	)
	return m
}

func getPhaseTransitions() []fsm.EventDesc {
	var (
		menu       = PhaseMenu.String()
		playing    = PhasePlaying.String()
		ordering   = PhaseEffectOrdering.String()
		resolution = PhaseEffectResolution.String()
		gameOver   = PhaseGameOver.String()
		victory    = PhaseVictory.String()
	)
	return fsm.Events{
		{Name: eventPlay, Src: []string{menu, ordering, resolution, gameOver, victory}, Dst: playing},
		{Name: eventOrder, Src: []string{playing}, Dst: ordering},
		{Name: eventResolve, Src: []string{playing, ordering}, Dst: resolution},
		{Name: eventLose, Src: []string{playing, ordering, resolution}, Dst: gameOver},
		{Name: eventWin, Src: []string{playing, ordering, resolution}, Dst: victory},
	}
}

func getPhaseCallbacks(m *PhaseMachine) fsm.Callbacks {
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			m.logger.Debug("phase change",
				zap.String("event", e.Event),
				zap.String("from", e.Src),
				zap.String("to", e.Dst),
			)
		},
	}
}

// Current returns the committed phase.
func (m *PhaseMachine) Current() Phase {
	for p := PhaseMenu; p <= PhaseVictory; p++ {
		if m.fsm.Current() == p.String() {
			return p
		}
	}
	return PhaseMenu
}

// Can reports whether the machine may move to phase to.
func (m *PhaseMachine) Can(to Phase) bool {
	if m.Current() == to {
		return true
	}
	return m.fsm.Can(phaseEvent(to))
}

// Transition moves the machine to phase to. An illegal transition is
// reported and the machine is forced into to anyway, since the committed
// state is authoritative.
func (m *PhaseMachine) Transition(ctx context.Context, to Phase) error {
	if m.Current() == to {
		return nil
	}
	from := m.Current()
	err := m.fsm.Event(ctx, phaseEvent(to))
	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return nil
	}
	m.fsm.SetState(to.String())
	return fmt.Errorf("phase %s -> %s: %w", from, to, err)
}

func phaseEvent(to Phase) string {
	switch to {
	case PhaseEffectOrdering:
		return eventOrder
	case PhaseEffectResolution:
		return eventResolve
	case PhaseGameOver:
		return eventLose
	case PhaseVictory:
		return eventWin
	default:
		return eventPlay
	}
}
